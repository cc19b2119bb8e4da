package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// ReplaceTaxonomy swaps the skill/subtopic/topic hierarchy for a
// graph in one transaction.
func (s *Store) ReplaceTaxonomy(ctx context.Context, graphID string, skills []SkillRow, subtopics []SubtopicRow, topics []TopicRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"skills", "subtopics", "topics"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE graph_id = ?`, graphID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range topics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO topics (id, graph_id, name) VALUES (?, ?, ?)`,
			t.ID, graphID, t.Name); err != nil {
			return fmt.Errorf("insert topic %s: %w", t.ID, err)
		}
	}
	for _, st := range subtopics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subtopics (id, graph_id, name, topic_id) VALUES (?, ?, ?, ?)`,
			st.ID, graphID, st.Name, nullIfEmpty(st.TopicID)); err != nil {
			return fmt.Errorf("insert subtopic %s: %w", st.ID, err)
		}
	}
	for _, sk := range skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skills (id, graph_id, name, tier, level, subtopic_id) VALUES (?, ?, ?, ?, ?, ?)`,
			sk.ID, graphID, sk.Name, string(sk.Tier), sk.Level, nullIfEmpty(sk.SubtopicID)); err != nil {
			return fmt.Errorf("insert skill %s: %w", sk.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSkills returns the skill rows for a graph.
func (s *Store) LoadSkills(ctx context.Context, graphID string) ([]SkillRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, graph_id, name, tier, level, subtopic_id
		FROM skills WHERE graph_id = ? ORDER BY id`, graphID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	defer rows.Close()

	var out []SkillRow
	for rows.Next() {
		var r SkillRow
		var subtopic sql.NullString
		var tier string
		if err := rows.Scan(&r.ID, &r.GraphID, &r.Name, &tier, &r.Level, &subtopic); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		r.Tier = skillgraph.Tier(tier)
		r.SubtopicID = subtopic.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadSubtopics returns the subtopic rows for a graph.
func (s *Store) LoadSubtopics(ctx context.Context, graphID string) ([]SubtopicRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, graph_id, name, topic_id
		FROM subtopics WHERE graph_id = ? ORDER BY id`, graphID)
	if err != nil {
		return nil, fmt.Errorf("load subtopics: %w", err)
	}
	defer rows.Close()

	var out []SubtopicRow
	for rows.Next() {
		var r SubtopicRow
		var topic sql.NullString
		if err := rows.Scan(&r.ID, &r.GraphID, &r.Name, &topic); err != nil {
			return nil, fmt.Errorf("scan subtopic: %w", err)
		}
		r.TopicID = topic.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadTopics returns the topic rows for a graph.
func (s *Store) LoadTopics(ctx context.Context, graphID string) ([]TopicRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, graph_id, name FROM topics WHERE graph_id = ? ORDER BY id`, graphID)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	defer rows.Close()

	var out []TopicRow
	for rows.Next() {
		var r TopicRow
		if err := rows.Scan(&r.ID, &r.GraphID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
