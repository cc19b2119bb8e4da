package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReplaceQuestions swaps the question set for a graph in one
// transaction.
func (s *Store) ReplaceQuestions(ctx context.Context, graphID string, rows []QuestionRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE graph_id = ?`, graphID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	for _, q := range rows {
		skills, err := json.Marshal(q.Skills)
		if err != nil {
			return fmt.Errorf("marshal skills for question %s: %w", q.ID, err)
		}
		weightage := q.WeightageMultiplier
		if weightage == 0 {
			weightage = 1.0
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (id, graph_id, text, skills, weightage)
			VALUES (?, ?, ?, ?, ?)`,
			q.ID, graphID, q.Text, string(skills), weightage); err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}

	return tx.Commit()
}

// LoadQuestions returns all questions for a graph.
func (s *Store) LoadQuestions(ctx context.Context, graphID string) ([]QuestionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, graph_id, text, skills, weightage
		FROM questions WHERE graph_id = ? ORDER BY id`, graphID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionRow
	for rows.Next() {
		var q QuestionRow
		var skills string
		if err := rows.Scan(&q.ID, &q.GraphID, &q.Text, &skills, &q.WeightageMultiplier); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(skills), &q.Skills); err != nil {
			return nil, fmt.Errorf("decode skills for question %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
