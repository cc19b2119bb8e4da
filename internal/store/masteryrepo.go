package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UpsertMastery writes one mastery row keyed by (graph, student,
// skill). Recomputing the same history produces identical rows and
// simply overwrites the previous ones.
func (s *Store) UpsertMastery(ctx context.Context, row MasteryRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kp_mastery
			(graph_id, student_id, skill_id, earned_points, max_points,
			 raw_mastery, last_reviewed_at, stability, retrieval_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(graph_id, student_id, skill_id) DO UPDATE SET
			earned_points    = excluded.earned_points,
			max_points       = excluded.max_points,
			raw_mastery      = excluded.raw_mastery,
			last_reviewed_at = excluded.last_reviewed_at,
			stability        = excluded.stability,
			retrieval_count  = excluded.retrieval_count,
			updated_at       = excluded.updated_at`,
		row.GraphID, row.StudentID, row.SkillID,
		row.EarnedPoints, row.MaxPoints, row.RawMastery,
		unixOrNil(row.LastReviewedAt), row.Stability, row.RetrievalCount,
		time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert mastery %s/%s/%s: %w", row.GraphID, row.StudentID, row.SkillID, err)
	}
	return nil
}

// LoadMastery returns all mastery rows for a student on a graph.
func (s *Store) LoadMastery(ctx context.Context, graphID, studentID string) ([]MasteryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT graph_id, student_id, skill_id, earned_points, max_points,
		       raw_mastery, last_reviewed_at, stability, retrieval_count
		FROM kp_mastery
		WHERE graph_id = ? AND student_id = ?
		ORDER BY skill_id`, graphID, studentID)
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	defer rows.Close()

	var out []MasteryRow
	for rows.Next() {
		var r MasteryRow
		var reviewed sql.NullInt64
		if err := rows.Scan(&r.GraphID, &r.StudentID, &r.SkillID,
			&r.EarnedPoints, &r.MaxPoints, &r.RawMastery,
			&reviewed, &r.Stability, &r.RetrievalCount); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		if reviewed.Valid {
			t := time.Unix(reviewed.Int64, 0).UTC()
			r.LastReviewedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
