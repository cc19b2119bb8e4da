package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skilltrace/internal/mastery"
)

// AppendAttempt records one immutable submission event and returns
// its generated id.
func (s *Store) AppendAttempt(ctx context.Context, a mastery.StudentAttempt) (string, error) {
	id := uuid.New().String()
	correct := 0
	if a.IsCorrect {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (id, graph_id, student_id, question_id, is_correct, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, a.GraphID, a.StudentID, a.QuestionID, correct, a.AttemptedAt.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("append attempt: %w", err)
	}
	return id, nil
}

// LoadAttempts returns a student's full attempt history on a graph,
// oldest first. Attempts sharing a timestamp replay in insertion
// order, so downstream folds stay deterministic.
func (s *Store) LoadAttempts(ctx context.Context, graphID, studentID string) ([]mastery.StudentAttempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT graph_id, student_id, question_id, is_correct, attempted_at
		FROM attempts
		WHERE graph_id = ? AND student_id = ?
		ORDER BY attempted_at ASC, rowid ASC`, graphID, studentID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	defer rows.Close()

	var out []mastery.StudentAttempt
	for rows.Next() {
		var a mastery.StudentAttempt
		var correct int
		var at int64
		if err := rows.Scan(&a.GraphID, &a.StudentID, &a.QuestionID, &correct, &at); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.IsCorrect = correct != 0
		a.AttemptedAt = time.UnixMilli(at).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
