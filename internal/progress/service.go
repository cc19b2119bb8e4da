// Package progress orchestrates the persistent side of mastery
// tracking: recording attempts, recomputing mastery from the full
// attempt log, and assembling student reports.
package progress

import (
	"context"
	"fmt"

	"github.com/abhisek/skilltrace/internal/mastery"
	"github.com/abhisek/skilltrace/internal/store"
)

// Service wires the mastery engine to the datastore repos.
type Service struct {
	attempts  store.AttemptRepo
	questions store.QuestionRepo
	masteries store.MasteryRepo
	taxonomy  store.TaxonomyRepo
	engine    *mastery.Engine
}

// NewService creates a Service. A nil engine selects the default
// equal-weight engine.
func NewService(attempts store.AttemptRepo, questions store.QuestionRepo, masteries store.MasteryRepo, taxonomy store.TaxonomyRepo, engine *mastery.Engine) *Service {
	if engine == nil {
		engine = mastery.NewEngine(nil)
	}
	return &Service{
		attempts:  attempts,
		questions: questions,
		masteries: masteries,
		taxonomy:  taxonomy,
		engine:    engine,
	}
}

// RecordAttempt appends one attempt to the immutable log and returns
// its assigned id. The attempt must reference a known question.
func (s *Service) RecordAttempt(ctx context.Context, a mastery.StudentAttempt) (string, error) {
	rows, err := s.questions.LoadQuestions(ctx, a.GraphID)
	if err != nil {
		return "", fmt.Errorf("load questions: %w", err)
	}
	known := false
	for _, q := range rows {
		if q.ID == a.QuestionID {
			known = true
			break
		}
	}
	if !known {
		return "", fmt.Errorf("question %q is not in graph %q", a.QuestionID, a.GraphID)
	}

	id, err := s.attempts.AppendAttempt(ctx, a)
	if err != nil {
		return "", fmt.Errorf("append attempt: %w", err)
	}
	return id, nil
}

// Recompute rebuilds a student's mastery from the full attempt log and
// persists the result. Each run derives from scratch and overwrites by
// (graph, student, skill), so recomputation is idempotent.
func (s *Service) Recompute(ctx context.Context, graphID, studentID string) (mastery.MasteryMap, error) {
	attempts, err := s.attempts.LoadAttempts(ctx, graphID, studentID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	rows, err := s.questions.LoadQuestions(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	questions := make(map[string]mastery.QuestionWithWeights, len(rows))
	for _, q := range rows {
		questions[q.ID] = q.Weights()
	}

	m := s.engine.ProcessBatch(attempts, questions, nil)
	m = s.engine.CorrectMaxPoints(m, questions)

	for skillID, kp := range m {
		row := store.MasteryRow{
			GraphID:   graphID,
			StudentID: studentID,
			SkillID:   skillID,
			KPMastery: kp,
		}
		if err := s.masteries.UpsertMastery(ctx, row); err != nil {
			return nil, fmt.Errorf("upsert mastery for %s: %w", skillID, err)
		}
	}

	return m, nil
}
