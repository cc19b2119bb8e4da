package mastery

import (
	"log"
	"sort"

	"github.com/abhisek/skilltrace/internal/retention"
)

// Engine folds student attempts into per-skill mastery records.
// It holds no mutable state of its own; every operation is a pure
// value-in/value-out transform.
type Engine struct {
	strategy ScoringStrategy
}

// NewEngine creates an engine with the given scoring strategy.
// A nil strategy selects the EqualWeight default.
func NewEngine(strategy ScoringStrategy) *Engine {
	if strategy == nil {
		strategy = EqualWeight{}
	}
	return &Engine{strategy: strategy}
}

// Strategy returns the engine's scoring strategy.
func (e *Engine) Strategy() ScoringStrategy { return e.strategy }

// ProcessAttempt applies one attempt against one question and returns
// the updated mastery map. The input map is not modified.
func (e *Engine) ProcessAttempt(attempt StudentAttempt, q QuestionWithWeights, m MasteryMap) MasteryMap {
	out := m.Clone()
	e.apply(attempt, q, out)
	return out
}

// ProcessBatch folds a full attempt history through the engine.
// Attempts are sorted ascending by AttemptedAt before folding because
// lastReviewedAt and retrievalCount are order-sensitive: the last
// correct attempt wins the timestamp. Attempts referencing a question
// absent from questions are skipped; partial data must not block
// mastery computation for the rest of the history.
func (e *Engine) ProcessBatch(attempts []StudentAttempt, questions map[string]QuestionWithWeights, initial MasteryMap) MasteryMap {
	sorted := make([]StudentAttempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AttemptedAt.Before(sorted[j].AttemptedAt)
	})

	out := initial.Clone()
	for _, a := range sorted {
		q, ok := questions[a.QuestionID]
		if !ok {
			log.Printf("mastery: skipping attempt on unknown question %q", a.QuestionID)
			continue
		}
		e.apply(a, q, out)
	}
	return out
}

// apply mutates the builder map for one attempt. Kept internal so the
// mutation never escapes a single computation.
func (e *Engine) apply(attempt StudentAttempt, q QuestionWithWeights, m MasteryMap) {
	for skillID, weight := range e.strategy.SkillWeights(q) {
		kp, ok := m[skillID]
		if !ok {
			kp = newKPMastery()
		}

		kp.MaxPoints += weight
		if attempt.IsCorrect {
			kp.EarnedPoints += weight
			kp.RetrievalCount++
			// Stability grows against the state before this
			// retrieval, then the review timestamp advances.
			kp.Stability = retention.UpdateStability(kp.Stability, kp.LastReviewedAt, attempt.AttemptedAt)
			at := attempt.AttemptedAt
			kp.LastReviewedAt = &at
		}
		kp.RawMastery = rawMastery(kp.EarnedPoints, kp.MaxPoints)

		m[skillID] = kp
	}
}

// CorrectMaxPoints rescales a freshly recomputed mastery map against
// the full question set of the graph: maxPoints for each skill becomes
// the total weight of all questions mapped to it, so unattempted
// questions implicitly score as wrong. Skills with mapped questions
// but zero attempts appear as zero-mastery records rather than being
// absent. Used when recomputing from full history, not incrementally.
func (e *Engine) CorrectMaxPoints(m MasteryMap, questions map[string]QuestionWithWeights) MasteryMap {
	totals := make(map[string]float64)
	for _, q := range questions {
		for skillID, weight := range e.strategy.SkillWeights(q) {
			totals[skillID] += weight
		}
	}

	out := m.Clone()
	for skillID, total := range totals {
		kp, ok := out[skillID]
		if !ok {
			kp = newKPMastery()
		}
		kp.MaxPoints = total
		kp.RawMastery = rawMastery(kp.EarnedPoints, kp.MaxPoints)
		out[skillID] = kp
	}
	return out
}

func rawMastery(earned, max float64) float64 {
	if max == 0 {
		return 0
	}
	return earned / max
}
