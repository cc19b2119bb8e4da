package mastery

import (
	"time"

	"github.com/abhisek/skilltrace/internal/retention"
)

// StudentAttempt is an immutable submission event. Attempts are the
// authoritative log that all mastery is derived from; they are created
// once and never mutated.
type StudentAttempt struct {
	GraphID     string    `json:"graphId"`
	StudentID   string    `json:"studentId"`
	QuestionID  string    `json:"questionId"`
	IsCorrect   bool      `json:"isCorrect"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// QuestionWithWeights maps a question to the skills it exercises.
// A question contributes points to every skill in Skills.
type QuestionWithWeights struct {
	ID                  string   `json:"id"`
	Skills              []string `json:"skills"`
	WeightageMultiplier float64  `json:"weightageMultiplier"`
}

// KPMastery is the per-skill mastery aggregate for one student on one
// graph. Created lazily on the first attempt touching the skill and
// recomputed on every later attempt. The retention-derived fields are
// not stored here; see Derived.
type KPMastery struct {
	EarnedPoints   float64    `json:"earnedPoints"`
	MaxPoints      float64    `json:"maxPoints"`
	RawMastery     float64    `json:"rawMastery"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
	Stability      float64    `json:"stability"`
	RetrievalCount int        `json:"retrievalCount"`
}

// Derived computes the non-persisted retention fields as of now.
func (k KPMastery) Derived(now time.Time) retention.Result {
	return retention.EffectiveMastery(k.RawMastery, k.LastReviewedAt, k.Stability, now)
}

// MasteryMap keys KPMastery records by skill id. Engine operations
// treat it as a value: callers receive a fresh map and the input is
// never aliased.
type MasteryMap map[string]KPMastery

// Clone returns a copy of the map. KPMastery values copy cleanly; the
// shared *time.Time is safe because attempts never rewrite a Time in
// place.
func (m MasteryMap) Clone() MasteryMap {
	out := make(MasteryMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// newKPMastery returns a zeroed record with initial stability.
func newKPMastery() KPMastery {
	return KPMastery{Stability: retention.InitialStability}
}
