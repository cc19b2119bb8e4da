// Package retention implements the memory model behind effective
// mastery: an Ebbinghaus forgetting curve with a stability parameter
// that grows on each successful retrieval. All functions are pure and
// total over their numeric domain; degenerate inputs are clamped,
// never rejected.
package retention

import (
	"math"
	"time"
)

// InitialStability is the stability (in days) assigned to a skill on
// first contact, and the floor that degenerate stability values are
// clamped to.
const InitialStability = 1.0

// Retention factor thresholds for the status classification. Fixed
// constants, not configurable per call.
const (
	CurrentThreshold = 0.8
	AgingThreshold   = 0.5
)

// Stability growth constants for UpdateStability:
// S' = S·(growthA·S^−growthB·e^{growthC·R} + growthD).
const (
	growthA = 1.2
	growthB = 0.25
	growthC = 1.5
	growthD = 0.1
)

// Status classifies how fresh a skill's memory is.
type Status string

const (
	StatusCurrent Status = "current"
	StatusAging   Status = "aging"
	StatusExpired Status = "expired"
)

// Result holds the derived retention fields for one skill.
type Result struct {
	EffectiveMastery float64 `json:"effectiveMastery"`
	RetentionFactor  float64 `json:"retentionFactor"`
	Status           Status  `json:"retentionStatus"`
}

// Factor returns the retention factor R(t) = exp(−t/S) where t is the
// wall-clock days since the last review. A skill never reviewed has
// full retention.
func Factor(lastReviewedAt *time.Time, stability float64, now time.Time) float64 {
	if lastReviewedAt == nil {
		return 1.0
	}
	days := now.Sub(*lastReviewedAt).Hours() / 24.0
	if days < 0 {
		days = 0
	}
	return math.Exp(-days / clampStability(stability))
}

// EffectiveMastery applies retention decay to a raw mastery value.
func EffectiveMastery(rawMastery float64, lastReviewedAt *time.Time, stability float64, now time.Time) Result {
	factor := Factor(lastReviewedAt, stability, now)
	return Result{
		EffectiveMastery: rawMastery * factor,
		RetentionFactor:  factor,
		Status:           StatusFor(factor),
	}
}

// StatusFor classifies a retention factor.
func StatusFor(factor float64) Status {
	switch {
	case factor >= CurrentThreshold:
		return StatusCurrent
	case factor >= AgingThreshold:
		return StatusAging
	default:
		return StatusExpired
	}
}

// UpdateStability returns the new stability after a successful
// retrieval at time now. Growth is sublinear in current stability
// (the S^−B term gives diminishing returns) and rewards reviews made
// while retention is still high (the e^{C·R} term): retrieving before
// you forget strengthens memory more than relearning after.
func UpdateStability(currentStability float64, lastReviewedAt *time.Time, now time.Time) float64 {
	s := clampStability(currentStability)
	r := Factor(lastReviewedAt, s, now)
	return s * (growthA*math.Pow(s, -growthB)*math.Exp(growthC*r) + growthD)
}

// DaysUntilExpiry solves the decay curve for the day count at which
// retention crosses the aging threshold. Returns nil if retention is
// already at or below that threshold.
func DaysUntilExpiry(stability, currentRetention float64) *float64 {
	if currentRetention <= AgingThreshold {
		return nil
	}
	days := -clampStability(stability) * math.Log(AgingThreshold)
	return &days
}

func clampStability(s float64) float64 {
	if s < InitialStability {
		return InitialStability
	}
	return s
}
