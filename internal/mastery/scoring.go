package mastery

// ScoringStrategy decides how many points a question is worth to each
// of its mapped skills. The engine contract (attempt × weighted
// question → mastery delta) is stable across strategies, so earlier
// scoring formulas survive here as pluggable alternatives to the
// current default.
type ScoringStrategy interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// SkillWeights returns the per-skill point weight for one
	// question. Both maxPoints and (when correct) earnedPoints
	// advance by the returned weight.
	SkillWeights(q QuestionWithWeights) map[string]float64
}

// EqualWeight is the current default policy: binary correctness,
// weight 1 per mapped skill, no multiplier, no wrong-answer penalty.
type EqualWeight struct{}

func (EqualWeight) Name() string { return "equal-weight" }

func (EqualWeight) SkillWeights(q QuestionWithWeights) map[string]float64 {
	w := make(map[string]float64, len(q.Skills))
	for _, s := range q.Skills {
		w[s] = 1.0
	}
	return w
}

// PrimarySecondary is the superseded weighted policy: the first
// mapped skill is the question's primary focus and earns full weight,
// the rest earn half.
type PrimarySecondary struct{}

func (PrimarySecondary) Name() string { return "primary-secondary" }

func (PrimarySecondary) SkillWeights(q QuestionWithWeights) map[string]float64 {
	w := make(map[string]float64, len(q.Skills))
	for i, s := range q.Skills {
		if i == 0 {
			w[s] = 1.0
		} else {
			w[s] = 0.5
		}
	}
	return w
}

// IndependenceAdjusted is the superseded multiplier policy: every
// skill's weight is scaled by the question's weightage multiplier
// (how independently the question exercises each skill). A zero
// multiplier means the field was never populated and falls back to 1.
type IndependenceAdjusted struct{}

func (IndependenceAdjusted) Name() string { return "independence-adjusted" }

func (IndependenceAdjusted) SkillWeights(q QuestionWithWeights) map[string]float64 {
	mult := q.WeightageMultiplier
	if mult <= 0 {
		mult = 1.0
	}
	w := make(map[string]float64, len(q.Skills))
	for _, s := range q.Skills {
		w[s] = mult
	}
	return w
}
