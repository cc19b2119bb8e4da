package rollup

// GradeBand is one row of the letter-grade table.
type GradeBand struct {
	Grade  string  `json:"grade"`
	MinPct float64 `json:"minPct"`
	Color  string  `json:"color"`
}

// gradeTable maps mastery percentages to letter grades. Ordered by
// descending MinPct: GradeForPercent scans top-down and returns the
// first band whose inclusive lower bound qualifies, so the highest
// qualifying grade always wins.
var gradeTable = []GradeBand{
	{Grade: "A+", MinPct: 0.90, Color: "#16a34a"},
	{Grade: "A", MinPct: 0.75, Color: "#22c55e"},
	{Grade: "B", MinPct: 0.60, Color: "#84cc16"},
	{Grade: "C", MinPct: 0.40, Color: "#eab308"},
	{Grade: "D", MinPct: 0.20, Color: "#f97316"},
	{Grade: "F", MinPct: 0.0, Color: "#ef4444"},
}

// GradeTable returns a copy of the grade bands in descending order.
func GradeTable() []GradeBand {
	out := make([]GradeBand, len(gradeTable))
	copy(out, gradeTable)
	return out
}

// GradeForPercent returns the letter grade for a mastery percentage
// in [0,1]. Boundaries are inclusive lower bounds: exactly 0.75 is
// an A, not a B.
func GradeForPercent(pct float64) GradeBand {
	for _, band := range gradeTable {
		if pct >= band.MinPct {
			return band
		}
	}
	return gradeTable[len(gradeTable)-1]
}
