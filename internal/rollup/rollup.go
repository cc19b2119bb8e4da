// Package rollup aggregates per-skill mastery into subtopic and topic
// grades. Children are weighted by the square root of their maxPoints:
// linear weighting would let one skill with many low-signal attempts
// dominate its subtopic, while sqrt compresses the influence of
// high-volume skills yet still rewards evidence over near-none.
package rollup

import (
	"math"

	"github.com/abhisek/skilltrace/internal/mastery"
)

// MasteredThreshold is the rawMastery floor at which a child counts
// as mastered.
const MasteredThreshold = 0.8

// AggregatedMastery is the derived rollup for one grouping. Computed
// on demand, never stored.
type AggregatedMastery struct {
	Mastery           float64 `json:"mastery"`
	SkillCount        int     `json:"skillCount"`
	MasteredCount     int     `json:"masteredCount"`
	TotalMaxPoints    float64 `json:"totalMaxPoints"`
	TotalEarnedPoints float64 `json:"totalEarnedPoints"`
}

// Child is one weighted input to an aggregation.
type Child struct {
	Mastery   float64
	MaxPoints float64
	Mastered  bool
}

// Aggregate computes the sqrt-weighted mastery over children. A zero
// weight sum (no data) aggregates to 0.
func Aggregate(children []Child) AggregatedMastery {
	var agg AggregatedMastery
	var weightedSum, weightSum float64
	for _, c := range children {
		w := math.Sqrt(c.MaxPoints)
		weightedSum += c.Mastery * w
		weightSum += w
		if c.Mastered {
			agg.MasteredCount++
		}
	}
	agg.SkillCount = len(children)
	if weightSum > 0 {
		agg.Mastery = weightedSum / weightSum
	}
	return agg
}

// SubtopicMastery aggregates the skills assigned to one subtopic.
func SubtopicMastery(subtopicID string, skillMastery mastery.MasteryMap, skillToSubtopic map[string]string) AggregatedMastery {
	var children []Child
	agg := AggregatedMastery{}
	for skillID, kp := range skillMastery {
		if skillToSubtopic[skillID] != subtopicID {
			continue
		}
		children = append(children, skillChild(kp))
		agg.TotalMaxPoints += kp.MaxPoints
		agg.TotalEarnedPoints += kp.EarnedPoints
	}
	out := Aggregate(children)
	out.TotalMaxPoints = agg.TotalMaxPoints
	out.TotalEarnedPoints = agg.TotalEarnedPoints
	return out
}

// UngroupedMastery aggregates the skills with no subtopic assignment
// into their own bucket so no skill silently drops off dashboards.
func UngroupedMastery(skillMastery mastery.MasteryMap, skillToSubtopic map[string]string) AggregatedMastery {
	var children []Child
	out := AggregatedMastery{}
	for skillID, kp := range skillMastery {
		if _, grouped := skillToSubtopic[skillID]; grouped {
			continue
		}
		children = append(children, skillChild(kp))
		out.TotalMaxPoints += kp.MaxPoints
		out.TotalEarnedPoints += kp.EarnedPoints
	}
	agg := Aggregate(children)
	agg.TotalMaxPoints = out.TotalMaxPoints
	agg.TotalEarnedPoints = out.TotalEarnedPoints
	return agg
}

// GroupReport holds all three aggregation tiers from one pass.
type GroupReport struct {
	Subtopics map[string]AggregatedMastery `json:"subtopics"`
	Topics    map[string]AggregatedMastery `json:"topics"`
	Ungrouped AggregatedMastery            `json:"ungrouped"`
}

// AllGroupMastery computes subtopic, topic, and ungrouped aggregates
// from the current mastery set. The same sqrt weighting applies at
// the subtopic→topic level, weighted by each subtopic's total
// maxPoints; topic skill and mastered counts sum over the member
// subtopics.
func AllGroupMastery(skillMastery mastery.MasteryMap, skillToSubtopic, subtopicToTopic map[string]string) GroupReport {
	report := GroupReport{
		Subtopics: make(map[string]AggregatedMastery),
		Topics:    make(map[string]AggregatedMastery),
	}

	subtopicIDs := make(map[string]bool)
	for _, st := range skillToSubtopic {
		subtopicIDs[st] = true
	}
	for st := range subtopicIDs {
		report.Subtopics[st] = SubtopicMastery(st, skillMastery, skillToSubtopic)
	}
	report.Ungrouped = UngroupedMastery(skillMastery, skillToSubtopic)

	topicChildren := make(map[string][]Child)
	for st, agg := range report.Subtopics {
		topic, ok := subtopicToTopic[st]
		if !ok {
			continue
		}
		topicChildren[topic] = append(topicChildren[topic], Child{
			Mastery:   agg.Mastery,
			MaxPoints: agg.TotalMaxPoints,
			Mastered:  agg.Mastery >= MasteredThreshold,
		})
		t := report.Topics[topic]
		t.SkillCount += agg.SkillCount
		t.MasteredCount += agg.MasteredCount
		t.TotalMaxPoints += agg.TotalMaxPoints
		t.TotalEarnedPoints += agg.TotalEarnedPoints
		report.Topics[topic] = t
	}
	for topic, children := range topicChildren {
		t := report.Topics[topic]
		t.Mastery = Aggregate(children).Mastery
		report.Topics[topic] = t
	}

	return report
}

func skillChild(kp mastery.KPMastery) Child {
	return Child{
		Mastery:   kp.RawMastery,
		MaxPoints: kp.MaxPoints,
		Mastered:  kp.RawMastery >= MasteredThreshold,
	}
}
