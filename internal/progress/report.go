package progress

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/skilltrace/internal/mastery"
	"github.com/abhisek/skilltrace/internal/retention"
	"github.com/abhisek/skilltrace/internal/rollup"
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// SkillReport is one skill's full mastery picture: the stored record
// plus the retention-derived fields as of report time.
type SkillReport struct {
	SkillID string          `json:"skillId"`
	Name    string          `json:"name,omitempty"`
	Tier    skillgraph.Tier `json:"tier,omitempty"`
	Level   int             `json:"level"`

	mastery.KPMastery
	retention.Result

	DaysUntilExpiry *float64         `json:"daysUntilExpiry,omitempty"`
	Grade           rollup.GradeBand `json:"grade"`
}

// GroupReport is one subtopic or topic rollup with its grade.
type GroupReport struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	rollup.AggregatedMastery
	Grade rollup.GradeBand `json:"grade"`
}

// StudentReport is the full per-student view over one graph.
type StudentReport struct {
	GraphID     string    `json:"graphId"`
	StudentID   string    `json:"studentId"`
	GeneratedAt time.Time `json:"generatedAt"`

	Skills    []SkillReport `json:"skills"`
	Subtopics []GroupReport `json:"subtopics"`
	Topics    []GroupReport `json:"topics"`
	Ungrouped GroupReport   `json:"ungrouped"`
}

// BuildReport assembles the rollup report for one student: per-skill
// records with retention decay applied, sqrt-weighted subtopic and
// topic aggregates, and letter grades throughout.
func (s *Service) BuildReport(ctx context.Context, graphID, studentID string, now time.Time) (*StudentReport, error) {
	masteryRows, err := s.masteries.LoadMastery(ctx, graphID, studentID)
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	skills, err := s.taxonomy.LoadSkills(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	subtopics, err := s.taxonomy.LoadSubtopics(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load subtopics: %w", err)
	}
	topics, err := s.taxonomy.LoadTopics(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}

	skillByID := make(map[string]storeSkill, len(skills))
	skillToSubtopic := make(map[string]string)
	for _, sk := range skills {
		skillByID[sk.ID] = storeSkill{name: sk.Name, tier: sk.Tier, level: sk.Level}
		if sk.SubtopicID != "" {
			skillToSubtopic[sk.ID] = sk.SubtopicID
		}
	}
	subtopicName := make(map[string]string, len(subtopics))
	subtopicToTopic := make(map[string]string)
	for _, st := range subtopics {
		subtopicName[st.ID] = st.Name
		if st.TopicID != "" {
			subtopicToTopic[st.ID] = st.TopicID
		}
	}
	topicName := make(map[string]string, len(topics))
	for _, t := range topics {
		topicName[t.ID] = t.Name
	}

	report := &StudentReport{
		GraphID:     graphID,
		StudentID:   studentID,
		GeneratedAt: now,
	}

	skillMastery := make(mastery.MasteryMap, len(masteryRows))
	for _, row := range masteryRows {
		skillMastery[row.SkillID] = row.KPMastery

		derived := row.KPMastery.Derived(now)
		sr := SkillReport{
			SkillID:         row.SkillID,
			KPMastery:       row.KPMastery,
			Result:          derived,
			DaysUntilExpiry: retention.DaysUntilExpiry(row.Stability, derived.RetentionFactor),
			Grade:           rollup.GradeForPercent(derived.EffectiveMastery),
		}
		if info, ok := skillByID[row.SkillID]; ok {
			sr.Name = info.name
			sr.Tier = info.tier
			sr.Level = info.level
		}
		report.Skills = append(report.Skills, sr)
	}

	groups := rollup.AllGroupMastery(skillMastery, skillToSubtopic, subtopicToTopic)
	for id, agg := range groups.Subtopics {
		report.Subtopics = append(report.Subtopics, GroupReport{
			ID:                id,
			Name:              subtopicName[id],
			AggregatedMastery: agg,
			Grade:             rollup.GradeForPercent(agg.Mastery),
		})
	}
	for id, agg := range groups.Topics {
		report.Topics = append(report.Topics, GroupReport{
			ID:                id,
			Name:              topicName[id],
			AggregatedMastery: agg,
			Grade:             rollup.GradeForPercent(agg.Mastery),
		})
	}
	report.Ungrouped = GroupReport{
		ID:                "ungrouped",
		AggregatedMastery: groups.Ungrouped,
		Grade:             rollup.GradeForPercent(groups.Ungrouped.Mastery),
	}

	sortReport(report)
	return report, nil
}

type storeSkill struct {
	name  string
	tier  skillgraph.Tier
	level int
}

// sortReport orders the report sections by id so output is stable
// across runs; map iteration order must not leak into reports.
func sortReport(r *StudentReport) {
	sort.Slice(r.Skills, func(i, j int) bool { return r.Skills[i].SkillID < r.Skills[j].SkillID })
	sort.Slice(r.Subtopics, func(i, j int) bool { return r.Subtopics[i].ID < r.Subtopics[j].ID })
	sort.Slice(r.Topics, func(i, j int) bool { return r.Topics[i].ID < r.Topics[j].ID })
}
