package progress

import (
	"context"
	"fmt"

	"github.com/abhisek/skilltrace/internal/skillgraph"
	"github.com/abhisek/skilltrace/internal/store"
)

// TopicDef and SubtopicDef declare the grouping levels of a taxonomy.
type TopicDef struct {
	ID   string
	Name string
}

type SubtopicDef struct {
	ID      string
	Name    string
	TopicID string
}

// TaxonomyInput groups a graph's skills: the declared subtopics and
// topics plus the skill-to-subtopic assignment. A zero value is valid
// and leaves every skill ungrouped.
type TaxonomyInput struct {
	Topics         []TopicDef
	Subtopics      []SubtopicDef
	SkillSubtopics map[string]string
}

// ImportTaxonomy derives the stored skill rows from the graph's nodes
// and replaces the graph's taxonomy in one shot. Skill name, tier, and
// level come from the node; the subtopic assignment comes from the
// input. Assignments naming an undeclared subtopic are dropped so the
// report never references a group that does not exist.
func (s *Service) ImportTaxonomy(ctx context.Context, graphID string, g *skillgraph.KnowledgeGraph, in TaxonomyInput) error {
	if g == nil || len(g.Nodes) == 0 {
		return fmt.Errorf("graph %q has no skills to import", graphID)
	}

	topicIDs := make(map[string]bool, len(in.Topics))
	topics := make([]store.TopicRow, 0, len(in.Topics))
	for _, t := range in.Topics {
		if t.ID == "" || topicIDs[t.ID] {
			continue
		}
		topicIDs[t.ID] = true
		topics = append(topics, store.TopicRow{ID: t.ID, GraphID: graphID, Name: t.Name})
	}

	subtopicIDs := make(map[string]bool, len(in.Subtopics))
	subtopics := make([]store.SubtopicRow, 0, len(in.Subtopics))
	for _, st := range in.Subtopics {
		if st.ID == "" || subtopicIDs[st.ID] {
			continue
		}
		subtopicIDs[st.ID] = true
		row := store.SubtopicRow{ID: st.ID, GraphID: graphID, Name: st.Name}
		if topicIDs[st.TopicID] {
			row.TopicID = st.TopicID
		}
		subtopics = append(subtopics, row)
	}

	skills := make([]store.SkillRow, len(g.Nodes))
	for i, node := range g.Nodes {
		row := store.SkillRow{
			ID:      node.ID,
			GraphID: graphID,
			Name:    node.Name,
			Tier:    node.Tier,
			Level:   node.Level,
		}
		if st := in.SkillSubtopics[node.ID]; subtopicIDs[st] {
			row.SubtopicID = st
		}
		skills[i] = row
	}

	if err := s.taxonomy.ReplaceTaxonomy(ctx, graphID, skills, subtopics, topics); err != nil {
		return fmt.Errorf("replace taxonomy: %w", err)
	}
	return nil
}

// LoadTaxonomyInput reads a graph's stored taxonomy back into input
// form, so a re-merge can preserve the grouping of skills that
// survive.
func (s *Service) LoadTaxonomyInput(ctx context.Context, graphID string) (TaxonomyInput, error) {
	var in TaxonomyInput

	topics, err := s.taxonomy.LoadTopics(ctx, graphID)
	if err != nil {
		return in, fmt.Errorf("load topics: %w", err)
	}
	for _, t := range topics {
		in.Topics = append(in.Topics, TopicDef{ID: t.ID, Name: t.Name})
	}

	subtopics, err := s.taxonomy.LoadSubtopics(ctx, graphID)
	if err != nil {
		return in, fmt.Errorf("load subtopics: %w", err)
	}
	for _, st := range subtopics {
		in.Subtopics = append(in.Subtopics, SubtopicDef{ID: st.ID, Name: st.Name, TopicID: st.TopicID})
	}

	skills, err := s.taxonomy.LoadSkills(ctx, graphID)
	if err != nil {
		return in, fmt.Errorf("load skills: %w", err)
	}
	in.SkillSubtopics = make(map[string]string, len(skills))
	for _, sk := range skills {
		if sk.SubtopicID != "" {
			in.SkillSubtopics[sk.ID] = sk.SubtopicID
		}
	}

	return in, nil
}
