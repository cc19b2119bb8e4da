package skillgraph

import (
	"strings"
	"testing"
)

func TestValidate_CleanGraph(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			{ID: "a", Name: "variables", Tier: TierFoundational},
			{ID: "b", Name: "loops", Tier: TierCore},
		},
		Edges: []SkillEdge{{From: "a", To: "b"}},
		QuestionPaths: map[string]QuestionPath{
			"Sum the numbers 1..n": {Flat: []string{"a", "b"}},
		},
	}
	if err := Validate(&g); err != nil {
		t.Errorf("expected valid graph, got: %v", err)
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			{ID: "a", Name: "variables", Tier: TierFoundational},
			{ID: "a", Name: "dup", Tier: "bogus"},
		},
		Edges: []SkillEdge{
			{From: "a", To: "a"},
			{From: "a", To: "missing"},
		},
		QuestionPaths: map[string]QuestionPath{
			"Orphaned question": {Flat: []string{"ghost"}},
		},
	}

	err := Validate(&g)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"duplicate node id", "unknown tier", "self-loop", "nonexistent node", "references nonexistent node"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestValidate_DetectsCycle(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			{ID: "a", Tier: TierCore},
			{ID: "b", Tier: TierCore},
		},
		Edges: []SkillEdge{
			{From: "a", To: "b"},
			{From: "b", To: "a"},
		},
	}

	err := Validate(&g)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("expected cycle error, got: %v", err)
	}
}
