package skillgraph

import "testing"

func TestComputeLevels_Chain(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			{ID: "a", Name: "variables", Tier: TierFoundational},
			{ID: "b", Name: "loops", Tier: TierCore},
			{ID: "c", Name: "nested loops", Tier: TierCore},
		},
		Edges: []SkillEdge{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
		},
	}

	ComputeLevels(&g)

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for id, lvl := range want {
		if got := g.NodeByID(id).Level; got != lvl {
			t.Errorf("level(%s) = %d, want %d", id, got, lvl)
		}
	}
}

func TestComputeLevels_Diamond(t *testing.T) {
	// c depends on both a (depth 0) and b (depth 1); its level must
	// follow the deeper prerequisite.
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			{ID: "root", Tier: TierFoundational},
			{ID: "a", Tier: TierCore},
			{ID: "b", Tier: TierCore},
			{ID: "c", Tier: TierApplied},
		},
		Edges: []SkillEdge{
			{From: "root", To: "b"},
			{From: "a", To: "c"},
			{From: "b", To: "c"},
		},
	}

	ComputeLevels(&g)

	if got := g.NodeByID("c").Level; got != 2 {
		t.Errorf("level(c) = %d, want 2 (max prerequisite depth + 1)", got)
	}
}

func TestComputeLevels_IgnoresDanglingEdges(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{{ID: "a", Tier: TierCore}},
		Edges: []SkillEdge{{From: "ghost", To: "a"}},
	}

	ComputeLevels(&g)

	if got := g.NodeByID("a").Level; got != 0 {
		t.Errorf("level(a) = %d, want 0 when the only prerequisite is unknown", got)
	}
}
