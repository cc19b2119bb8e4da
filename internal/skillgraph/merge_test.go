package skillgraph

import (
	"encoding/json"
	"reflect"
	"sort"
	"testing"
)

func node(id, name string, tier Tier, questions ...string) SkillNode {
	return SkillNode{ID: id, Name: name, Tier: tier, AppearsInQuestions: questions}
}

func TestMerge_ExactIDUnion(t *testing.T) {
	g1 := KnowledgeGraph{Nodes: []SkillNode{node("a", "Loops", TierCore, "q1")}}
	g2 := KnowledgeGraph{Nodes: []SkillNode{node("a", "Renamed Loops", TierAdvanced, "q2")}}

	merged := Merge([]KnowledgeGraph{g1, g2})

	if len(merged.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(merged.Nodes))
	}
	n := merged.Nodes[0]
	if n.Name != "Loops" || n.Tier != TierCore {
		t.Errorf("first writer should win attributes, got name=%q tier=%q", n.Name, n.Tier)
	}
	want := []string{"q1", "q2"}
	if !reflect.DeepEqual(n.AppearsInQuestions, want) {
		t.Errorf("AppearsInQuestions = %v, want %v", n.AppearsInQuestions, want)
	}
}

func TestMerge_SemanticDedup(t *testing.T) {
	g := KnowledgeGraph{Nodes: []SkillNode{
		node("a", "list_operations", TierCore, "q1"),
		node("b", "List Operations", TierCore, "q2"),
		node("c", "recursion", TierCore, "q3"),
	}}

	merged := Merge([]KnowledgeGraph{g})

	if len(merged.Nodes) != 2 {
		t.Fatalf("expected 2 nodes after semantic dedup, got %d: %+v", len(merged.Nodes), merged.Nodes)
	}
	a := merged.NodeByID("a")
	if a == nil {
		t.Fatal("canonical node a missing")
	}
	want := []string{"q1", "q2"}
	if !reflect.DeepEqual(a.AppearsInQuestions, want) {
		t.Errorf("merged AppearsInQuestions = %v, want %v", a.AppearsInQuestions, want)
	}
	if merged.NodeByID("c") == nil {
		t.Error("recursion should not merge with list operations")
	}
}

func TestMerge_SemanticDedup_TierMismatchBlocks(t *testing.T) {
	g := KnowledgeGraph{Nodes: []SkillNode{
		node("a", "pointer arithmetic basics", TierCore),
		node("b", "pointer arithmetic applied", TierAdvanced),
	}}

	merged := Merge([]KnowledgeGraph{g})
	if len(merged.Nodes) != 2 {
		t.Errorf("different tiers must not merge by word overlap, got %d nodes", len(merged.Nodes))
	}
}

func TestMerge_EdgeDedup(t *testing.T) {
	e := SkillEdge{From: "x", To: "y", Reason: "y builds on x"}
	g1 := KnowledgeGraph{
		Nodes: []SkillNode{node("x", "maps", TierCore), node("y", "iterators over maps", TierCore)},
		Edges: []SkillEdge{e},
	}
	g2 := KnowledgeGraph{
		Nodes: []SkillNode{node("x", "maps", TierCore), node("y", "iterators over maps", TierCore)},
		Edges: []SkillEdge{e},
	}

	merged := Merge([]KnowledgeGraph{g1, g2})
	if len(merged.Edges) != 1 {
		t.Errorf("expected 1 edge after dedup, got %d", len(merged.Edges))
	}
}

func TestMerge_RemapDropsSelfLoops(t *testing.T) {
	// a and b fold into one node; the edge between them becomes a
	// self-loop and must be dropped silently.
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			node("a", "string_formatting", TierCore),
			node("b", "String Formatting", TierCore),
		},
		Edges: []SkillEdge{{From: "a", To: "b"}},
	}

	merged := Merge([]KnowledgeGraph{g})
	if len(merged.Edges) != 0 {
		t.Errorf("expected self-loop dropped, got edges %+v", merged.Edges)
	}
}

func TestMerge_RemapQuestionPaths(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			node("a", "error_handling", TierCore),
			node("b", "Error Handling", TierCore),
			node("c", "channels", TierCore),
		},
		QuestionPaths: map[string]QuestionPath{
			"Write a retrying reader": {Flat: []string{"b", "c"}},
			"Propagate wrapped errors": {Structured: &StructuredPath{
				RequiredNodes:    []string{"b"},
				ExecutionOrder:   []string{"b"},
				ValidationStatus: "validated",
			}},
		},
	}

	merged := Merge([]KnowledgeGraph{g})

	flat := merged.QuestionPaths["Write a retrying reader"]
	if !reflect.DeepEqual(flat.Flat, []string{"a", "c"}) {
		t.Errorf("flat path remap = %v, want [a c]", flat.Flat)
	}
	structured := merged.QuestionPaths["Propagate wrapped errors"]
	if structured.Structured == nil {
		t.Fatal("structured representation lost in remap")
	}
	if !reflect.DeepEqual(structured.Structured.RequiredNodes, []string{"a"}) {
		t.Errorf("structured remap = %v, want [a]", structured.Structured.RequiredNodes)
	}
	if structured.Structured.ValidationStatus != "validated" {
		t.Errorf("validation status lost: %q", structured.Structured.ValidationStatus)
	}
}

func TestMerge_QuestionPathsLastWriterWins(t *testing.T) {
	g1 := KnowledgeGraph{
		Nodes:         []SkillNode{node("a", "slices", TierCore)},
		QuestionPaths: map[string]QuestionPath{"Reverse a slice": {Flat: []string{"a"}}},
	}
	g2 := KnowledgeGraph{
		Nodes:         []SkillNode{node("b", "generics", TierAdvanced)},
		QuestionPaths: map[string]QuestionPath{"Reverse a slice": {Flat: []string{"b"}}},
	}

	merged := Merge([]KnowledgeGraph{g1, g2})
	got := merged.QuestionPaths["Reverse a slice"]
	if !reflect.DeepEqual(got.Flat, []string{"b"}) {
		t.Errorf("path = %v, want the later batch's [b]", got.Flat)
	}
}

func TestMerge_CoursesUnionPreservesOrder(t *testing.T) {
	g1 := KnowledgeGraph{
		Nodes:   []SkillNode{node("a", "slices", TierCore), node("b", "maps", TierCore)},
		Courses: map[string][]string{"go-101": {"a", "b"}},
	}
	g2 := KnowledgeGraph{
		Nodes:   []SkillNode{node("c", "structs", TierCore)},
		Courses: map[string][]string{"go-101": {"b", "c"}},
	}

	merged := Merge([]KnowledgeGraph{g1, g2})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(merged.Courses["go-101"], want) {
		t.Errorf("course nodes = %v, want %v", merged.Courses["go-101"], want)
	}
}

func TestMerge_Idempotence(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			node("a", "list_operations", TierCore, "q1"),
			node("b", "List Operations", TierCore, "q2"),
			node("c", "recursion", TierCore, "q3"),
		},
		Edges: []SkillEdge{{From: "a", To: "c", Reason: "lists before recursion on lists"}},
		QuestionPaths: map[string]QuestionPath{
			"Flatten nested lists": {Flat: []string{"b", "c"}},
		},
	}

	once := Merge([]KnowledgeGraph{g})
	twice := Merge([]KnowledgeGraph{once})

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMerge_NodeSetOrderIndependent(t *testing.T) {
	g1 := KnowledgeGraph{Nodes: []SkillNode{node("a", "slices", TierCore), node("b", "maps", TierCore)}}
	g2 := KnowledgeGraph{Nodes: []SkillNode{node("c", "channels", TierApplied)}}

	ids := func(g KnowledgeGraph) []string {
		out := g.SkillIDs()
		sort.Strings(out)
		return out
	}

	forward := Merge([]KnowledgeGraph{g1, g2})
	backward := Merge([]KnowledgeGraph{g2, g1})
	if !reflect.DeepEqual(ids(forward), ids(backward)) {
		t.Errorf("canonical node set differs by input order: %v vs %v", ids(forward), ids(backward))
	}
}

func TestMerge_IPATraceLastWriterWins(t *testing.T) {
	g1 := KnowledgeGraph{
		Nodes:         []SkillNode{node("a", "slices", TierCore)},
		IPAByQuestion: map[string]json.RawMessage{"q": json.RawMessage(`{"v":1}`)},
	}
	g2 := KnowledgeGraph{
		Nodes:         []SkillNode{node("a", "slices", TierCore)},
		IPAByQuestion: map[string]json.RawMessage{"q": json.RawMessage(`{"v":2}`)},
	}

	merged := Merge([]KnowledgeGraph{g1, g2})
	if string(merged.IPAByQuestion["q"]) != `{"v":2}` {
		t.Errorf("trace = %s, want later batch's value", merged.IPAByQuestion["q"])
	}
}

func TestMerge_RecomputesLevels(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			{ID: "a", Name: "variables", Tier: TierFoundational, Level: 9},
			{ID: "b", Name: "loops", Tier: TierCore, Level: 9},
		},
		Edges: []SkillEdge{{From: "a", To: "b"}},
	}

	merged := Merge([]KnowledgeGraph{g})
	if merged.NodeByID("a").Level != 0 || merged.NodeByID("b").Level != 1 {
		t.Errorf("levels not recomputed from prerequisite depth: %+v", merged.Nodes)
	}
}
