package skillgraph

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestQuestionPath_JSON_FlatForm(t *testing.T) {
	var p QuestionPath
	if err := json.Unmarshal([]byte(`["a","b"]`), &p); err != nil {
		t.Fatalf("unmarshal flat: %v", err)
	}
	if !reflect.DeepEqual(p.Flat, []string{"a", "b"}) || p.Structured != nil {
		t.Errorf("flat form parsed as %+v", p)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `["a","b"]` {
		t.Errorf("flat form round-trip = %s", out)
	}
}

func TestQuestionPath_JSON_StructuredForm(t *testing.T) {
	raw := `{"requiredNodes":["a"],"executionOrder":["a"],"validationStatus":"validated"}`
	var p QuestionPath
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal structured: %v", err)
	}
	if p.Structured == nil || p.Flat != nil {
		t.Fatalf("structured form parsed as %+v", p)
	}
	if p.Structured.ValidationStatus != "validated" {
		t.Errorf("validationStatus = %q", p.Structured.ValidationStatus)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back QuestionPath
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if !reflect.DeepEqual(p, back) {
		t.Errorf("structured round-trip mismatch: %+v vs %+v", p, back)
	}
}

func TestQuestionPath_NodeIDs(t *testing.T) {
	flat := QuestionPath{Flat: []string{"a", "b"}}
	if !reflect.DeepEqual(flat.NodeIDs(), []string{"a", "b"}) {
		t.Errorf("flat NodeIDs = %v", flat.NodeIDs())
	}

	structured := QuestionPath{Structured: &StructuredPath{RequiredNodes: []string{"c"}}}
	if !reflect.DeepEqual(structured.NodeIDs(), []string{"c"}) {
		t.Errorf("structured NodeIDs = %v", structured.NodeIDs())
	}
}

func TestKnowledgeGraph_JSONRoundTrip(t *testing.T) {
	g := KnowledgeGraph{
		Nodes: []SkillNode{
			{ID: "a", Name: "slices", Tier: TierCore, Level: 0, AppearsInQuestions: []string{"q1"}},
		},
		Edges:   []SkillEdge{{From: "a", To: "b", Reason: "ordering"}},
		Courses: map[string][]string{"go-101": {"a"}},
		QuestionPaths: map[string]QuestionPath{
			"q1": {Flat: []string{"a"}},
		},
	}

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back KnowledgeGraph
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(g, back) {
		t.Errorf("round-trip mismatch:\n%+v\n%+v", g, back)
	}
}
