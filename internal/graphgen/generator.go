// Package graphgen builds knowledge graphs from question banks by
// asking a model for one partial graph per batch of questions and
// merging the partials into a canonical whole.
package graphgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/skilltrace/internal/llm"
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// QuestionInput is one question to analyze.
type QuestionInput struct {
	ID   string
	Text string
}

// Generator produces knowledge graphs via an llm.Provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator. Zero config fields fall back to defaults.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg.withDefaults()}
}

// Topic and Subtopic are the grouping levels the model classifies
// skills into. Subtopics nest under topics; skills nest under
// subtopics.
type Topic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Subtopic struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TopicID string `json:"topic,omitempty"`
}

// Taxonomy is the classification side of a generation run: the
// declared groups plus the skill-to-subtopic assignment.
type Taxonomy struct {
	Topics         []Topic
	Subtopics      []Subtopic
	SkillSubtopics map[string]string
}

// graphPayload is the wire shape of one batch response.
type graphPayload struct {
	SchemaVersion  string                 `json:"schemaVersion"`
	Nodes          []skillgraph.SkillNode `json:"nodes"`
	Edges          []skillgraph.SkillEdge `json:"edges"`
	QuestionPaths  map[string][]string    `json:"questionPaths"`
	Topics         []Topic                `json:"topics"`
	Subtopics      []Subtopic             `json:"subtopics"`
	SkillSubtopics map[string]string      `json:"skillSubtopics"`
}

// Generate analyzes the questions in batches and returns the merged
// graph plus the taxonomy the batches classified its skills into. The
// course id becomes a courses entry listing every question.
func (g *Generator) Generate(ctx context.Context, courseID string, questions []QuestionInput) (*skillgraph.KnowledgeGraph, *Taxonomy, error) {
	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("no questions to analyze")
	}

	ctx = llm.WithPurpose(ctx, "graph-batch")

	tax := &Taxonomy{SkillSubtopics: make(map[string]string)}
	var partials []skillgraph.KnowledgeGraph
	for start := 0; start < len(questions); start += g.config.BatchSize {
		end := min(start+g.config.BatchSize, len(questions))
		partial, err := g.generateBatch(ctx, courseID, questions[start:end], tax)
		if err != nil {
			return nil, nil, fmt.Errorf("batch %d-%d: %w", start, end-1, err)
		}
		partials = append(partials, *partial)
	}

	merged := skillgraph.Merge(partials)

	questionIDs := make([]string, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}
	if merged.Courses == nil {
		merged.Courses = make(map[string][]string)
	}
	merged.Courses[courseID] = questionIDs

	// Semantic dedup can fold node ids away; drop assignments that no
	// longer point at a surviving skill.
	for skillID := range tax.SkillSubtopics {
		if merged.NodeByID(skillID) == nil {
			delete(tax.SkillSubtopics, skillID)
		}
	}

	return &merged, tax, nil
}

func (g *Generator) generateBatch(ctx context.Context, courseID string, batch []QuestionInput, tax *Taxonomy) (*skillgraph.KnowledgeGraph, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: batchMessage(courseID, batch)},
		},
		Schema:      GraphSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("graph generation failed: %w", err)
	}

	var payload graphPayload
	if err := json.Unmarshal(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("parse graph payload: %w", err)
	}

	if err := checkSchemaVersion(payload.SchemaVersion); err != nil {
		return nil, err
	}

	graph := &skillgraph.KnowledgeGraph{
		Nodes: payload.Nodes,
		Edges: payload.Edges,
	}
	if len(payload.QuestionPaths) > 0 {
		graph.QuestionPaths = make(map[string]skillgraph.QuestionPath, len(payload.QuestionPaths))
		for qid, path := range payload.QuestionPaths {
			graph.QuestionPaths[qid] = skillgraph.QuestionPath{Flat: path}
		}
	}

	tax.absorb(payload)

	return graph, nil
}

// absorb folds one batch's classification into the run-wide taxonomy.
// Group names are first-writer-wins, matching how node attributes
// merge.
func (t *Taxonomy) absorb(payload graphPayload) {
	known := make(map[string]bool, len(t.Topics))
	for _, topic := range t.Topics {
		known[topic.ID] = true
	}
	for _, topic := range payload.Topics {
		if topic.ID == "" || known[topic.ID] {
			continue
		}
		known[topic.ID] = true
		t.Topics = append(t.Topics, topic)
	}

	knownSub := make(map[string]bool, len(t.Subtopics))
	for _, st := range t.Subtopics {
		knownSub[st.ID] = true
	}
	for _, st := range payload.Subtopics {
		if st.ID == "" || knownSub[st.ID] {
			continue
		}
		knownSub[st.ID] = true
		t.Subtopics = append(t.Subtopics, st)
	}

	for skillID, subtopicID := range payload.SkillSubtopics {
		if _, ok := t.SkillSubtopics[skillID]; ok {
			continue
		}
		t.SkillSubtopics[skillID] = subtopicID
	}
}

// checkSchemaVersion accepts any payload version with the same major
// version as SchemaVersion.
func checkSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("payload missing schemaVersion")
	}

	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("payload schemaVersion %q is not a valid semantic version", version)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return fmt.Errorf("payload schemaVersion %q is incompatible with supported %s", version, SchemaVersion)
	}
	return nil
}
