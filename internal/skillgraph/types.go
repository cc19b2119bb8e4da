package skillgraph

import (
	"encoding/json"
	"fmt"
)

// Tier is the coarse difficulty/role classification of a skill node.
type Tier string

const (
	TierFoundational Tier = "foundational"
	TierCore         Tier = "core"
	TierApplied      Tier = "applied"
	TierAdvanced     Tier = "advanced"
)

// AllTiers returns all tiers in ascending order of difficulty.
func AllTiers() []Tier {
	return []Tier{TierFoundational, TierCore, TierApplied, TierAdvanced}
}

// IsValidTier reports whether t is one of the closed tier set.
func IsValidTier(t Tier) bool {
	switch t {
	case TierFoundational, TierCore, TierApplied, TierAdvanced:
		return true
	}
	return false
}

// SkillNode is a single knowledge point in the graph.
type SkillNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tier Tier   `json:"tier"`

	// Level is the prerequisite depth, computed by ComputeLevels.
	// It is never author-supplied.
	Level int `json:"level"`

	// AppearsInQuestions lists the questions that reference this node.
	// Grows on merge; never shrinks except on explicit node removal.
	AppearsInQuestions []string `json:"appearsInQuestions"`
}

// SkillEdge is a directed prerequisite relation: From must be learned
// before To.
type SkillEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// StructuredPath is the richer question-path representation.
type StructuredPath struct {
	RequiredNodes    []string `json:"requiredNodes"`
	ExecutionOrder   []string `json:"executionOrder"`
	ValidationStatus string   `json:"validationStatus,omitempty"`
}

// QuestionPath maps a question to the skill nodes it exercises.
// Two wire representations exist: a flat ordered list of node ids
// (legacy) and a StructuredPath. Every consumer must accept both.
type QuestionPath struct {
	Flat       []string
	Structured *StructuredPath
}

// NodeIDs returns the node ids referenced by the path, regardless of
// representation. Structured paths return RequiredNodes.
func (p QuestionPath) NodeIDs() []string {
	if p.Structured != nil {
		return p.Structured.RequiredNodes
	}
	return p.Flat
}

// MarshalJSON emits whichever representation the path holds. A path
// holding neither marshals as an empty array.
func (p QuestionPath) MarshalJSON() ([]byte, error) {
	if p.Structured != nil {
		return json.Marshal(p.Structured)
	}
	if p.Flat == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Flat)
}

// UnmarshalJSON accepts both the flat-array and structured forms.
func (p *QuestionPath) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		p.Flat = flat
		p.Structured = nil
		return nil
	}
	var structured StructuredPath
	if err := json.Unmarshal(data, &structured); err != nil {
		return fmt.Errorf("question path is neither a node list nor structured: %w", err)
	}
	p.Flat = nil
	p.Structured = &structured
	return nil
}

// KnowledgeGraph is the aggregate root produced by graph generation
// and by Merge. Field names round-trip through JSON unchanged since
// payloads cross the datastore and AI-generation boundaries.
type KnowledgeGraph struct {
	Nodes         []SkillNode             `json:"nodes"`
	Edges         []SkillEdge             `json:"edges"`
	Courses       map[string][]string     `json:"courses,omitempty"`
	QuestionPaths map[string]QuestionPath `json:"questionPaths,omitempty"`

	// IPAByQuestion carries optional per-question analysis traces
	// emitted by the generation step. Opaque to the merge logic
	// beyond last-writer-wins overwrite.
	IPAByQuestion map[string]json.RawMessage `json:"ipaByQuestion,omitempty"`
}

// NodeByID returns the node with the given id, or nil.
func (g *KnowledgeGraph) NodeByID(id string) *SkillNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// SkillIDs returns the ids of all nodes in graph order.
func (g *KnowledgeGraph) SkillIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}
