package store

import (
	"context"
	"time"

	"github.com/abhisek/skilltrace/internal/mastery"
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

// MasteryRow is one persisted kp_mastery record.
type MasteryRow struct {
	GraphID   string `json:"graphId"`
	StudentID string `json:"studentId"`
	SkillID   string `json:"skillId"`
	mastery.KPMastery
}

// QuestionRow is one persisted question with its skill weight map.
type QuestionRow struct {
	ID                  string   `json:"id"`
	GraphID             string   `json:"graphId"`
	Text                string   `json:"text"`
	Skills              []string `json:"skills"`
	WeightageMultiplier float64  `json:"weightageMultiplier"`
}

// Weights converts the row to the engine's question shape.
func (q QuestionRow) Weights() mastery.QuestionWithWeights {
	return mastery.QuestionWithWeights{
		ID:                  q.ID,
		Skills:              q.Skills,
		WeightageMultiplier: q.WeightageMultiplier,
	}
}

// SkillRow, SubtopicRow, and TopicRow are the taxonomy rows the
// rollup report is scoped over.
type SkillRow struct {
	ID         string          `json:"id"`
	GraphID    string          `json:"graphId"`
	Name       string          `json:"name"`
	Tier       skillgraph.Tier `json:"tier"`
	Level      int             `json:"level"`
	SubtopicID string          `json:"subtopicId,omitempty"`
}

type SubtopicRow struct {
	ID      string `json:"id"`
	GraphID string `json:"graphId"`
	Name    string `json:"name"`
	TopicID string `json:"topicId,omitempty"`
}

type TopicRow struct {
	ID      string `json:"id"`
	GraphID string `json:"graphId"`
	Name    string `json:"name"`
}

// GraphRepo persists canonical merged graphs.
type GraphRepo interface {
	SaveGraph(ctx context.Context, id, name string, g *skillgraph.KnowledgeGraph) error
	LoadGraph(ctx context.Context, id string) (*skillgraph.KnowledgeGraph, error)
}

// QuestionRepo persists question-to-skill weight maps.
type QuestionRepo interface {
	ReplaceQuestions(ctx context.Context, graphID string, rows []QuestionRow) error
	LoadQuestions(ctx context.Context, graphID string) ([]QuestionRow, error)
}

// AttemptRepo appends to and reads the immutable attempt log.
type AttemptRepo interface {
	AppendAttempt(ctx context.Context, a mastery.StudentAttempt) (id string, err error)
	LoadAttempts(ctx context.Context, graphID, studentID string) ([]mastery.StudentAttempt, error)
}

// MasteryRepo upserts mastery rows keyed by (graph, student, skill).
// Re-running a full recomputation overwrites the previous rows, so
// recomputation is idempotent.
type MasteryRepo interface {
	UpsertMastery(ctx context.Context, row MasteryRow) error
	LoadMastery(ctx context.Context, graphID, studentID string) ([]MasteryRow, error)
}

// TaxonomyRepo persists the skill/subtopic/topic hierarchy.
type TaxonomyRepo interface {
	ReplaceTaxonomy(ctx context.Context, graphID string, skills []SkillRow, subtopics []SubtopicRow, topics []TopicRow) error
	LoadSkills(ctx context.Context, graphID string) ([]SkillRow, error)
	LoadSubtopics(ctx context.Context, graphID string) ([]SubtopicRow, error)
	LoadTopics(ctx context.Context, graphID string) ([]TopicRow, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to audit events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
