package graphgen

import "github.com/abhisek/skilltrace/internal/llm"

// SchemaVersion is the payload version this build understands. Payloads
// with the same major version are accepted.
const SchemaVersion = "v1.0.0"

// GraphSchema defines the structured-output schema for one batch of
// questions. The model returns a partial knowledge graph covering only
// the skills those questions exercise.
var GraphSchema = &llm.Schema{
	Name:        "knowledge-graph",
	Description: "A partial skill knowledge graph extracted from a batch of questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"schemaVersion": map[string]any{
				"type":        "string",
				"description": "Payload schema version, e.g. 1.0.0",
			},
			"nodes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Stable snake_case identifier, e.g. binary_search",
						},
						"name": map[string]any{
							"type":        "string",
							"description": "Human-readable skill name",
						},
						"tier": map[string]any{
							"type":        "string",
							"enum":        []any{"foundational", "core", "applied", "advanced"},
							"description": "Difficulty tier of the skill",
						},
						"appearsInQuestions": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "IDs of the batch questions that exercise this skill",
						},
					},
					"required": []any{"id", "name", "tier", "appearsInQuestions"},
				},
			},
			"edges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"from": map[string]any{
							"type":        "string",
							"description": "Prerequisite skill id",
						},
						"to": map[string]any{
							"type":        "string",
							"description": "Dependent skill id",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "One sentence on why from precedes to",
						},
					},
					"required": []any{"from", "to"},
				},
			},
			"questionPaths": map[string]any{
				"type":        "object",
				"description": "Map from question id to the ordered list of skill ids a solver walks through",
				"additionalProperties": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"topics": map[string]any{
				"type":        "array",
				"description": "Top-level subject areas the subtopics group under",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Stable snake_case topic identifier",
						},
						"name": map[string]any{
							"type":        "string",
							"description": "Human-readable topic name",
						},
					},
					"required": []any{"id", "name"},
				},
			},
			"subtopics": map[string]any{
				"type":        "array",
				"description": "Skill groupings, each belonging to one topic",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Stable snake_case subtopic identifier",
						},
						"name": map[string]any{
							"type":        "string",
							"description": "Human-readable subtopic name",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "Id of the topic this subtopic belongs to",
						},
					},
					"required": []any{"id", "name", "topic"},
				},
			},
			"skillSubtopics": map[string]any{
				"type":                 "object",
				"description":          "Map from skill id to the subtopic id it belongs to",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
		"required": []any{"schemaVersion", "nodes", "edges", "questionPaths", "topics", "subtopics", "skillSubtopics"},
	},
}
