package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func nodeListSchema() *Schema {
	return &Schema{
		Name:        "test-node-list",
		Description: "a list of named nodes",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"nodes": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":   map[string]any{"type": "string"},
							"name": map[string]any{"type": "string"},
						},
						"required": []any{"id", "name"},
					},
				},
			},
			"required": []any{"nodes"},
		},
	}
}

func TestValidateResponseAccepts(t *testing.T) {
	raw := json.RawMessage(`{"nodes":[{"id":"recursion","name":"Recursion"}]}`)
	if err := validateResponse(nodeListSchema(), raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponseRejectsMissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"nodes":[{"id":"recursion"}]}`)
	err := validateResponse(nodeListSchema(), raw)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestValidateResponseRejectsBadJSON(t *testing.T) {
	err := validateResponse(nodeListSchema(), json.RawMessage(`{"nodes": [`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidateResponseCachesCompiledSchema(t *testing.T) {
	s := nodeListSchema()
	raw := json.RawMessage(`{"nodes":[]}`)
	if err := validateResponse(s, raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load(s.Name); !ok {
		t.Fatal("compiled schema was not cached")
	}
	if err := validateResponse(s, raw); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
}
