package store

import (
	"context"
	"fmt"
	"time"
)

// AppendLLMRequest records one generation API call in the audit log.
func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	success := 0
	if data.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_events
			(provider, model, purpose, input_tokens, output_tokens,
			 latency_ms, success, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		success, data.ErrorMessage, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("append llm event: %w", err)
	}
	return nil
}
