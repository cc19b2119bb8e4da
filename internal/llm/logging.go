package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/skilltrace/internal/store"
)

// loggingProvider records every request as an audit event, success or
// failure. A logging failure never fails the request itself.
type loggingProvider struct {
	inner     Provider
	providerN string
	events    store.EventRepo
}

// WithLogging wraps a Provider with event logging. providerName is the
// configured provider ("anthropic", "openai", ...), distinct from the
// model the provider reports back.
func WithLogging(p Provider, providerName string, events store.EventRepo) Provider {
	return &loggingProvider{inner: p, providerN: providerName, events: events}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.providerN,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if logErr := l.events.AppendLLMRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record llm request event: %v\n", logErr)
	}

	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
