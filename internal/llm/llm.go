package llm

import (
	"context"
	"errors"
)

// Client is the completion-service contract consumed by the pipeline:
// one prompt, optional grounding context, free-text completion back.
type Client interface {
	Name() string
	GenerateText(ctx context.Context, prompt, contextText string) (string, error)
	Close() error
}

// ErrEmptyCompletion is returned when the model replies with no usable text.
var ErrEmptyCompletion = errors.New("llm: empty completion from model")

// ErrRateLimited is returned when a caller's rate tier is exhausted.
// Callers treat it like any other completion failure.
var ErrRateLimited = errors.New("llm: rate limit exceeded")

type phaseKey struct{}

// WithPhase tags the context with a short label ("businessFlow", "dataFlow")
// used for log attribution across the middleware chain.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

func PhaseFrom(ctx context.Context) string {
	if v, ok := ctx.Value(phaseKey{}).(string); ok {
		return v
	}
	return ""
}

type callerKey struct{}

// WithCallerKey tags the context with the rate-limit key of the caller
// ("user:<id>" or "anon:<addr>").
func WithCallerKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, callerKey{}, key)
}

func CallerKeyFrom(ctx context.Context) string {
	if v, ok := ctx.Value(callerKey{}).(string); ok {
		return v
	}
	return ""
}
