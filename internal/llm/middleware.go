package llm

import (
	"context"
	"log"
	"time"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, logging, timeouts).
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate limiting --------

// RateLimit throttles outbound calls to at most rps requests per second.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) GenerateText(ctx context.Context, prompt, contextText string) (string, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return c.next.GenerateText(ctx, prompt, contextText)
}

// KeyGate rejects completions when the caller's tier is exhausted. The key
// travels in the context (WithCallerKey); callers with no key are not gated.
// A rejection is ErrRateLimited, an ordinary failure downstream code
// degrades from.
func KeyGate(l KeyedLimiter) Middleware {
	return func(next Client) Client {
		return &gated{next: next, limiter: l}
	}
}

type gated struct {
	next    Client
	limiter KeyedLimiter
}

func (g *gated) Name() string { return g.next.Name() }
func (g *gated) Close() error { return g.next.Close() }
func (g *gated) GenerateText(ctx context.Context, prompt, contextText string) (string, error) {
	if g.limiter != nil {
		if key := CallerKeyFrom(ctx); key != "" && !g.limiter.Allow(key) {
			return "", ErrRateLimited
		}
	}
	return g.next.GenerateText(ctx, prompt, contextText)
}

// -------- Timeout --------

// WithTimeout bounds each completion call. A deadline hit surfaces as the
// context error, indistinguishable from any other failure to callers.
func WithTimeout(d time.Duration) Middleware {
	return func(next Client) Client {
		return &timed{next: next, d: d}
	}
}

type timed struct {
	next Client
	d    time.Duration
}

func (t *timed) Name() string { return t.next.Name() }
func (t *timed) Close() error { return t.next.Close() }
func (t *timed) GenerateText(ctx context.Context, prompt, contextText string) (string, error) {
	if t.d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.d)
		defer cancel()
	}
	return t.next.GenerateText(ctx, prompt, contextText)
}

// -------- Logging --------

// WithLogging logs request size and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) GenerateText(ctx context.Context, prompt, contextText string) (string, error) {
	l.log.Printf("LLM request (%s): %d bytes", PhaseFrom(ctx), len(prompt)+len(contextText))
	out, err := l.next.GenerateText(ctx, prompt, contextText)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", PhaseFrom(ctx), err)
	}
	return out, err
}
