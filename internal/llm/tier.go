package llm

import (
	"strings"
	"sync"
	"time"
)

// KeyedLimiter gates requests per caller key. Implementations may be backed
// by memory, a shared cache, or a distributed store.
type KeyedLimiter interface {
	Allow(key string) bool
}

// TierConfig holds per-minute allowances. Signed-in callers ("user:" keys)
// get the higher tier; everyone else gets the anonymous tier. Zero disables
// a tier (always allow).
type TierConfig struct {
	AnonymousPerMinute int
	SignedInPerMinute  int
}

// TierLimiter is an in-memory KeyedLimiter with lazily refilled buckets.
type TierLimiter struct {
	cfg TierConfig

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

func NewTierLimiter(cfg TierConfig) *TierLimiter {
	return &TierLimiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *TierLimiter) Allow(key string) bool {
	limit := l.cfg.AnonymousPerMinute
	if strings.HasPrefix(key, "user:") {
		limit = l.cfg.SignedInPerMinute
	}
	if limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(limit), last: now}
		l.buckets[key] = b
	}
	refill := now.Sub(b.last).Minutes() * float64(limit)
	b.tokens += refill
	if max := float64(limit); b.tokens > max {
		b.tokens = max
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
