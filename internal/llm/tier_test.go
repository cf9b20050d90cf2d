package llm

import (
	"testing"
	"time"
)

func TestTierLimiterTiers(t *testing.T) {
	l := NewTierLimiter(TierConfig{AnonymousPerMinute: 2, SignedInPerMinute: 4})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if !l.Allow("anon:1.2.3.4") {
			t.Fatalf("anon request %d denied", i)
		}
	}
	if l.Allow("anon:1.2.3.4") {
		t.Fatal("anon tier should be exhausted")
	}
	// Other anonymous callers are independent.
	if !l.Allow("anon:5.6.7.8") {
		t.Fatal("separate anon key should be allowed")
	}

	for i := 0; i < 4; i++ {
		if !l.Allow("user:alice") {
			t.Fatalf("signed-in request %d denied", i)
		}
	}
	if l.Allow("user:alice") {
		t.Fatal("signed-in tier should be exhausted")
	}
}

func TestTierLimiterRefill(t *testing.T) {
	l := NewTierLimiter(TierConfig{AnonymousPerMinute: 2})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("anon:x")
	l.Allow("anon:x")
	if l.Allow("anon:x") {
		t.Fatal("bucket should be empty")
	}

	now = now.Add(time.Minute)
	if !l.Allow("anon:x") {
		t.Fatal("bucket should refill after a minute")
	}
}

func TestTierLimiterDisabled(t *testing.T) {
	l := NewTierLimiter(TierConfig{})
	for i := 0; i < 100; i++ {
		if !l.Allow("anon:x") {
			t.Fatal("disabled limiter must always allow")
		}
	}
}
