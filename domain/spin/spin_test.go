package spin

import (
	"testing"

	"github.com/nicheshunter/nicheshunter/domain/billing"
)

func TestNewLimiter_Defaults(t *testing.T) {
	l := NewLimiter(0)
	if l.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, l.Limit)
	}
	if l.ResetPolicy != "never" {
		t.Errorf("expected reset policy 'never', got %q", l.ResetPolicy)
	}

	l = NewLimiter(-5)
	if l.Limit != DefaultLimit {
		t.Errorf("negative limit should fall back to default, got %d", l.Limit)
	}

	l = NewLimiter(10)
	if l.Limit != 10 {
		t.Errorf("expected limit 10, got %d", l.Limit)
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := NewLimiter(3)

	tests := []struct {
		count int
		want  int
	}{
		{0, 3},
		{1, 2},
		{2, 1},
		{3, 0},
		{4, 0}, // never negative
		{100, 0},
		{-1, 3}, // garbage count clamps to zero
	}

	for _, tt := range tests {
		if got := l.Remaining(tt.count); got != tt.want {
			t.Errorf("Remaining(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestLimiter_ReachedLimit(t *testing.T) {
	l := NewLimiter(3)

	// Spin count starts at 0; after 3 spins a non-subscriber is refused.
	for count := 0; count < 3; count++ {
		if l.ReachedLimit(billing.StatusNone, count) {
			t.Errorf("count=%d: expected limit not reached", count)
		}
	}
	if !l.ReachedLimit(billing.StatusNone, 3) {
		t.Errorf("count=3: expected limit reached for non-subscriber")
	}
	if !l.ReachedLimit(billing.StatusCanceled, 7) {
		t.Errorf("canceled subscriber over the limit should be refused")
	}

	// Active subscribers are never limited.
	if l.ReachedLimit(billing.StatusActive, 1000) {
		t.Errorf("active subscriber must never reach the limit")
	}
}
