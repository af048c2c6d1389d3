package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(t *testing.T, now *time.Time) *CircuitBreaker {
	t.Helper()

	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})
	b.now = func() time.Time { return *now }
	return b
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(t, &now)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteClassifiesErrors(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(t, &now)

	transient := errors.New("connection reset")
	permanent := errors.New("not found")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return permanent }, isTransient); !errors.Is(err, permanent) {
			t.Fatalf("expected permanent error passthrough, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("permanent errors must not open the breaker, got %s", state)
	}

	_ = b.Execute(func() error { return transient }, isTransient)
	_ = b.Execute(func() error { return transient }, isTransient)

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	}, isTransient)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run while breaker is open")
	}

	stats := b.Stats()
	if stats.State != CircuitStateOpen || stats.Rejected != 1 || stats.OpenedAt == nil {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCircuitBreaker_DisabledIsNil(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("nil breaker should pass through, got %v", err)
	}
	if got := b.Stats().State; got != CircuitStateClosed {
		t.Fatalf("nil breaker should report closed, got %s", got)
	}
}
