package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/repository/memory"
)

func TestWindowController_ShouldResetAfterDuration(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := memory.NewMatchRepository(0)
	window := NewWindowController(store, time.Minute, func() time.Time { return now })

	if window.ShouldReset(now) {
		t.Fatalf("fresh window must not reset")
	}
	if window.ShouldReset(now.Add(time.Minute)) {
		t.Fatalf("window must not reset at exactly its duration")
	}
	if !window.ShouldReset(now.Add(time.Minute + time.Second)) {
		t.Fatalf("window must reset once duration is exceeded")
	}
}

func TestWindowController_ResetClearsStoreAndRestarts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := memory.NewMatchRepository(0)
	window := NewWindowController(store, time.Minute, func() time.Time { return now })

	if _, err := store.Ingest(ctx, []match.Record{rawRecord("m1", 1, 0)}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if got := window.Label(); got != "20260301T100000Z" {
		t.Fatalf("unexpected label: %s", got)
	}

	now = now.Add(90 * time.Second)
	if err := window.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if n, _ := store.Len(ctx); n != 0 {
		t.Fatalf("expected empty store, got=%d", n)
	}
	if window.ShouldReset(now) {
		t.Fatalf("window must not reset right after reset")
	}
	info := window.Info()
	if info.Label != "20260301T100130Z" || !info.Expires.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected window info: %+v", info)
	}
}
