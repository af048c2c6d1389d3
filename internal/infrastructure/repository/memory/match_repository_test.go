package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

func live(id string, home, away int) match.Record {
	return match.Record{
		ID:              id,
		Player1:         "Arthur",
		Player2:         "Nikkitta",
		FirstPeriodHome: 0,
		FirstPeriodAway: 0,
		FinalHome:       home,
		FinalAway:       away,
	}
}

func TestMatchRepository_IngestCreatesThenMerges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)

	result, err := repo.Ingest(ctx, []match.Record{live("m1", 0, 0), live("m1", 2, 1)})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Dropped != 1 || result.Inserted != 1 || result.Merged != 0 {
		t.Fatalf("unexpected ingest result: %+v", result)
	}

	result, err = repo.Ingest(ctx, []match.Record{live("m1", 3, 1)})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Merged != 1 {
		t.Fatalf("expected merge, got %+v", result)
	}

	snapshot, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot) != 1 || snapshot[0].FinalHome != 3 || snapshot[0].FinalAway != 1 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestMatchRepository_ZeroScoreAloneCreatesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)

	if _, err := repo.Ingest(ctx, []match.Record{live("m1", 0, 0)}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if n, _ := repo.Len(ctx); n != 0 {
		t.Fatalf("expected empty store, got=%d", n)
	}
}

func TestMatchRepository_ZeroScoreKeepsScheduledEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)
	scheduled := match.NewScheduled("m1", time.Now(), nil, "Arthur", "Nikkitta")

	if _, err := repo.Ingest(ctx, []match.Record{scheduled}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := repo.Ingest(ctx, []match.Record{live("m1", 0, 0)}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	snapshot, _ := repo.Snapshot(ctx)
	if len(snapshot) != 1 || snapshot[0].FinalHome != match.ScoreUnknown {
		t.Fatalf("scheduled entry must be retained unchanged, got %+v", snapshot)
	}
}

func TestMatchRepository_LiveZeroReplacesUnknownScore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)
	scheduled := match.NewScheduled("m1", time.Now(), nil, "Arthur", "Nikkitta")

	if _, err := repo.Ingest(ctx, []match.Record{scheduled}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	observed := live("m1", 1, 0)
	observed.FirstPeriodHome = 1
	if _, err := repo.Ingest(ctx, []match.Record{observed}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	snapshot, _ := repo.Snapshot(ctx)
	got := snapshot[0]
	if got.FirstPeriodHome != 1 || got.FirstPeriodAway != 0 || got.FinalHome != 1 || got.FinalAway != 0 {
		t.Fatalf("expected 1:0 with real zeros, got %d %d %d %d",
			got.FirstPeriodHome, got.FirstPeriodAway, got.FinalHome, got.FinalAway)
	}
}

func TestMatchRepository_ScoreOnlyUpdatesKnownMatchOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)
	scheduledAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	scoreOnly := func(id string, home, away int) match.Record {
		r := match.NewScheduled(id, scheduledAt.Add(10*time.Minute), nil, "", "")
		r.FinalHome, r.FinalAway = home, away
		return r
	}

	result, err := repo.Ingest(ctx, []match.Record{scoreOnly("m1", 2, 0)})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Unmatched != 1 || result.Inserted != 0 {
		t.Fatalf("score-only record must not create a match, got %+v", result)
	}
	if n, _ := repo.Len(ctx); n != 0 {
		t.Fatalf("expected empty store, got=%d", n)
	}

	_, _ = repo.Ingest(ctx, []match.Record{match.NewScheduled("m1", scheduledAt, &scheduledAt, "Arthur", "Nikkitta")})
	result, err = repo.Ingest(ctx, []match.Record{scoreOnly("m1", 2, 0)})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Merged != 1 || result.Unmatched != 0 {
		t.Fatalf("expected merge into known match, got %+v", result)
	}

	snapshot, _ := repo.Snapshot(ctx)
	got := snapshot[0]
	if got.Player1 != "Arthur" || got.ScheduledAt == nil || got.FinalHome != 2 || got.FinalAway != 0 {
		t.Fatalf("unexpected merged entry: %+v", got)
	}
}

func TestMatchRepository_IngestIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	odds := 1.8
	record := live("m1", 1, 0)
	record.Odds1 = &odds

	once := NewMatchRepository(0)
	twice := NewMatchRepository(0)
	_, _ = once.Ingest(ctx, []match.Record{record})
	_, _ = twice.Ingest(ctx, []match.Record{record})
	_, _ = twice.Ingest(ctx, []match.Record{record})

	a, _ := once.Snapshot(ctx)
	b, _ := twice.Snapshot(ctx)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("unexpected sizes: %d vs %d", len(a), len(b))
	}
	if a[0].FinalHome != b[0].FinalHome || *a[0].Odds1 != *b[0].Odds1 {
		t.Fatalf("repeat ingest changed state: %+v vs %+v", a[0], b[0])
	}
}

func TestMatchRepository_IdentityConflictKeepsExisting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)
	_, _ = repo.Ingest(ctx, []match.Record{live("m1", 1, 0)})

	conflicting := live("m1", 4, 4)
	conflicting.Player1 = "Kray"
	result, err := repo.Ingest(ctx, []match.Record{conflicting})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(result.Conflicts) != 1 || !errors.Is(result.Conflicts[0].Err, match.ErrIdentityMismatch) {
		t.Fatalf("expected identity conflict, got %+v", result)
	}

	snapshot, _ := repo.Snapshot(ctx)
	if snapshot[0].Player1 != "Arthur" || snapshot[0].FinalHome != 1 {
		t.Fatalf("existing entry must be preserved, got %+v", snapshot[0])
	}
}

func TestMatchRepository_MaxEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(1)

	result, _ := repo.Ingest(ctx, []match.Record{live("m1", 1, 0), live("m2", 1, 0), live("m1", 2, 0)})
	if result.Inserted != 1 || result.Merged != 1 || len(result.Conflicts) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !errors.Is(result.Conflicts[0].Err, ErrStoreFull) {
		t.Fatalf("expected ErrStoreFull, got %v", result.Conflicts[0].Err)
	}
}

func TestMatchRepository_SnapshotOrderAndIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later, earlier := base.Add(time.Hour), base

	_, _ = repo.Ingest(ctx, []match.Record{
		match.NewScheduled("late", base, &later, "a", "b"),
		match.NewScheduled("early", base, &earlier, "c", "d"),
		match.NewScheduled("unscheduled", base, nil, "e", "f"),
	})

	snapshot, _ := repo.Snapshot(ctx)
	want := []string{"unscheduled", "early", "late"}
	for i, id := range want {
		if snapshot[i].ID != id {
			t.Fatalf("unexpected order at %d: got=%s want=%s", i, snapshot[i].ID, id)
		}
	}

	snapshot[1].ScheduledAt = nil
	again, _ := repo.Snapshot(ctx)
	if again[1].ScheduledAt == nil {
		t.Fatalf("snapshot must not expose store internals")
	}
}

func TestMatchRepository_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(0)
	_, _ = repo.Ingest(ctx, []match.Record{live("m1", 1, 0)})

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n, _ := repo.Len(ctx); n != 0 {
		t.Fatalf("expected empty store after reset, got=%d", n)
	}
}
