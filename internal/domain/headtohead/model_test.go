package headtohead

import (
	"testing"
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

func finished(p1, p2 string, home, away int) match.Record {
	return match.Record{ID: p1 + p2, Player1: p1, Player2: p2, FinalHome: home, FinalAway: away}
}

func TestTabulate(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		finished("Nikkitta", "Arthur", 3, 1),
		finished("Arthur", "Nikkitta", 2, 0),
		finished("Arthur", "Nikkitta", 1, 1),
		finished("Kray", "Boulevard", 0, 4),
		match.NewScheduled("pending", time.Time{}, nil, "Arthur", "Nikkitta"),
	}

	got := Tabulate(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got=%d", len(got))
	}

	first := got[0]
	if first.Team1 != "Arthur" || first.Team2 != "Nikkitta" {
		t.Fatalf("unexpected first pair: %+v", first.Pair)
	}
	if first.WinsTeam1 != 1 || first.WinsTeam2 != 1 || first.Draws != 1 || first.Matches != 3 {
		t.Fatalf("unexpected tally: %+v", first)
	}

	second := got[1]
	if second.Team1 != "Boulevard" || second.WinsTeam1 != 1 || second.WinsTeam2 != 0 || second.Matches != 1 {
		t.Fatalf("unexpected tally: %+v", second)
	}
}

func TestWinner(t *testing.T) {
	t.Parallel()

	if got := Winner(finished("a", "b", 2, 1)); got != "a" {
		t.Fatalf("expected a, got %s", got)
	}
	if got := Winner(finished("a", "b", 0, 1)); got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
	if got := Winner(finished("a", "b", 1, 1)); got != Draw {
		t.Fatalf("expected draw, got %s", got)
	}
}
