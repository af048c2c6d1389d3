package match

import (
	"errors"
	"fmt"
)

var ErrIdentityMismatch = errors.New("match identity mismatch")

// Merge folds observation b into a. The same rule is used within a poll cycle
// and against the store:
//   - odds: b wins when present
//   - scores: b wins when not lower than a; a 0 only replaces ScoreUnknown
//   - scheduled time: earliest present value wins
//   - id and players: taken from whichever side has them, must agree when both do
func Merge(a, b Record) (Record, error) {
	id, err := mergeIdentity("id", a.ID, b.ID)
	if err != nil {
		return a, err
	}
	player1, err := mergeIdentity("player_1", a.Player1, b.Player1)
	if err != nil {
		return a, fmt.Errorf("match %s: %w", id, err)
	}
	player2, err := mergeIdentity("player_2", a.Player2, b.Player2)
	if err != nil {
		return a, fmt.Errorf("match %s: %w", id, err)
	}

	out := a
	out.ID = id
	out.Player1 = player1
	out.Player2 = player2

	if b.ObservedAt.After(out.ObservedAt) {
		out.ObservedAt = b.ObservedAt
	}
	if b.ScheduledAt != nil && (out.ScheduledAt == nil || b.ScheduledAt.Before(*out.ScheduledAt)) {
		scheduledAt := *b.ScheduledAt
		out.ScheduledAt = &scheduledAt
	}

	out.FirstPeriodHome = mergeScore(a.FirstPeriodHome, b.FirstPeriodHome)
	out.FirstPeriodAway = mergeScore(a.FirstPeriodAway, b.FirstPeriodAway)
	out.FinalHome = mergeScore(a.FinalHome, b.FinalHome)
	out.FinalAway = mergeScore(a.FinalAway, b.FinalAway)

	out.Odds1 = mergeOdds(a.Odds1, b.Odds1)
	out.OddsDraw = mergeOdds(a.OddsDraw, b.OddsDraw)
	out.Odds2 = mergeOdds(a.Odds2, b.Odds2)

	return out, nil
}

func mergeIdentity(field, a, b string) (string, error) {
	switch {
	case a == "":
		return b, nil
	case b == "" || a == b:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %s %q != %q", ErrIdentityMismatch, field, a, b)
	}
}

func mergeScore(a, b int) int {
	if a <= b && (b != 0 || a == ScoreUnknown) {
		return b
	}
	return a
}

func mergeOdds(a, b *float64) *float64 {
	if b == nil {
		return a
	}
	v := *b
	return &v
}
