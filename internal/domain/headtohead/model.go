package headtohead

import (
	"sort"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

const Draw = "draw"

// Pair is an unordered player pairing, stored with Team1 <= Team2.
type Pair struct {
	Team1 string
	Team2 string
}

func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{Team1: a, Team2: b}
}

// Tally counts finished matches between one pair of players.
type Tally struct {
	Pair
	WinsTeam1 int
	WinsTeam2 int
	Draws     int
	Matches   int
}

// Finished reports whether the record carries a final score on both sides.
func Finished(r match.Record) bool {
	return r.FinalHome != match.ScoreUnknown && r.FinalAway != match.ScoreUnknown
}

// Winner returns the winning player's name or Draw.
func Winner(r match.Record) string {
	switch {
	case r.FinalHome > r.FinalAway:
		return r.Player1
	case r.FinalHome < r.FinalAway:
		return r.Player2
	default:
		return Draw
	}
}

// Tabulate groups finished records by player pair, ordered by team1 then team2.
// Records without a final score are skipped.
func Tabulate(records []match.Record) []Tally {
	byPair := make(map[Pair]*Tally)
	for _, r := range records {
		if !Finished(r) {
			continue
		}
		pair := NewPair(r.Player1, r.Player2)
		tally, ok := byPair[pair]
		if !ok {
			tally = &Tally{Pair: pair}
			byPair[pair] = tally
		}

		tally.Matches++
		switch Winner(r) {
		case Draw:
			tally.Draws++
		case pair.Team1:
			tally.WinsTeam1++
		case pair.Team2:
			tally.WinsTeam2++
		}
	}

	out := make([]Tally, 0, len(byPair))
	for _, tally := range byPair {
		out = append(out, *tally)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team1 != out[j].Team1 {
			return out[i].Team1 < out[j].Team1
		}
		return out[i].Team2 < out[j].Team2
	})
	return out
}
