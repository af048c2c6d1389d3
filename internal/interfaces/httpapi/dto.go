package httpapi

import (
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/resilience"
	"github.com/riskibarqy/esoccer-watchdog/internal/usecase"
)

type matchDTO struct {
	ID              string     `json:"id"`
	ObservedAt      time.Time  `json:"observed_at"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	Player1         string     `json:"player_1"`
	Player2         string     `json:"player_2"`
	FirstPeriodHome *int       `json:"first_period_home"`
	FirstPeriodAway *int       `json:"first_period_away"`
	FinalHome       *int       `json:"final_home"`
	FinalAway       *int       `json:"final_away"`
	Odds1           *float64   `json:"odds_1,omitempty"`
	OddsDraw        *float64   `json:"odds_draw,omitempty"`
	Odds2           *float64   `json:"odds_2,omitempty"`
}

type matchListDTO struct {
	Window string     `json:"window"`
	Count  int        `json:"count"`
	Items  []matchDTO `json:"items"`
}

type windowDTO struct {
	Window      usecase.WindowInfo       `json:"window"`
	Entries     int                      `json:"entries"`
	Cycles      int64                    `json:"cycles"`
	LastCycle   *usecase.CycleResult     `json:"last_cycle,omitempty"`
	FeedBreaker *resilience.BreakerStats `json:"feed_breaker,omitempty"`
}

func matchToDTO(r match.Record) matchDTO {
	return matchDTO{
		ID:              r.ID,
		ObservedAt:      r.ObservedAt,
		ScheduledAt:     r.ScheduledAt,
		Player1:         r.Player1,
		Player2:         r.Player2,
		FirstPeriodHome: knownScore(r.FirstPeriodHome),
		FirstPeriodAway: knownScore(r.FirstPeriodAway),
		FinalHome:       knownScore(r.FinalHome),
		FinalAway:       knownScore(r.FinalAway),
		Odds1:           r.Odds1,
		OddsDraw:        r.OddsDraw,
		Odds2:           r.Odds2,
	}
}

// knownScore renders the unknown sentinel as JSON null.
func knownScore(v int) *int {
	if v == match.ScoreUnknown {
		return nil
	}
	return &v
}
