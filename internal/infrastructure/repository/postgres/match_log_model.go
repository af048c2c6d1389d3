package postgres

import (
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

const matchLogTable = "match_log"

type matchLogRow struct {
	WindowLabel     string     `db:"window_label"`
	MatchID         string     `db:"match_id"`
	ObservedAt      time.Time  `db:"observed_at"`
	ScheduledAt     *time.Time `db:"scheduled_at"`
	Player1         string     `db:"player_1"`
	Player2         string     `db:"player_2"`
	FirstPeriodHome int        `db:"score_per_1_home"`
	FirstPeriodAway int        `db:"score_per_1_away"`
	FinalHome       int        `db:"res_score_home"`
	FinalAway       int        `db:"res_score_away"`
	Odds1           *float64   `db:"coef_1"`
	OddsDraw        *float64   `db:"coef_2"`
	Odds2           *float64   `db:"coef_3"`
}

func newMatchLogRow(windowLabel string, r match.Record) matchLogRow {
	return matchLogRow{
		WindowLabel:     windowLabel,
		MatchID:         r.ID,
		ObservedAt:      r.ObservedAt.UTC(),
		ScheduledAt:     r.ScheduledAt,
		Player1:         r.Player1,
		Player2:         r.Player2,
		FirstPeriodHome: r.FirstPeriodHome,
		FirstPeriodAway: r.FirstPeriodAway,
		FinalHome:       r.FinalHome,
		FinalAway:       r.FinalAway,
		Odds1:           r.Odds1,
		OddsDraw:        r.OddsDraw,
		Odds2:           r.Odds2,
	}
}

func (row matchLogRow) toDomain() match.Record {
	return match.Record{
		ID:              row.MatchID,
		ObservedAt:      row.ObservedAt,
		ScheduledAt:     row.ScheduledAt,
		Player1:         row.Player1,
		Player2:         row.Player2,
		FirstPeriodHome: row.FirstPeriodHome,
		FirstPeriodAway: row.FirstPeriodAway,
		FinalHome:       row.FinalHome,
		FinalAway:       row.FinalAway,
		Odds1:           row.Odds1,
		OddsDraw:        row.OddsDraw,
		Odds2:           row.Odds2,
	}
}
