package scorefeed

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

const (
	matchResultMarket = "1"
	outcomeHome       = "1"
	outcomeDraw       = "2"
	outcomeAway       = "3"
)

// extractRecords turns one decoded payload into raw records for the sports
// whose name contains sportMarker. Events are emitted in id order.
// An event that carries only a score section has no sport to filter on; it is
// emitted as a score-only record and the store applies it to a known match only.
func extractRecords(payload feedPayload, sportMarker string, observedAt time.Time, validate *validator.Validate) ([]match.Record, int) {
	sportKeys := matchingSports(payload.Sports, sportMarker)
	if len(payload.Events) == 0 {
		return nil, 0
	}

	ids := make([]string, 0, len(payload.Events))
	for id := range payload.Events {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]match.Record, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		event := payload.Events[id]
		if event == nil {
			skipped++
			continue
		}
		if event.Desc == nil {
			if event.Score == nil {
				skipped++
				continue
			}
			out = append(out, toScoreOnlyRecord(id, event.Score, observedAt))
			continue
		}
		if _, ok := sportKeys[event.Desc.Sport]; !ok {
			continue
		}
		if err := validate.Struct(event.Desc); err != nil {
			skipped++
			continue
		}

		out = append(out, toRecord(id, event, observedAt))
	}
	return out, skipped
}

func matchingSports(sports map[string]sportInfo, marker string) map[string]struct{} {
	marker = strings.ToLower(strings.TrimSpace(marker))
	out := make(map[string]struct{}, len(sports))
	for key, sport := range sports {
		if marker == "" || strings.Contains(strings.ToLower(sport.Name), marker) {
			out[key] = struct{}{}
		}
	}
	return out
}

func toRecord(id string, event *eventPayload, observedAt time.Time) match.Record {
	scheduledAt := time.Unix(event.Desc.Scheduled, 0).UTC()
	record := match.NewScheduled(
		id,
		observedAt,
		&scheduledAt,
		strings.TrimSpace(event.Desc.Competitors[0].Name),
		strings.TrimSpace(event.Desc.Competitors[1].Name),
	)

	if event.Score != nil {
		applyScore(&record, event.Score)
	}

	if market, ok := event.Markets[matchResultMarket]; ok {
		record.Odds1 = oddsValue(market, outcomeHome)
		record.OddsDraw = oddsValue(market, outcomeDraw)
		record.Odds2 = oddsValue(market, outcomeAway)
	}
	return record
}

func toScoreOnlyRecord(id string, score *eventScore, observedAt time.Time) match.Record {
	record := match.NewScheduled(id, observedAt, nil, "", "")
	applyScore(&record, score)
	return record
}

func applyScore(record *match.Record, score *eventScore) {
	record.FinalHome = score.HomeScore.orUnknown(match.ScoreUnknown)
	record.FinalAway = score.AwayScore.orUnknown(match.ScoreUnknown)
	if len(score.PeriodScores) > 0 {
		record.FirstPeriodHome = score.PeriodScores[0].HomeScore.orUnknown(match.ScoreUnknown)
		record.FirstPeriodAway = score.PeriodScores[0].AwayScore.orUnknown(match.ScoreUnknown)
	}
}

func oddsValue(market map[string]outcome, key string) *float64 {
	o, ok := market[key]
	if !ok || !o.K.Valid || o.K.Value <= 0 {
		return nil
	}
	value := o.K.Value
	return &value
}
