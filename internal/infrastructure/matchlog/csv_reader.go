package matchlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

var ErrMissingColumn = errors.New("window log is missing a required column")

// CSVReader loads window logs written by CSVWriter.
type CSVReader struct{}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (r *CSVReader) ReadWindowLog(ctx context.Context, path string) ([]match.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decodeRecords(ctx, file)
}

func decodeRecords(ctx context.Context, src io.Reader) ([]match.Record, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, column := range baseColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}

	var out []match.Record
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		record, err := decodeRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("decode line %d: %w", line, err)
		}
		out = append(out, record)
	}
	return out, nil
}

func decodeRow(row []string, index map[string]int) (match.Record, error) {
	get := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	record := match.Record{
		ID:      get("id"),
		Player1: get("player_1"),
		Player2: get("player_2"),
	}

	observedAt, err := parseTime(get("time"))
	if err != nil {
		return match.Record{}, fmt.Errorf("time: %w", err)
	}
	if observedAt != nil {
		record.ObservedAt = *observedAt
	}
	if record.ScheduledAt, err = parseTime(get("scheduled")); err != nil {
		return match.Record{}, fmt.Errorf("scheduled: %w", err)
	}

	scores := []struct {
		column string
		dst    *int
	}{
		{"score_per_1_home", &record.FirstPeriodHome},
		{"score_per_1_away", &record.FirstPeriodAway},
		{"res_score_home", &record.FinalHome},
		{"res_score_away", &record.FinalAway},
	}
	for _, score := range scores {
		if *score.dst, err = parseScore(get(score.column)); err != nil {
			return match.Record{}, fmt.Errorf("%s: %w", score.column, err)
		}
	}

	odds := []struct {
		column string
		dst    **float64
	}{
		{"coef_1", &record.Odds1},
		{"coef_2", &record.OddsDraw},
		{"coef_3", &record.Odds2},
	}
	for _, o := range odds {
		if *o.dst, err = parseOdds(get(o.column)); err != nil {
			return match.Record{}, fmt.Errorf("%s: %w", o.column, err)
		}
	}

	return record, nil
}

func parseTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseScore(v string) (int, error) {
	if v == "" {
		return match.ScoreUnknown, nil
	}
	return strconv.Atoi(v)
}

func parseOdds(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
