package matchlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/valyala/bytebufferpool"
)

const filePrefix = "parser_results_"

var baseColumns = []string{
	"time",
	"id",
	"scheduled",
	"player_1",
	"player_2",
	"score_per_1_home",
	"score_per_1_away",
	"res_score_home",
	"res_score_away",
}

var oddsColumns = []string{"coef_1", "coef_2", "coef_3"}

// CSVWriter keeps one delimited file per window. Every Append rewrites the
// window file with the full snapshot, replacing it atomically.
type CSVWriter struct {
	mu  sync.Mutex
	dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &CSVWriter{dir: dir}
}

// Path returns the file a window label is written to.
func (w *CSVWriter) Path(windowLabel string) string {
	return filepath.Join(w.dir, filePrefix+windowLabel+".csv")
}

func (w *CSVWriter) Append(ctx context.Context, snapshot []match.Record, windowLabel string) error {
	if err := validateLabel(windowLabel); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeSnapshot(buf, snapshot); err != nil {
		return fmt.Errorf("encode window %s: %w", windowLabel, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	return writeFileAtomic(w.dir, w.Path(windowLabel), buf.B)
}

func validateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("window label is required")
	}
	if strings.ContainsAny(label, `/\`) || strings.Contains(label, "..") {
		return fmt.Errorf("invalid window label %q", label)
	}
	return nil
}

func encodeSnapshot(buf *bytebufferpool.ByteBuffer, snapshot []match.Record) error {
	withOdds := false
	for _, record := range snapshot {
		if record.HasOdds() {
			withOdds = true
			break
		}
	}

	header := append([]string{}, baseColumns...)
	if withOdds {
		header = append(header, oddsColumns...)
	}

	cw := csv.NewWriter(buf)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, record := range snapshot {
		if err := cw.Write(recordRow(record, withOdds)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordRow(r match.Record, withOdds bool) []string {
	row := make([]string, 0, len(baseColumns)+len(oddsColumns))
	row = append(row,
		formatTime(&r.ObservedAt),
		r.ID,
		formatTime(r.ScheduledAt),
		r.Player1,
		r.Player2,
		strconv.Itoa(r.FirstPeriodHome),
		strconv.Itoa(r.FirstPeriodAway),
		strconv.Itoa(r.FinalHome),
		strconv.Itoa(r.FinalAway),
	)
	if withOdds {
		row = append(row, formatOdds(r.Odds1), formatOdds(r.OddsDraw), formatOdds(r.Odds2))
	}
	return row
}

func formatTime(v *time.Time) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func formatOdds(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
