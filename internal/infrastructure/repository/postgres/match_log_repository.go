package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	qb "github.com/riskibarqy/esoccer-watchdog/internal/platform/querybuilder"
)

// 13 columns per row keeps each statement well below the 65535 parameter limit.
const matchLogBatchSize = 500

const matchLogUpsertSuffix = `ON CONFLICT (window_label, match_id)
DO UPDATE SET
    observed_at = EXCLUDED.observed_at,
    scheduled_at = EXCLUDED.scheduled_at,
    player_1 = EXCLUDED.player_1,
    player_2 = EXCLUDED.player_2,
    score_per_1_home = EXCLUDED.score_per_1_home,
    score_per_1_away = EXCLUDED.score_per_1_away,
    res_score_home = EXCLUDED.res_score_home,
    res_score_away = EXCLUDED.res_score_away,
    coef_1 = EXCLUDED.coef_1,
    coef_2 = EXCLUDED.coef_2,
    coef_3 = EXCLUDED.coef_3,
    updated_at = NOW()`

// MatchLogRepository mirrors window snapshots into Postgres, one row per
// (window, match).
type MatchLogRepository struct {
	db *sqlx.DB
}

func NewMatchLogRepository(db *sqlx.DB) *MatchLogRepository {
	return &MatchLogRepository{db: db}
}

func (r *MatchLogRepository) Append(ctx context.Context, snapshot []match.Record, windowLabel string) error {
	if len(snapshot) == 0 {
		return nil
	}

	queries, err := buildMatchLogUpserts(windowLabel, snapshot)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert match log: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q.sql, q.args...); err != nil {
			return fmt.Errorf("upsert match log window=%s: %w", windowLabel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert match log tx: %w", err)
	}
	return nil
}

// ReadWindowLog loads one window by its label, ordered like a store snapshot.
func (r *MatchLogRepository) ReadWindowLog(ctx context.Context, windowLabel string) ([]match.Record, error) {
	query, args, err := buildMatchLogSelect(windowLabel)
	if err != nil {
		return nil, err
	}

	var rows []matchLogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match log window=%s: %w", windowLabel, err)
	}

	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type statement struct {
	sql  string
	args []any
}

func buildMatchLogUpserts(windowLabel string, snapshot []match.Record) ([]statement, error) {
	if strings.TrimSpace(windowLabel) == "" {
		return nil, fmt.Errorf("window label is required")
	}

	out := make([]statement, 0, len(snapshot)/matchLogBatchSize+1)
	for start := 0; start < len(snapshot); start += matchLogBatchSize {
		end := min(start+matchLogBatchSize, len(snapshot))
		rows := make([]matchLogRow, 0, end-start)
		for _, record := range snapshot[start:end] {
			rows = append(rows, newMatchLogRow(windowLabel, record))
		}

		query, args, err := qb.InsertModels(matchLogTable, rows, matchLogUpsertSuffix)
		if err != nil {
			return nil, fmt.Errorf("build upsert match log query: %w", err)
		}
		out = append(out, statement{sql: query, args: args})
	}
	return out, nil
}

func buildMatchLogSelect(windowLabel string) (string, []any, error) {
	columns, err := qb.Columns(matchLogRow{})
	if err != nil {
		return "", nil, err
	}
	return qb.Select(columns...).
		From(matchLogTable).
		Where(qb.Eq("window_label", windowLabel)).
		OrderBy("scheduled_at ASC NULLS FIRST", "match_id ASC").
		ToSQL()
}
