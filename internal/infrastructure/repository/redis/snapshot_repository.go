package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/usecase"
)

const (
	keyPrefix       = "esoccer:window:"
	latestWindowKey = keyPrefix + "latest"
)

func matchesKey(windowLabel string) string {
	return keyPrefix + windowLabel + ":matches"
}

// SnapshotRepository keeps the latest snapshot of every window as a hash of
// match id to JSON record, and points esoccer:window:latest at the newest label.
type SnapshotRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSnapshotRepository(client *goredis.Client, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{client: client, ttl: ttl}
}

func (r *SnapshotRepository) Append(ctx context.Context, snapshot []match.Record, windowLabel string) error {
	values, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	key := matchesKey(windowLabel)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.HSet(ctx, key, values...)
		pipe.Expire(ctx, key, r.ttl)
	}
	pipe.Set(ctx, latestWindowKey, windowLabel, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write redis snapshot window=%s: %w", windowLabel, err)
	}
	return nil
}

// ReadWindow returns the stored snapshot of one window, ordered for output.
func (r *SnapshotRepository) ReadWindow(ctx context.Context, windowLabel string) ([]match.Record, error) {
	raw, err := r.client.HGetAll(ctx, matchesKey(windowLabel)).Result()
	if err != nil {
		return nil, fmt.Errorf("read redis snapshot window=%s: %w", windowLabel, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: redis snapshot window=%s", usecase.ErrNotFound, windowLabel)
	}
	return decodeSnapshot(raw)
}

// LatestWindow returns the label of the most recently flushed window.
func (r *SnapshotRepository) LatestWindow(ctx context.Context) (string, error) {
	label, err := r.client.Get(ctx, latestWindowKey).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("%w: no window flushed to redis", usecase.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read latest window: %w", err)
	}
	return label, nil
}

func encodeSnapshot(snapshot []match.Record) ([]any, error) {
	out := make([]any, 0, len(snapshot)*2)
	for _, record := range snapshot {
		payload, err := sonic.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("marshal match %s: %w", record.ID, err)
		}
		out = append(out, record.ID, string(payload))
	}
	return out, nil
}

func decodeSnapshot(raw map[string]string) ([]match.Record, error) {
	out := make([]match.Record, 0, len(raw))
	for id, payload := range raw {
		var record match.Record
		if err := sonic.UnmarshalString(payload, &record); err != nil {
			return nil, fmt.Errorf("unmarshal match %s: %w", id, err)
		}
		out = append(out, record)
	}
	match.SortForSnapshot(out)
	return out, nil
}
