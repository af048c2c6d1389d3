package matchlog

import (
	"context"
	"fmt"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// Sink is a named secondary destination for window snapshots.
type Sink struct {
	Name   string
	Writer match.LogWriter
}

// FanOut writes every snapshot to the primary log and all sinks in parallel.
// Only the primary result decides whether a flush succeeded; sink failures
// are logged.
type FanOut struct {
	primary match.LogWriter
	sinks   []Sink
	logger  *logging.Logger
}

func NewFanOut(primary match.LogWriter, logger *logging.Logger, sinks ...Sink) *FanOut {
	if logger == nil {
		logger = logging.Default()
	}
	active := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink.Writer != nil {
			active = append(active, sink)
		}
	}
	return &FanOut{primary: primary, sinks: active, logger: logger}
}

func (f *FanOut) Append(ctx context.Context, snapshot []match.Record, windowLabel string) error {
	var primaryErr error

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(len(f.sinks) + 1)
	p.Go(func(ctx context.Context) error {
		if f.primary == nil {
			return nil
		}
		if err := f.primary.Append(ctx, snapshot, windowLabel); err != nil {
			primaryErr = err
		}
		return nil
	})
	for _, sink := range f.sinks {
		sink := sink
		p.Go(func(ctx context.Context) error {
			if err := sink.Writer.Append(ctx, snapshot, windowLabel); err != nil {
				f.logger.WarnContext(ctx, "secondary match log sink failed",
					"sink", sink.Name,
					"window", windowLabel,
					"records", len(snapshot),
					"error", err,
				)
				return fmt.Errorf("sink %s: %w", sink.Name, err)
			}
			return nil
		})
	}
	_ = p.Wait()

	return primaryErr
}
