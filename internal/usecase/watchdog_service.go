package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// SourceDiscoverer finds the feed URLs to poll this cycle. An empty list is
// a valid answer.
type SourceDiscoverer interface {
	DiscoverURLs(ctx context.Context) ([]string, error)
}

// RecordExtractor fetches one feed URL and turns it into raw match records.
type RecordExtractor interface {
	Extract(ctx context.Context, url string) ([]match.Record, error)
}

type WatchdogConfig struct {
	FetchWorkers int
	PollInterval time.Duration
}

// CycleResult summarizes one discover, extract, reduce, ingest, flush pass.
type CycleResult struct {
	Cycle       int64         `json:"cycle"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	WindowLabel string        `json:"window_label"`
	URLs        int           `json:"urls"`
	FailedURLs  int           `json:"failed_urls"`
	RawRecords  int           `json:"raw_records"`
	Candidates  int           `json:"candidates"`
	Dropped     int           `json:"dropped"`
	Unmatched   int           `json:"unmatched"`
	Inserted    int           `json:"inserted"`
	Merged      int           `json:"merged"`
	Rejected    int           `json:"rejected"`
	StoreSize   int           `json:"store_size"`
	Flushed     bool          `json:"flushed"`
	WindowReset bool          `json:"window_reset"`
}

type WatchdogService struct {
	discoverer SourceDiscoverer
	extractor  RecordExtractor
	store      match.Repository
	window     *WindowController
	writer     match.LogWriter
	cfg        WatchdogConfig
	logger     *logging.Logger
	now        func() time.Time

	cycles     atomic.Int64
	unflushed  atomic.Bool
	lastMu     sync.RWMutex
	lastResult *CycleResult
}

func NewWatchdogService(
	discoverer SourceDiscoverer,
	extractor RecordExtractor,
	store match.Repository,
	window *WindowController,
	writer match.LogWriter,
	cfg WatchdogConfig,
	logger *logging.Logger,
) *WatchdogService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = 8
	}
	now := time.Now
	if window != nil {
		now = window.Now
	}

	return &WatchdogService{
		discoverer: discoverer,
		extractor:  extractor,
		store:      store,
		window:     window,
		writer:     writer,
		cfg:        cfg,
		logger:     logger,
		now:        now,
	}
}

// Run executes cycles back to back, waiting PollInterval between them, until
// ctx is cancelled.
func (s *WatchdogService) Run(ctx context.Context) error {
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.ErrorContext(ctx, "poll cycle failed", "error", err)
		}

		if s.cfg.PollInterval <= 0 {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		timer := time.NewTimer(s.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle performs one full pass. Per-URL failures are logged and skipped;
// only cancellation or a broken store ends a cycle early.
func (s *WatchdogService) RunCycle(ctx context.Context) (CycleResult, error) {
	ctx, span := startRootSpan(ctx, "usecase.WatchdogService.RunCycle")
	defer span.End()

	if s.discoverer == nil || s.extractor == nil || s.store == nil || s.window == nil {
		return CycleResult{}, fmt.Errorf("%w: watchdog is not fully configured", ErrDependencyUnavailable)
	}

	result := CycleResult{
		Cycle:     s.cycles.Add(1),
		StartedAt: s.now(),
	}
	defer func() {
		result.Duration = s.now().Sub(result.StartedAt)
		span.SetAttributes(
			attribute.Int64("cycle", result.Cycle),
			attribute.Int("urls", result.URLs),
			attribute.Int("candidates", result.Candidates),
			attribute.Int("store_size", result.StoreSize),
		)
	}()

	urls, err := s.discoverer.DiscoverURLs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "discover source urls failed", "error", err)
		urls = nil
	}
	result.URLs = len(urls)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	raw, failed, err := s.fetchAll(ctx, urls)
	if err != nil {
		return result, err
	}
	result.FailedURLs = failed
	result.RawRecords = len(raw)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	reduced := ReduceCycle(raw)
	result.Candidates = len(reduced.Candidates)
	result.Dropped = reduced.Dropped
	s.logConflicts(ctx, "reduce", reduced.Conflicts)

	reset, err := s.resetExpiredWindow(ctx)
	if err != nil {
		return result, err
	}
	result.WindowReset = reset

	ingested, err := s.store.Ingest(ctx, reduced.Candidates)
	if err != nil {
		return result, fmt.Errorf("%w: ingest candidates: %v", ErrDependencyUnavailable, err)
	}
	result.Inserted = ingested.Inserted
	result.Merged = ingested.Merged
	result.Dropped += ingested.Dropped
	result.Unmatched = ingested.Unmatched
	result.Rejected = len(reduced.Conflicts) + len(ingested.Conflicts)
	s.logConflicts(ctx, "ingest", ingested.Conflicts)

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: snapshot store: %v", ErrDependencyUnavailable, err)
	}
	result.StoreSize = len(snapshot)
	result.WindowLabel = s.window.Label()
	result.Flushed = s.flush(ctx, snapshot, result.WindowLabel)

	if len(reduced.Candidates) == 0 {
		s.logger.InfoContext(ctx, "cycle produced no candidates", "cycle", result.Cycle, "urls", result.URLs)
	}
	s.logger.InfoContext(ctx, "cycle finished",
		"cycle", result.Cycle,
		"window", result.WindowLabel,
		"urls", result.URLs,
		"failed_urls", result.FailedURLs,
		"raw_records", result.RawRecords,
		"candidates", result.Candidates,
		"inserted", result.Inserted,
		"merged", result.Merged,
		"dropped", result.Dropped,
		"unmatched", result.Unmatched,
		"rejected", result.Rejected,
		"store_size", result.StoreSize,
		"flushed", result.Flushed,
		"window_reset", result.WindowReset,
	)

	s.setLastResult(result)
	return result, nil
}

// LastCycle returns the most recent completed cycle.
func (s *WatchdogService) LastCycle() (CycleResult, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()

	if s.lastResult == nil {
		return CycleResult{}, false
	}
	return *s.lastResult, true
}

func (s *WatchdogService) Cycles() int64 {
	return s.cycles.Load()
}

func (s *WatchdogService) setLastResult(result CycleResult) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()

	s.lastResult = &result
}

// fetchAll extracts every URL on a bounded pool. Results land in per-URL
// slots so the returned records follow the input URL order regardless of
// completion order.
func (s *WatchdogService) fetchAll(ctx context.Context, urls []string) ([]match.Record, int, error) {
	if len(urls) == 0 {
		return nil, 0, nil
	}

	workerCount := s.cfg.FetchWorkers
	if workerCount > len(urls) {
		workerCount = len(urls)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, 0, fmt.Errorf("create fetch pool: %w", err)
	}
	defer pool.Release()

	slots := make([][]match.Record, len(urls))
	var failed atomic.Int32
	var workers sync.WaitGroup
	for i, url := range urls {
		i, url := i, url
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			records, err := s.extractor.Extract(ctx, url)
			if err != nil {
				failed.Add(1)
				if !errors.Is(err, context.Canceled) {
					s.logger.ErrorContext(ctx, "extract records failed", "url", url, "error", err)
				}
				return
			}
			slots[i] = records
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, 0, fmt.Errorf("submit fetch to worker pool: %w", err)
		}
	}
	workers.Wait()

	total := 0
	for _, slot := range slots {
		total += len(slot)
	}
	out := make([]match.Record, 0, total)
	for _, slot := range slots {
		out = append(out, slot...)
	}
	return out, int(failed.Load()), nil
}

// resetExpiredWindow runs before ingest, so the previous cycle's flush has
// already happened. If that flush failed the snapshot is written again first
// and the reset is skipped while it keeps failing.
func (s *WatchdogService) resetExpiredWindow(ctx context.Context) (bool, error) {
	if !s.window.ShouldReset(s.now()) {
		return false, nil
	}

	if s.unflushed.Load() {
		snapshot, err := s.store.Snapshot(ctx)
		if err != nil {
			return false, fmt.Errorf("%w: snapshot store: %v", ErrDependencyUnavailable, err)
		}
		if !s.flush(ctx, snapshot, s.window.Label()) {
			s.logger.WarnContext(ctx, "window expired but last snapshot is not flushed, keeping window open",
				"window", s.window.Label(),
			)
			return false, nil
		}
	}

	previous := s.window.Label()
	if err := s.window.Reset(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	s.logger.InfoContext(ctx, "window reset", "previous_window", previous, "window", s.window.Label())
	return true, nil
}

func (s *WatchdogService) flush(ctx context.Context, snapshot []match.Record, label string) bool {
	if s.writer == nil {
		return false
	}
	if err := s.writer.Append(ctx, snapshot, label); err != nil {
		s.unflushed.Store(true)
		s.logger.ErrorContext(ctx, "flush window snapshot failed", "window", label, "records", len(snapshot), "error", err)
		return false
	}
	s.unflushed.Store(false)
	return true
}

func (s *WatchdogService) logConflicts(ctx context.Context, stage string, conflicts []match.Conflict) {
	for _, conflict := range conflicts {
		s.logger.WarnContext(ctx, "candidate rejected", "stage", stage, "match_id", conflict.ID, "error", conflict.Err)
	}
}
