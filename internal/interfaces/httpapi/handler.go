package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/resilience"
	"github.com/riskibarqy/esoccer-watchdog/internal/usecase"
)

// MatchReader exposes the current window snapshot.
type MatchReader interface {
	Snapshot(ctx context.Context) ([]match.Record, error)
}

type WindowReader interface {
	Info() usecase.WindowInfo
}

type CycleReporter interface {
	LastCycle() (usecase.CycleResult, bool)
	Cycles() int64
}

type BreakerReporter interface {
	BreakerStats() resilience.BreakerStats
}

type Handler struct {
	matches MatchReader
	window  WindowReader
	cycles  CycleReporter
	breaker BreakerReporter
	logger  *logging.Logger
}

// NewHandler builds the status handler. breaker may be nil.
func NewHandler(
	matches MatchReader,
	window WindowReader,
	cycles CycleReporter,
	breaker BreakerReporter,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matches: matches,
		window:  window,
		cycles:  cycles,
		breaker: breaker,
		logger:  logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	snapshot, err := h.matches.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "read snapshot failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(snapshot))
	for _, record := range snapshot {
		items = append(items, matchToDTO(record))
	}
	writeSuccess(ctx, w, http.StatusOK, matchListDTO{
		Window: h.window.Info().Label,
		Count:  len(items),
		Items:  items,
	})
}

func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWindow")
	defer span.End()

	snapshot, err := h.matches.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "read snapshot failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := windowDTO{
		Window:  h.window.Info(),
		Entries: len(snapshot),
		Cycles:  h.cycles.Cycles(),
	}
	if last, ok := h.cycles.LastCycle(); ok {
		out.LastCycle = &last
	}
	if h.breaker != nil {
		stats := h.breaker.BreakerStats()
		out.FeedBreaker = &stats
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
