package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	matchmock "github.com/riskibarqy/esoccer-watchdog/internal/mocks/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/resilience"
	"github.com/riskibarqy/esoccer-watchdog/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type staticWindow struct {
	info usecase.WindowInfo
}

func (w staticWindow) Info() usecase.WindowInfo { return w.info }

type staticCycles struct {
	last  *usecase.CycleResult
	count int64
}

func (c staticCycles) LastCycle() (usecase.CycleResult, bool) {
	if c.last == nil {
		return usecase.CycleResult{}, false
	}
	return *c.last, true
}

func (c staticCycles) Cycles() int64 { return c.count }

type staticBreaker struct{}

func (staticBreaker) BreakerStats() resilience.BreakerStats {
	return resilience.BreakerStats{State: resilience.CircuitStateClosed}
}

type testEnvelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      map[string]any `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var body testEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return body
}

func newTestRouter(t *testing.T, repo *matchmock.Repository, cycles staticCycles) http.Handler {
	t.Helper()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	window := staticWindow{info: usecase.WindowInfo{
		Start:    start,
		Label:    "20260301T100000Z",
		Duration: time.Hour,
		Expires:  start.Add(time.Hour),
	}}
	handler := NewHandler(repo, window, cycles, staticBreaker{}, logging.NewNop())
	return NewRouter(handler, logging.NewNop())
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, matchmock.NewRepository(t), staticCycles{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body.Data["status"] != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestListMatches(t *testing.T) {
	t.Parallel()

	scheduled := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	live := match.NewScheduled("2", scheduled, &scheduled, "Arthur", "Nikkitta")
	live.FinalHome, live.FinalAway = 2, 1
	snapshot := []match.Record{match.NewScheduled("1", scheduled, nil, "Kray", "Boulevard"), live}

	repo := matchmock.NewRepository(t)
	repo.On("Snapshot", mock.Anything).Return(snapshot, nil).Once()

	rec := httptest.NewRecorder()
	newTestRouter(t, repo, staticCycles{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body.APIVersion != "2.0" || body.Data["window"] != "20260301T100000Z" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	items, ok := body.Data["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", body.Data["items"])
	}
	first := items[0].(map[string]any)
	if first["id"] != "1" || first["final_home"] != nil {
		t.Fatalf("expected unknown score rendered as null, got %+v", first)
	}
	second := items[1].(map[string]any)
	if second["final_home"] != float64(2) {
		t.Fatalf("unexpected final score: %+v", second)
	}
}

func TestListMatches_StoreError(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	repo.On("Snapshot", mock.Anything).
		Return(nil, fmt.Errorf("%w: store offline", usecase.ErrDependencyUnavailable)).Once()

	rec := httptest.NewRecorder()
	newTestRouter(t, repo, staticCycles{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGetWindow(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	repo.On("Snapshot", mock.Anything).Return([]match.Record{{ID: "1"}}, nil).Once()
	last := usecase.CycleResult{Cycle: 3, Flushed: true}

	rec := httptest.NewRecorder()
	newTestRouter(t, repo, staticCycles{last: &last, count: 3}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/window", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body.Data["entries"] != float64(1) || body.Data["cycles"] != float64(3) {
		t.Fatalf("unexpected window body: %+v", body.Data)
	}
	window := body.Data["window"].(map[string]any)
	if window["label"] != "20260301T100000Z" {
		t.Fatalf("unexpected window label: %v", window["label"])
	}
	lastCycle := body.Data["last_cycle"].(map[string]any)
	if lastCycle["flushed"] != true {
		t.Fatalf("unexpected last cycle: %+v", lastCycle)
	}
	if breaker := body.Data["feed_breaker"].(map[string]any); breaker["state"] != "closed" {
		t.Fatalf("unexpected breaker: %+v", breaker)
	}
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
