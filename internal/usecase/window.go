package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

const windowLabelLayout = "20060102T150405Z"

// WindowInfo describes the collection window currently open.
type WindowInfo struct {
	Start    time.Time     `json:"start"`
	Label    string        `json:"label"`
	Duration time.Duration `json:"duration"`
	Expires  time.Time     `json:"expires"`
}

// WindowController owns the start of the current collection window and
// clears the store when the window expires.
type WindowController struct {
	mu       sync.RWMutex
	store    match.Repository
	duration time.Duration
	start    time.Time
	now      func() time.Time
}

func NewWindowController(store match.Repository, duration time.Duration, now func() time.Time) *WindowController {
	if now == nil {
		now = time.Now
	}
	return &WindowController{
		store:    store,
		duration: duration,
		start:    now(),
		now:      now,
	}
}

// Now reads the clock the window was built with.
func (w *WindowController) Now() time.Time {
	return w.now()
}

// ShouldReset reports whether more than the configured duration has passed
// since the window started.
func (w *WindowController) ShouldReset(now time.Time) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return now.Sub(w.start) > w.duration
}

// Reset clears the store and opens a new window. Callers must flush the
// current snapshot before calling it.
func (w *WindowController) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset match store: %w", err)
	}
	w.start = w.now()
	return nil
}

func (w *WindowController) Label() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.start.UTC().Format(windowLabelLayout)
}

func (w *WindowController) Info() WindowInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return WindowInfo{
		Start:    w.start,
		Label:    w.start.UTC().Format(windowLabelLayout),
		Duration: w.duration,
		Expires:  w.start.Add(w.duration),
	}
}
