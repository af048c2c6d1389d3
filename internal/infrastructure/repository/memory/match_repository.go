package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

var ErrStoreFull = errors.New("match store is full")

// MatchRepository is the in-process store for one collection window.
// maxEntries <= 0 means unbounded.
type MatchRepository struct {
	mu         sync.RWMutex
	byID       map[string]match.Record
	maxEntries int
}

func NewMatchRepository(maxEntries int) *MatchRepository {
	return &MatchRepository{
		byID:       make(map[string]match.Record),
		maxEntries: maxEntries,
	}
}

func (r *MatchRepository) Ingest(_ context.Context, candidates []match.Record) (match.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result match.IngestResult
	for _, candidate := range candidates {
		if candidate.HasNoScoreInfo() {
			result.Dropped++
			continue
		}
		if err := candidate.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, match.Conflict{ID: candidate.ID, Err: err})
			continue
		}

		existing, found := r.byID[candidate.ID]
		if !found && candidate.IsScoreOnly() {
			result.Unmatched++
			continue
		}
		if !found {
			if r.maxEntries > 0 && len(r.byID) >= r.maxEntries {
				result.Conflicts = append(result.Conflicts, match.Conflict{
					ID:  candidate.ID,
					Err: fmt.Errorf("%w: limit %d", ErrStoreFull, r.maxEntries),
				})
				continue
			}
			r.byID[candidate.ID] = candidate.Clone()
			result.Inserted++
			continue
		}

		merged, err := match.Merge(existing, candidate)
		if err != nil {
			result.Conflicts = append(result.Conflicts, match.Conflict{ID: candidate.ID, Err: err})
			continue
		}
		r.byID[candidate.ID] = merged.Clone()
		result.Merged++
	}

	return result, nil
}

func (r *MatchRepository) Snapshot(_ context.Context) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Record, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item.Clone())
	}
	match.SortForSnapshot(out)
	return out, nil
}

func (r *MatchRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[string]match.Record)
	return nil
}

func (r *MatchRepository) Len(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID), nil
}
