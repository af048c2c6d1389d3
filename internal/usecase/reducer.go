package usecase

import (
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
)

// ReduceResult is the output of one cycle's reduction.
type ReduceResult struct {
	Candidates []match.Record
	Dropped    int
	Conflicts  []match.Conflict
}

// ReduceCycle collapses the raw records gathered from every URL in one cycle
// into at most one candidate per match id. Records are folded in input order,
// so callers must pass them in a stable URL order. Candidates keep the order
// in which their id was first seen.
func ReduceCycle(raw []match.Record) ReduceResult {
	result := ReduceResult{Candidates: make([]match.Record, 0, len(raw))}
	positionByID := make(map[string]int, len(raw))

	for _, record := range raw {
		if record.HasNoScoreInfo() {
			result.Dropped++
			continue
		}
		if err := record.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, match.Conflict{ID: record.ID, Err: err})
			continue
		}

		pos, found := positionByID[record.ID]
		if !found {
			positionByID[record.ID] = len(result.Candidates)
			result.Candidates = append(result.Candidates, record.Clone())
			continue
		}

		merged, err := match.Merge(result.Candidates[pos], record)
		if err != nil {
			result.Conflicts = append(result.Conflicts, match.Conflict{ID: record.ID, Err: err})
			continue
		}
		result.Candidates[pos] = merged
	}

	return result
}
