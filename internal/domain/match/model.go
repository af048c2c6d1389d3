package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ScoreUnknown marks a score field that has not been observed yet. It is
// distinct from a real 0.
const ScoreUnknown = -1

var ErrInvalidRecord = errors.New("invalid match record")

// Record is one match's known state: either a single observation from the
// feed or the merged view held by the store.
type Record struct {
	ID              string     `json:"id"`
	ObservedAt      time.Time  `json:"observed_at"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	Player1         string     `json:"player_1"`
	Player2         string     `json:"player_2"`
	FirstPeriodHome int        `json:"score_per_1_home"`
	FirstPeriodAway int        `json:"score_per_1_away"`
	FinalHome       int        `json:"res_score_home"`
	FinalAway       int        `json:"res_score_away"`
	Odds1           *float64   `json:"coef_1,omitempty"`
	OddsDraw        *float64   `json:"coef_2,omitempty"`
	Odds2           *float64   `json:"coef_3,omitempty"`
}

// NewScheduled builds a record from a schedule description with every score
// field unknown and no odds.
func NewScheduled(id string, observedAt time.Time, scheduledAt *time.Time, player1, player2 string) Record {
	return Record{
		ID:              id,
		ObservedAt:      observedAt,
		ScheduledAt:     scheduledAt,
		Player1:         player1,
		Player2:         player2,
		FirstPeriodHome: ScoreUnknown,
		FirstPeriodAway: ScoreUnknown,
		FinalHome:       ScoreUnknown,
		FinalAway:       ScoreUnknown,
	}
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	out := r
	if r.ScheduledAt != nil {
		v := *r.ScheduledAt
		out.ScheduledAt = &v
	}
	out.Odds1 = cloneFloat(r.Odds1)
	out.OddsDraw = cloneFloat(r.OddsDraw)
	out.Odds2 = cloneFloat(r.Odds2)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func (r Record) scores() [4]int {
	return [4]int{r.FirstPeriodHome, r.FirstPeriodAway, r.FinalHome, r.FinalAway}
}

// HasNoScoreInfo reports whether the four score fields sum to zero with none of
// them positive, i.e. a live observation where nothing has been scored yet.
// Such an observation contributes nothing and is dropped before merging.
// A schedule-only record (all unknown) is not covered by this rule.
func (r Record) HasNoScoreInfo() bool {
	sum := 0
	for _, v := range r.scores() {
		if v > 0 {
			return false
		}
		sum += v
	}
	return sum == 0
}

// IsScoreOnly reports whether r carries no schedule or players, only an id and
// scores. Such a record can update a known match but never create one.
func (r Record) IsScoreOnly() bool {
	return r.ScheduledAt == nil && r.Player1 == "" && r.Player2 == ""
}

func (r Record) HasOdds() bool {
	return r.Odds1 != nil || r.OddsDraw != nil || r.Odds2 != nil
}

// Validate rejects records that can never be reconciled.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	for _, v := range r.scores() {
		if v < ScoreUnknown {
			return fmt.Errorf("%w: score %d below unknown marker for match %s", ErrInvalidRecord, v, r.ID)
		}
	}
	for _, odds := range []*float64{r.Odds1, r.OddsDraw, r.Odds2} {
		if odds != nil && *odds <= 0 {
			return fmt.Errorf("%w: non-positive odds %v for match %s", ErrInvalidRecord, *odds, r.ID)
		}
	}
	return nil
}

// SortForSnapshot orders records by scheduled time ascending. Records without
// a scheduled time come first; ties are broken by id.
func SortForSnapshot(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].ScheduledAt, records[j].ScheduledAt
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return records[i].ID < records[j].ID
	})
}
