package match

import "context"

// Conflict is a candidate the store refused to merge.
type Conflict struct {
	ID  string
	Err error
}

// IngestResult summarizes one Ingest call.
type IngestResult struct {
	Inserted  int
	Merged    int
	Dropped   int
	Unmatched int
	Conflicts []Conflict
}

// Repository holds the authoritative merged record per match for the current window.
type Repository interface {
	Ingest(ctx context.Context, candidates []Record) (IngestResult, error)
	Snapshot(ctx context.Context) ([]Record, error)
	Reset(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

// LogWriter persists a window snapshot. Each call carries the full snapshot,
// so writers may overwrite what they stored for the same label.
type LogWriter interface {
	Append(ctx context.Context, snapshot []Record, windowLabel string) error
}
