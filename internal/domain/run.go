package domain

import "time"

const (
	StageIngest    = "ingest"
	StageCitations = "citations"
)

// RunStats holds statistics about one harvester run.
type RunStats struct {
	ArticlesVisited  int
	ArticlesStored   int
	ArticlesSkipped  int
	CommentsAdded    int
	ArticlesAnalyzed int
	CitationsFound   int
	Published        int
	Errors           int
	Duration         time.Duration
}

// RunState is the persisted bookkeeping of a pipeline stage.
type RunState struct {
	ID             int64     `db:"id"`
	Stage          string    `db:"stage"`
	LastRunAt      time.Time `db:"last_run_at"`
	LastItemID     int64     `db:"last_item_id"`
	TotalProcessed int64     `db:"total_processed"`
}
