package db

import "time"

// ScrapeRun records the outcome of collecting one category.
type ScrapeRun struct {
	ID         int64
	Category   string
	URL        string
	Status     string
	Pages      int
	Records    int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

const (
	RunRunning = "running"
	RunDone    = "done"
	RunFailed  = "failed"
)
