package domain

import "time"

// Run is one pipeline execution as recorded in the history ledger.
type Run struct {
	ID         string
	InputPath  string
	Slug       string
	Title      string
	Stage      Stage
	Status     RunStatus
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// RunEvent marks the moment a run reached a stage.
type RunEvent struct {
	RunID string
	Stage Stage
	At    time.Time
}

// Duration returns the elapsed time of a finished run, or zero while it is
// still running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
