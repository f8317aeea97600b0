package models

import "time"

// RunStatus represents the status of a pipeline run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// TriggerType represents what started a pipeline run
type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerScheduled TriggerType = "scheduled"
)

// Run represents a single execution of the classification pipeline
type Run struct {
	ID          string        `json:"id"`
	Status      RunStatus     `json:"status"`
	TriggerType TriggerType   `json:"trigger_type"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Stages      []StageReport `json:"stages"`
	Error       string        `json:"error,omitempty"`
}

// Complete marks the run as finished, recording err if non-nil
func (r *Run) Complete(err error) {
	now := time.Now()
	r.CompletedAt = &now
	if err != nil {
		r.Status = RunStatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = RunStatusCompleted
}

// Duration returns the elapsed time of a completed run, or zero if still running
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Stage returns the report for a named stage
func (r *Run) Stage(name string) (StageReport, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageReport{}, false
}
