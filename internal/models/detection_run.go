package models

import "time"

// DetectionRun records one full recomputation of the group table
type DetectionRun struct {
	ID string `json:"id" db:"id"`

	// Mode is always FULL_RECOMPUTE; groups have no identity across runs.
	Mode string `json:"mode" db:"mode"`

	// Status
	Status          string `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent int    `json:"progress_percent" db:"progress_percent"`

	// Input parameters
	ParamsJSON string `json:"params_json,omitempty" db:"params_json"`

	// Execution info
	TotalActivities    int        `json:"total_activities" db:"total_activities"`
	EligibleActivities int        `json:"eligible_activities" db:"eligible_activities"`
	ProcessedDays      int        `json:"processed_days" db:"processed_days"`
	StartedAt          *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	// Results
	ResultSummary string `json:"result_summary,omitempty" db:"result_summary"` // JSON GroupSummary
	ErrorMessage  string `json:"error_message,omitempty" db:"error_message"`

	// Metadata
	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Run modes
const (
	RunModeFullRecompute = "FULL_RECOMPUTE"
)

// Run status constants
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// IsTerminal returns true if the run is in a terminal state
func (r *DetectionRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// RunOutcome carries the counters stored when a run completes
type RunOutcome struct {
	TotalActivities    int
	EligibleActivities int
	ProcessedDays      int
	ResultSummary      string // JSON GroupSummary
}
