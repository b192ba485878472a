package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/delhayec/MillionRecap/internal/models"
)

const runColumns = `id, mode, status, progress_percent, params_json,
	total_activities, eligible_activities, processed_days, started_at, completed_at,
	result_summary, error_message, created_by, created_at, updated_at`

// RunRepository handles database operations for detection runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new detection run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run
func (r *RunRepository) Create(ctx context.Context, run *models.DetectionRun) error {
	query := `
		INSERT INTO detection_runs (id, mode, status, progress_percent, params_json, total_activities, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Mode, run.Status, run.ProgressPercent, run.ParamsJSON, run.TotalActivities, run.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to create detection run: %w", err)
	}
	return nil
}

// GetByID retrieves a run, nil when it does not exist
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.DetectionRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM detection_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get detection run: %w", err)
	}
	return run, nil
}

// List retrieves runs, most recent first
func (r *RunRepository) List(ctx context.Context, limit, offset int) ([]*models.DetectionRun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM detection_runs ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list detection runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.DetectionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detection run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MarkAsRunning marks a run as started
func (r *RunRepository) MarkAsRunning(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE detection_runs
		SET status = ?,
		    started_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.RunStatusRunning, id)
}

// UpdateProgress records run progress
func (r *RunRepository) UpdateProgress(ctx context.Context, id string, percent int) error {
	return r.exec(ctx, `
		UPDATE detection_runs
		SET progress_percent = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, percent, id)
}

// MarkAsCompleted stores the run counters and marks it completed
func (r *RunRepository) MarkAsCompleted(ctx context.Context, id string, outcome models.RunOutcome) error {
	return r.exec(ctx, `
		UPDATE detection_runs
		SET status = ?,
		    progress_percent = 100,
		    total_activities = ?,
		    eligible_activities = ?,
		    processed_days = ?,
		    result_summary = ?,
		    completed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.RunStatusCompleted, outcome.TotalActivities, outcome.EligibleActivities, outcome.ProcessedDays,
		outcome.ResultSummary, id)
}

// MarkAsFailed marks a run as failed with an error message
func (r *RunRepository) MarkAsFailed(ctx context.Context, id string, errorMsg string) error {
	return r.exec(ctx, `
		UPDATE detection_runs
		SET status = ?,
		    error_message = ?,
		    completed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.RunStatusFailed, errorMsg, id)
}

func (r *RunRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update detection run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*models.DetectionRun, error) {
	var run models.DetectionRun
	var startedAt, completedAt sql.NullTime

	err := row.Scan(
		&run.ID, &run.Mode, &run.Status, &run.ProgressPercent, &run.ParamsJSON,
		&run.TotalActivities, &run.EligibleActivities, &run.ProcessedDays, &startedAt, &completedAt,
		&run.ResultSummary, &run.ErrorMessage, &run.CreatedBy, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return &run, nil
}
