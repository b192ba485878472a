package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/models"
)

// Analyzer is the interface that all analyses run by the service implement
type Analyzer interface {
	// Analyze performs the analysis for a given run. Analyses recompute their
	// whole output; mode is recorded but only models.RunModeFullRecompute exists.
	Analyze(ctx context.Context, runID string, mode string) error

	// GetName returns the name of the analyzer
	GetName() string
}

// RunTracker records the lifecycle of an analysis run
type RunTracker interface {
	MarkAsRunning(ctx context.Context, id string) error
	UpdateProgress(ctx context.Context, id string, percent int) error
	MarkAsCompleted(ctx context.Context, id string, outcome models.RunOutcome) error
	MarkAsFailed(ctx context.Context, id string, errorMsg string) error
}

// BaseAnalyzer provides run bookkeeping shared by analyzers
type BaseAnalyzer struct {
	Runs RunTracker
	Name string
	Log  *zap.Logger
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(runs RunTracker, name string, log *zap.Logger) *BaseAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &BaseAnalyzer{
		Runs: runs,
		Name: name,
		Log:  log.With(zap.String("analyzer", name)),
	}
}

// GetName returns the analyzer name
func (a *BaseAnalyzer) GetName() string {
	return a.Name
}

// MarkRunAsRunning marks a run as running
func (a *BaseAnalyzer) MarkRunAsRunning(ctx context.Context, runID string) error {
	if err := a.Runs.MarkAsRunning(ctx, runID); err != nil {
		return fmt.Errorf("failed to mark run as running: %w", err)
	}
	return nil
}

// UpdateRunProgress records progress as processed out of total steps.
// Failures are logged only; progress is informational.
func (a *BaseAnalyzer) UpdateRunProgress(ctx context.Context, runID string, processed, total int) {
	percent := 0
	if total > 0 {
		percent = processed * 100 / total
	}
	if err := a.Runs.UpdateProgress(ctx, runID, percent); err != nil {
		a.Log.Warn("failed to update run progress", zap.String("run_id", runID), zap.Error(err))
	}
}

// MarkRunAsCompleted marks a run as completed with its counters
func (a *BaseAnalyzer) MarkRunAsCompleted(ctx context.Context, runID string, outcome models.RunOutcome) error {
	if err := a.Runs.MarkAsCompleted(ctx, runID, outcome); err != nil {
		return fmt.Errorf("failed to mark run as completed: %w", err)
	}
	return nil
}

// MarkRunAsFailed marks a run as failed. The original error is returned
// wrapped so callers can keep propagating it.
func (a *BaseAnalyzer) MarkRunAsFailed(ctx context.Context, runID string, cause error) error {
	// The caller's context may be the reason for the failure.
	if err := a.Runs.MarkAsFailed(context.WithoutCancel(ctx), runID, cause.Error()); err != nil {
		a.Log.Error("failed to mark run as failed", zap.String("run_id", runID), zap.Error(err))
	}
	return fmt.Errorf("%s run %s: %w", a.Name, runID, cause)
}
