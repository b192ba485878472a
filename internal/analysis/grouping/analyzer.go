package grouping

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/analysis"
	"github.com/delhayec/MillionRecap/internal/metrics"
	"github.com/delhayec/MillionRecap/internal/models"
)

// AnalyzerName identifies group detection runs
const AnalyzerName = "group_detection"

// ActivitySource provides the full activity collection for a run
type ActivitySource interface {
	All(ctx context.Context) ([]models.Activity, error)
}

// GroupStore persists the groups of a run, replacing earlier ones atomically
type GroupStore interface {
	ReplaceAll(ctx context.Context, runID string, groups []models.Group) error
}

// Analyzer runs group detection over stored activities and stores the result
type Analyzer struct {
	*analysis.BaseAnalyzer
	detector   *Detector
	activities ActivitySource
	groups     GroupStore
}

// NewAnalyzer creates a group detection analyzer
func NewAnalyzer(detector *Detector, activities ActivitySource, groups GroupStore, runs analysis.RunTracker, log *zap.Logger) *Analyzer {
	return &Analyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(runs, AnalyzerName, log),
		detector:     detector,
		activities:   activities,
		groups:       groups,
	}
}

// Analyze recomputes every group from scratch
func (a *Analyzer) Analyze(ctx context.Context, runID string, mode string) error {
	start := time.Now()
	a.Log.Info("starting analysis", zap.String("run_id", runID), zap.String("mode", mode))

	res, err := a.run(ctx, runID, mode)
	if err != nil {
		metrics.RunFailed(time.Since(start))
		return a.MarkRunAsFailed(ctx, runID, err)
	}

	metrics.RunCompleted(time.Since(start), len(res.Groups), res.EligibleActivities, res.PairsCompared)
	a.Log.Info("analysis completed",
		zap.String("run_id", runID),
		zap.Int("groups", len(res.Groups)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (a *Analyzer) run(ctx context.Context, runID string, mode string) (*Result, error) {
	if mode != models.RunModeFullRecompute {
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}

	if err := a.MarkRunAsRunning(ctx, runID); err != nil {
		return nil, err
	}

	activities, err := a.activities.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	lastPercent := -5
	res, err := a.detector.DetectContext(ctx, activities, func(done, total int) {
		// One update per 5%.
		if percent := done * 100 / total; percent/5 != lastPercent/5 {
			lastPercent = percent
			a.UpdateRunProgress(ctx, runID, done, total)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := a.groups.ReplaceAll(ctx, runID, res.Groups); err != nil {
		return nil, fmt.Errorf("failed to store groups: %w", err)
	}

	summary, err := json.Marshal(Summarize(res.Groups))
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}

	err = a.MarkRunAsCompleted(ctx, runID, models.RunOutcome{
		TotalActivities:    res.TotalActivities,
		EligibleActivities: res.EligibleActivities,
		ProcessedDays:      res.Days,
		ResultSummary:      string(summary),
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
