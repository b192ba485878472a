package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/analysis/grouping"
	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/repository"
	"github.com/delhayec/MillionRecap/internal/sport"
)

// Errors returned by RunService
var (
	ErrRunInProgress = errors.New("a detection run is already in progress")
	ErrInvalidParams = errors.New("invalid run parameters")
)

// RunService starts detection runs and reports on them. At most one run
// executes at a time; each run replaces the whole group table.
type RunService struct {
	runs       *repository.RunRepository
	activities *repository.ActivityRepository
	groups     *repository.GroupRepository
	catalog    *sport.Catalog
	cfg        grouping.Config
	log        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// NewRunService creates a new run service. cfg holds the default thresholds
// that run parameters override.
func NewRunService(runs *repository.RunRepository, activities *repository.ActivityRepository, groups *repository.GroupRepository,
	catalog *sport.Catalog, cfg grouping.Config, log *zap.Logger) *RunService {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RunService{
		runs:       runs,
		activities: activities,
		groups:     groups,
		catalog:    catalog,
		cfg:        cfg,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// StartRun records a new run and executes it in the background. paramsJSON
// optionally overrides thresholds, see grouping.Params.
func (s *RunService) StartRun(ctx context.Context, paramsJSON string, createdBy string) (*models.DetectionRun, error) {
	params, err := grouping.ParseParams(paramsJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	detector, err := grouping.NewDetector(params.Apply(s.cfg), s.catalog, s.log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	if !s.acquire() {
		return nil, ErrRunInProgress
	}

	count, err := s.activities.Count(ctx)
	if err != nil {
		s.release()
		return nil, err
	}

	run := &models.DetectionRun{
		ID:              uuid.NewString(),
		Mode:            models.RunModeFullRecompute,
		Status:          models.RunStatusPending,
		ProgressPercent: 0,
		ParamsJSON:      paramsJSON,
		TotalActivities: count,
		CreatedBy:       createdBy,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		s.release()
		return nil, err
	}

	analyzer := grouping.NewAnalyzer(detector, s.activities, s.groups, s.runs, s.log)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release()

		if err := analyzer.Analyze(s.ctx, run.ID, run.Mode); err != nil {
			s.log.Error("detection run failed", zap.String("run_id", run.ID), zap.Error(err))
		}
	}()

	return run, nil
}

// GetRun retrieves a run, nil when it does not exist
func (s *RunService) GetRun(ctx context.Context, id string) (*models.DetectionRun, error) {
	return s.runs.GetByID(ctx, id)
}

// ListRuns retrieves runs, most recent first
func (s *RunService) ListRuns(ctx context.Context, limit, offset int) ([]*models.DetectionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.runs.List(ctx, limit, offset)
}

// Wait blocks until background runs have finished
func (s *RunService) Wait() {
	s.wg.Wait()
}

// Shutdown cancels a running run and waits for it to record its failure,
// or until ctx is done
func (s *RunService) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RunService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *RunService) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
