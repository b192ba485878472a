package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/athlete"
	"github.com/delhayec/MillionRecap/internal/geocode"
	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/repository"
)

// ImportResult reports what an import did
type ImportResult struct {
	Received int `json:"received"`
	Imported int `json:"imported"` // new activities stored
	Skipped  int `json:"skipped"`  // without an activity id
	Geocoded int `json:"geocoded"` // countries resolved during the import
}

// ActivityService handles activity business logic
type ActivityService struct {
	repo      *repository.ActivityRepository
	resolver  *geocode.Resolver
	directory *athlete.Directory
	log       *zap.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(repo *repository.ActivityRepository, resolver *geocode.Resolver, directory *athlete.Directory, log *zap.Logger) *ActivityService {
	if directory == nil {
		directory = athlete.NewDirectory(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityService{
		repo:      repo,
		resolver:  resolver,
		directory: directory,
		log:       log,
	}
}

// Import stores new activities. Countries are resolved before storing;
// activities already stored are left untouched.
func (s *ActivityService) Import(ctx context.Context, activities []models.Activity) (*ImportResult, error) {
	result := &ImportResult{Received: len(activities)}

	valid := make([]models.Activity, 0, len(activities))
	for _, a := range activities {
		if a.ActivityID == 0 {
			result.Skipped++
			continue
		}
		valid = append(valid, a)
	}

	if s.resolver != nil {
		result.Geocoded = s.resolver.Resolve(ctx, valid)
		if err := s.resolver.Persist(ctx); err != nil {
			// The countries are stored with the activities anyway.
			s.log.Warn("failed to persist geocode cache", zap.Error(err))
		}
	}

	imported, err := s.repo.Import(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("failed to import activities: %w", err)
	}
	result.Imported = imported

	s.log.Info("activities imported",
		zap.Int("received", result.Received),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("geocoded", result.Geocoded))
	return result, nil
}

// GetActivities retrieves activities with filters and pagination
func (s *ActivityService) GetActivities(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int64, error) {
	return s.repo.List(ctx, filter)
}

// GetAthletes lists athletes with their counts. Directory names take
// precedence over the names recorded on activities.
func (s *ActivityService) GetAthletes(ctx context.Context) ([]models.Athlete, error) {
	athletes, err := s.repo.Athletes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range athletes {
		if name, ok := s.directory.Lookup(athletes[i].ID); ok {
			athletes[i].Name = name
		} else if athletes[i].Name == "" {
			athletes[i].Name = s.directory.Name(athletes[i].ID)
		}
	}
	return athletes, nil
}
