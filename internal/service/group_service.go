package service

import (
	"context"
	"fmt"

	"github.com/delhayec/MillionRecap/internal/analysis/grouping"
	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/repository"
)

// GroupService handles group business logic
type GroupService struct {
	repo *repository.GroupRepository
}

// NewGroupService creates a new group service
func NewGroupService(repo *repository.GroupRepository) *GroupService {
	return &GroupService{repo: repo}
}

// GetGroups retrieves groups with filters and pagination
func (s *GroupService) GetGroups(ctx context.Context, filter models.GroupFilter) ([]models.Group, int64, error) {
	return s.repo.List(ctx, filter)
}

// GetGroupByID retrieves a group, nil when it does not exist
func (s *GroupService) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	return s.repo.GetByID(ctx, id)
}

// GetSummary counts the stored groups by size and category
func (s *GroupService) GetSummary(ctx context.Context) (models.GroupSummary, error) {
	groups, err := s.repo.All(ctx)
	if err != nil {
		return models.GroupSummary{}, fmt.Errorf("failed to load groups: %w", err)
	}
	return grouping.Summarize(groups), nil
}
