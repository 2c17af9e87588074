package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

// ProjectActivityService manages which activities can be booked on which
// projects.
type ProjectActivityService struct {
	assignments repository.ProjectActivityRepository
	projects    repository.ProjectRepository
	activities  repository.ActivityRepository
}

func NewProjectActivityService(
	assignments repository.ProjectActivityRepository,
	projects repository.ProjectRepository,
	activities repository.ActivityRepository,
) *ProjectActivityService {
	return &ProjectActivityService{
		assignments: assignments,
		projects:    projects,
		activities:  activities,
	}
}

func (s *ProjectActivityService) List(ctx context.Context) ([]*models.ProjectActivity, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list project activities: %w", err)
	}
	return assignments, nil
}

func (s *ProjectActivityService) Assign(ctx context.Context, projectID, activityID int) (*models.ProjectActivity, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "project", ID: projectID}
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "activity", ID: activityID}
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	exists, err := s.assignments.ExistsPair(ctx, projectID, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project activity: %w", err)
	}
	if exists {
		return nil, NewValidationError("activity %d is already assigned to project %d", activityID, projectID)
	}

	assignment := &models.ProjectActivity{ProjectID: projectID, ActivityID: activityID}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to assign activity: %w", err)
	}
	return assignment, nil
}

func (s *ProjectActivityService) Unassign(ctx context.Context, id int) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "project activity", ID: id}
		}
		return fmt.Errorf("failed to unassign activity: %w", err)
	}
	return nil
}
