package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

// ActivityService manages the catalogue of bookable activity kinds.
type ActivityService struct {
	activities repository.ActivityRepository
}

func NewActivityService(activities repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

func (s *ActivityService) List(ctx context.Context) ([]*models.Activity, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *ActivityService) Get(ctx context.Context, id int) (*models.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "activity", ID: id}
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	activity.Name = strings.TrimSpace(activity.Name)
	if activity.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if activity.Factor == 0 {
		activity.Factor = 1
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) Update(ctx context.Context, id int, update *models.Activity) (*models.Activity, error) {
	activity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(update.Name)
	if name == "" {
		return nil, NewValidationError("name is required")
	}
	activity.Name = name
	activity.NeedsTicket = update.NeedsTicket
	if update.Factor != 0 {
		activity.Factor = update.Factor
	}
	if err := s.activities.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, id int) error {
	if err := s.activities.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "activity", ID: id}
		}
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
