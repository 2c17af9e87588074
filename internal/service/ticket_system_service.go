package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

// TicketSystemService manages external ticket system configurations. Secrets
// are write-only: they are accepted on create/update and never echoed back.
type TicketSystemService struct {
	ticketSystems repository.TicketSystemRepository
}

func NewTicketSystemService(ticketSystems repository.TicketSystemRepository) *TicketSystemService {
	return &TicketSystemService{ticketSystems: ticketSystems}
}

func (s *TicketSystemService) List(ctx context.Context) ([]*models.TicketSystem, error) {
	systems, err := s.ticketSystems.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket systems: %w", err)
	}
	return systems, nil
}

func (s *TicketSystemService) Get(ctx context.Context, id int) (*models.TicketSystem, error) {
	ts, err := s.ticketSystems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "ticket system", ID: id}
		}
		return nil, fmt.Errorf("failed to load ticket system: %w", err)
	}
	return ts, nil
}

func (s *TicketSystemService) Create(ctx context.Context, req *models.TicketSystemRequest) (*models.TicketSystem, error) {
	ts := &models.TicketSystem{}
	if err := applyTicketSystemFields(ts, req); err != nil {
		return nil, err
	}
	if ts.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if ts.Type == "" {
		return nil, NewValidationError("type is required")
	}
	if err := s.ticketSystems.Create(ctx, ts); err != nil {
		return nil, fmt.Errorf("failed to create ticket system: %w", err)
	}
	return ts, nil
}

func (s *TicketSystemService) Update(ctx context.Context, id int, req *models.TicketSystemRequest) (*models.TicketSystem, error) {
	ts, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTicketSystemFields(ts, req); err != nil {
		return nil, err
	}
	if err := s.ticketSystems.Update(ctx, ts); err != nil {
		return nil, fmt.Errorf("failed to update ticket system: %w", err)
	}
	return ts, nil
}

func (s *TicketSystemService) Delete(ctx context.Context, id int) error {
	if err := s.ticketSystems.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "ticket system", ID: id}
		}
		return fmt.Errorf("failed to delete ticket system: %w", err)
	}
	return nil
}

func applyTicketSystemFields(ts *models.TicketSystem, req *models.TicketSystemRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return NewValidationError("name must not be empty")
		}
		ts.Name = name
	}
	if req.Type != nil {
		t := strings.ToLower(strings.TrimSpace(*req.Type))
		if t == "" {
			return NewValidationError("type must not be empty")
		}
		ts.Type = t
	}
	if req.URL != nil {
		ts.URL = strings.TrimSpace(*req.URL)
	}
	if req.Username != nil {
		ts.Username = strings.TrimSpace(*req.Username)
	}
	if req.Secret != nil {
		ts.Secret = *req.Secret
	}
	return nil
}
