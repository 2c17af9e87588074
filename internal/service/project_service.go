package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

// ProjectService manages projects and their billing configuration. Depending
// on the budget type exactly one of budget/hourly rate is authoritative:
// fixed_price holds the budget and derives the rate from booked effort, tm
// holds the rate, none clears both.
type ProjectService struct {
	projects      repository.ProjectRepository
	customers     repository.CustomerRepository
	ticketSystems repository.TicketSystemRepository
	bookings      repository.BookingRepository
}

func NewProjectService(
	projects repository.ProjectRepository,
	customers repository.CustomerRepository,
	ticketSystems repository.TicketSystemRepository,
	bookings repository.BookingRepository,
) *ProjectService {
	return &ProjectService{
		projects:      projects,
		customers:     customers,
		ticketSystems: ticketSystems,
		bookings:      bookings,
	}
}

func (s *ProjectService) List(ctx context.Context) ([]*models.ProjectResponse, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	responses := make([]*models.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, p.ToResponse())
	}
	return responses, nil
}

func (s *ProjectService) Get(ctx context.Context, id int) (*models.ProjectResponse, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return project.ToResponse(), nil
}

func (s *ProjectService) Create(ctx context.Context, req *models.CreateProjectRequest) (*models.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name is required")
	}
	if req.CustomerID == nil {
		return nil, NewValidationError("customerId is required")
	}
	if err := s.checkCustomer(ctx, *req.CustomerID); err != nil {
		return nil, err
	}
	if req.TicketSystemID != nil {
		if err := s.checkTicketSystem(ctx, *req.TicketSystemID); err != nil {
			return nil, err
		}
	}

	project := &models.Project{
		Name:                      name,
		CustomerID:                *req.CustomerID,
		TicketSystemID:            req.TicketSystemID,
		ExternalTicketURL:         req.ExternalTicketURL,
		ExternalTicketLogin:       req.ExternalTicketLogin,
		ExternalTicketCredentials: req.ExternalTicketCredentials,
		BudgetType:                models.BudgetTypeNone,
	}
	budgetType := models.BudgetTypeNone
	if req.BudgetType != nil {
		budgetType = *req.BudgetType
	}
	if err := applyBudgetFields(project, budgetType, req.Budget, req.HourlyRate); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project.ToResponse(), nil
}

func (s *ProjectService) Update(ctx context.Context, id int, req *models.UpdateProjectRequest) (*models.ProjectResponse, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name must not be empty")
		}
		project.Name = name
	}
	if req.CustomerID != nil {
		if err := s.checkCustomer(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
		project.CustomerID = *req.CustomerID
	}
	if req.TicketSystemSet {
		if req.TicketSystemID != nil {
			if err := s.checkTicketSystem(ctx, *req.TicketSystemID); err != nil {
				return nil, err
			}
		}
		project.TicketSystemID = req.TicketSystemID
	}
	if req.ExternalTicketURLSet {
		project.ExternalTicketURL = req.ExternalTicketURL
	}
	if req.ExternalTicketLoginSet {
		project.ExternalTicketLogin = req.ExternalTicketLogin
	}
	if req.ExternalTicketCredsSet {
		project.ExternalTicketCredentials = req.ExternalTicketCredentials
	}

	if req.BudgetType != nil || req.Budget != nil || req.HourlyRate != nil {
		budgetType := project.BudgetType
		if req.BudgetType != nil {
			budgetType = *req.BudgetType
		}
		if err := applyBudgetFields(project, budgetType, req.Budget, req.HourlyRate); err != nil {
			return nil, err
		}
		if project.BudgetType == models.BudgetTypeFixedPrice {
			s.deriveFixedPriceRate(ctx, project)
		}
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project.ToResponse(), nil
}

// Delete removes a project together with its bookings and activity
// assignments. The cascade happens in one transaction at the repository.
func (s *ProjectService) Delete(ctx context.Context, id int) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "project", ID: id}
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// applyBudgetFields enforces the billing rules for a budget type change.
func applyBudgetFields(project *models.Project, budgetType string, budget, hourlyRate *string) error {
	switch budgetType {
	case models.BudgetTypeNone:
		project.BudgetType = models.BudgetTypeNone
		project.Budget = nil
		project.HourlyRate = nil
	case models.BudgetTypeTM:
		if hourlyRate == nil {
			if project.BudgetType != models.BudgetTypeTM || project.HourlyRate == nil {
				return NewValidationError("hourlyRate is required for budget type tm")
			}
		} else {
			rate, err := parseMoney("hourlyRate", *hourlyRate)
			if err != nil {
				return err
			}
			project.HourlyRate = rate
		}
		project.BudgetType = models.BudgetTypeTM
		project.Budget = nil
	case models.BudgetTypeFixedPrice:
		if budget == nil {
			if project.BudgetType != models.BudgetTypeFixedPrice || project.Budget == nil {
				return NewValidationError("budget is required for budget type fixed_price")
			}
		} else {
			b, err := parseMoney("budget", *budget)
			if err != nil {
				return err
			}
			project.Budget = b
		}
		project.BudgetType = models.BudgetTypeFixedPrice
		// The rate is derived from booked effort, never taken from input.
		project.HourlyRate = nil
	default:
		return NewValidationError("budgetType must be one of none, fixed_price, tm")
	}
	return nil
}

// deriveFixedPriceRate fills in the display rate from the currently booked
// effort. Failures leave the rate unset; the next booking write recalculates.
func (s *ProjectService) deriveFixedPriceRate(ctx context.Context, project *models.Project) {
	if project.Budget == nil {
		return
	}
	minutes, err := s.bookings.SumMinutesByProject(ctx, project.ID)
	if err != nil || minutes == 0 {
		return
	}
	rate := project.Budget.Mul(decimal.NewFromInt(60)).Div(decimal.NewFromInt(int64(minutes))).Round(2)
	project.HourlyRate = &rate
}

func parseMoney(field, raw string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, NewValidationError("%s must be a decimal number", field)
	}
	if d.IsNegative() {
		return nil, NewValidationError("%s must not be negative", field)
	}
	return &d, nil
}

func (s *ProjectService) getProject(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "project", ID: id}
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) checkCustomer(ctx context.Context, id int) error {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "customer", ID: id}
		}
		return fmt.Errorf("failed to load customer: %w", err)
	}
	return nil
}

func (s *ProjectService) checkTicketSystem(ctx context.Context, id int) error {
	if _, err := s.ticketSystems.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "ticket system", ID: id}
		}
		return fmt.Errorf("failed to load ticket system: %w", err)
	}
	return nil
}
