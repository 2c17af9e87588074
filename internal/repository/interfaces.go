package repository

import (
	"context"
	"time"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// CustomerRepository defines data operations for customers
type CustomerRepository interface {
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id int) error
}

// ActivityRepository defines data operations for activities
type ActivityRepository interface {
	GetByID(ctx context.Context, id int) (*models.Activity, error)
	List(ctx context.Context) ([]*models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id int) error
}

// TicketSystemRepository defines data operations for ticket system configurations
type TicketSystemRepository interface {
	GetByID(ctx context.Context, id int) (*models.TicketSystem, error)
	List(ctx context.Context) ([]*models.TicketSystem, error)
	Create(ctx context.Context, ts *models.TicketSystem) error
	Update(ctx context.Context, ts *models.TicketSystem) error
	Delete(ctx context.Context, id int) error
}

// ProjectRepository defines data operations for projects
type ProjectRepository interface {
	GetByID(ctx context.Context, id int) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int) error
}

// ProjectActivityRepository defines data operations for project-activity assignments
type ProjectActivityRepository interface {
	GetByID(ctx context.Context, id int) (*models.ProjectActivity, error)
	List(ctx context.Context) ([]*models.ProjectActivity, error)
	ExistsPair(ctx context.Context, projectID, activityID int) (bool, error)
	Create(ctx context.Context, pa *models.ProjectActivity) error
	Delete(ctx context.Context, id int) error
}

// UserRepository defines data operations for users
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// BookingRepository defines data operations for time bookings.
//
// Create, Update and Delete are transactional per call: either all fields of
// the booking row change, or none do. External worklog calls are orchestrated
// by the service outside these boundaries.
type BookingRepository interface {
	GetByID(ctx context.Context, id int) (*models.TimeBooking, error)
	// GetByIDForUser scopes the lookup to the owning user.
	GetByIDForUser(ctx context.Context, id, userID int) (*models.TimeBooking, error)
	// List returns bookings ordered by started_at DESC, id DESC, scoped to the
	// user when userID is non-nil.
	List(ctx context.Context, userID *int) ([]*models.TimeBooking, error)
	Create(ctx context.Context, booking *models.TimeBooking) error
	Update(ctx context.Context, booking *models.TimeBooking) error
	Delete(ctx context.Context, id int) error
	// ExistsOverlap reports whether any booking of the user on the project has
	// a half-open interval intersecting [start, end). excludeID skips the
	// booking's own row on update.
	ExistsOverlap(ctx context.Context, userID, projectID int, start, end time.Time, excludeID *int) (bool, error)
	SumMinutesByProject(ctx context.Context, projectID int) (int, error)
	// AggregateByProjectInRange sums booked minutes per project for bookings
	// starting in [start, end), with billing fields for revenue derivation.
	AggregateByProjectInRange(ctx context.Context, start, end time.Time) ([]*models.ProjectMinutes, error)
}
