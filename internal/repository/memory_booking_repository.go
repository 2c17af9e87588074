package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// MemoryBookingRepository is an in-memory implementation of BookingRepository
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[int]*models.TimeBooking
	nextID   int

	// FailNextSave causes the next Create or Update call to return this error
	// once, simulating a local persistence failure after the external worklog
	// call already succeeded.
	FailNextSave error
}

// NewMemoryBookingRepository creates a new in-memory booking repository
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[int]*models.TimeBooking),
		nextID:   1,
	}
}

func (r *MemoryBookingRepository) takeFailure() error {
	err := r.FailNextSave
	r.FailNextSave = nil
	return err
}

func copyBooking(b *models.TimeBooking) *models.TimeBooking {
	c := *b
	return &c
}

// GetByID retrieves a booking by ID
func (r *MemoryBookingRepository) GetByID(ctx context.Context, id int) (*models.TimeBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return copyBooking(b), nil
}

// GetByIDForUser retrieves a booking by ID scoped to the owning user
func (r *MemoryBookingRepository) GetByIDForUser(ctx context.Context, id, userID int) (*models.TimeBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok || b.UserID == nil || *b.UserID != userID {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return copyBooking(b), nil
}

// List returns bookings ordered by started_at DESC, id DESC
func (r *MemoryBookingRepository) List(ctx context.Context, userID *int) ([]*models.TimeBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.TimeBooking
	for _, b := range r.bookings {
		if userID != nil && (b.UserID == nil || *b.UserID != *userID) {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].StartedAt.After(result[j].StartedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Create stores a new booking
func (r *MemoryBookingRepository) Create(ctx context.Context, booking *models.TimeBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	booking.ID = r.nextID
	r.nextID++
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

// Update rewrites a stored booking
func (r *MemoryBookingRepository) Update(ctx context.Context, booking *models.TimeBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.bookings[booking.ID]; !ok {
		return fmt.Errorf("booking %d: %w", booking.ID, ErrNotFound)
	}
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

// Delete removes a booking
func (r *MemoryBookingRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	delete(r.bookings, id)
	return nil
}

// ExistsOverlap checks the half-open interval test against all stored bookings
func (r *MemoryBookingRepository) ExistsOverlap(ctx context.Context, userID, projectID int, start, end time.Time, excludeID *int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.UserID == nil || *b.UserID != userID || b.ProjectID != projectID {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.StartedAt.Before(end) && b.EndedAt.After(start) {
			return true, nil
		}
	}
	return false, nil
}

// SumMinutesByProject returns the total booked minutes for a project
func (r *MemoryBookingRepository) SumMinutesByProject(ctx context.Context, projectID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, b := range r.bookings {
		if b.ProjectID == projectID {
			total += b.DurationMinutes
		}
	}
	return total, nil
}

// AggregateByProjectInRange sums booked minutes per project for bookings
// starting in [start, end). Billing fields are left empty; the memory
// repository has no project table to join against.
func (r *MemoryBookingRepository) AggregateByProjectInRange(ctx context.Context, start, end time.Time) ([]*models.ProjectMinutes, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byProject := make(map[int]*models.ProjectMinutes)
	for _, b := range r.bookings {
		if b.StartedAt.Before(start) || !b.StartedAt.Before(end) {
			continue
		}
		pm, ok := byProject[b.ProjectID]
		if !ok {
			pm = &models.ProjectMinutes{ProjectID: b.ProjectID}
			byProject[b.ProjectID] = pm
		}
		pm.Minutes += b.DurationMinutes
	}
	var result []*models.ProjectMinutes
	for _, pm := range byProject {
		result = append(result, pm)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProjectID < result[j].ProjectID })
	return result, nil
}
