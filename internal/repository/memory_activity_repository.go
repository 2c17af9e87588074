package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// MemoryActivityRepository is an in-memory implementation of ActivityRepository
type MemoryActivityRepository struct {
	mu         sync.RWMutex
	activities map[int]*models.Activity
	nextID     int
}

// NewMemoryActivityRepository creates a new in-memory activity repository
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{
		activities: make(map[int]*models.Activity),
		nextID:     1,
	}
}

// GetByID retrieves an activity by ID
func (r *MemoryActivityRepository) GetByID(ctx context.Context, id int) (*models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	c := *a
	return &c, nil
}

// List retrieves all activities ordered by ID
func (r *MemoryActivityRepository) List(ctx context.Context) ([]*models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*models.Activity
	for _, a := range r.activities {
		c := *a
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create stores a new activity
func (r *MemoryActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	activity.ID = r.nextID
	r.nextID++
	c := *activity
	r.activities[activity.ID] = &c
	return nil
}

// Update rewrites a stored activity
func (r *MemoryActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[activity.ID]; !ok {
		return fmt.Errorf("activity %d: %w", activity.ID, ErrNotFound)
	}
	c := *activity
	r.activities[activity.ID] = &c
	return nil
}

// Delete removes an activity
func (r *MemoryActivityRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[id]; !ok {
		return fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	delete(r.activities, id)
	return nil
}
