package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// MemoryProjectActivityRepository is an in-memory implementation of ProjectActivityRepository
type MemoryProjectActivityRepository struct {
	mu          sync.RWMutex
	assignments map[int]*models.ProjectActivity
	nextID      int
}

// NewMemoryProjectActivityRepository creates a new in-memory project activity repository
func NewMemoryProjectActivityRepository() *MemoryProjectActivityRepository {
	return &MemoryProjectActivityRepository{
		assignments: make(map[int]*models.ProjectActivity),
		nextID:      1,
	}
}

// GetByID retrieves an assignment by ID
func (r *MemoryProjectActivityRepository) GetByID(ctx context.Context, id int) (*models.ProjectActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pa, ok := r.assignments[id]
	if !ok {
		return nil, fmt.Errorf("project activity %d: %w", id, ErrNotFound)
	}
	c := *pa
	return &c, nil
}

// List retrieves all assignments ordered by ID
func (r *MemoryProjectActivityRepository) List(ctx context.Context) ([]*models.ProjectActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*models.ProjectActivity
	for _, pa := range r.assignments {
		c := *pa
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ExistsPair reports whether the (project, activity) pair is already assigned
func (r *MemoryProjectActivityRepository) ExistsPair(ctx context.Context, projectID, activityID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pa := range r.assignments {
		if pa.ProjectID == projectID && pa.ActivityID == activityID {
			return true, nil
		}
	}
	return false, nil
}

// Create stores a new assignment
func (r *MemoryProjectActivityRepository) Create(ctx context.Context, pa *models.ProjectActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pa.ID = r.nextID
	r.nextID++
	c := *pa
	r.assignments[pa.ID] = &c
	return nil
}

// Delete removes an assignment
func (r *MemoryProjectActivityRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assignments[id]; !ok {
		return fmt.Errorf("project activity %d: %w", id, ErrNotFound)
	}
	delete(r.assignments, id)
	return nil
}
