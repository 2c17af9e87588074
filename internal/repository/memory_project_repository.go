package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// MemoryProjectRepository is an in-memory implementation of ProjectRepository
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[int]*models.Project
	nextID   int
}

// NewMemoryProjectRepository creates a new in-memory project repository
func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		projects: make(map[int]*models.Project),
		nextID:   1,
	}
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	return &c
}

// GetByID retrieves a project by ID
func (r *MemoryProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return copyProject(p), nil
}

// List retrieves all projects ordered by ID
func (r *MemoryProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*models.Project
	for _, p := range r.projects {
		result = append(result, copyProject(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create stores a new project
func (r *MemoryProjectRepository) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = r.nextID
	r.nextID++
	r.projects[project.ID] = copyProject(project)
	return nil
}

// Update rewrites a stored project
func (r *MemoryProjectRepository) Update(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return fmt.Errorf("project %d: %w", project.ID, ErrNotFound)
	}
	r.projects[project.ID] = copyProject(project)
	return nil
}

// Delete removes a project
func (r *MemoryProjectRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	delete(r.projects, id)
	return nil
}
