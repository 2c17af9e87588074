package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int]*models.User
	nextID int
}

// NewMemoryUserRepository creates a new in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

// GetByID retrieves a user by ID
func (r *MemoryUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	c := *u
	return &c, nil
}

// GetByLogin retrieves a user by login name
func (r *MemoryUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Login == login {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", login, ErrNotFound)
}

// Create stores a new user
func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	if user.ValidID == 0 {
		user.ValidID = 1
	}
	if user.CreateTime.IsZero() {
		user.CreateTime = time.Now().UTC()
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}
