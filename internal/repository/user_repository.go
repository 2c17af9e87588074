package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// DBUserRepository handles database operations for users
type DBUserRepository struct {
	db *sql.DB
}

// NewDBUserRepository creates a new user repository
func NewDBUserRepository(db *sql.DB) *DBUserRepository {
	return &DBUserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Login, &u.Password, &u.DisplayName, &u.ValidID, &u.CreateTime)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *DBUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, login, pw, display_name, valid_id, create_time
		FROM app_user
		WHERE id = $1 AND valid_id = 1`)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, err
}

// GetByLogin retrieves a user by login name
func (r *DBUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, login, pw, display_name, valid_id, create_time
		FROM app_user
		WHERE login = $1 AND valid_id = 1`)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, login))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", login, ErrNotFound)
	}
	return u, err
}

// Create inserts a user and fills in its new ID
func (r *DBUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ValidID == 0 {
		user.ValidID = 1
	}
	if user.CreateTime.IsZero() {
		user.CreateTime = time.Now().UTC()
	}

	query := `INSERT INTO app_user (login, pw, display_name, valid_id, create_time) VALUES ($1, $2, $3, $4, $5)`
	args := []any{user.Login, user.Password, user.DisplayName, user.ValidID, user.CreateTime}

	if database.IsPostgreSQL() {
		return r.db.QueryRowContext(ctx, query+` RETURNING id`, args...).Scan(&user.ID)
	}

	res, err := r.db.ExecContext(ctx, database.ConvertPlaceholders(query), args...)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	return nil
}
