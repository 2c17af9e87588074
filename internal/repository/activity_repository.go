package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// DBActivityRepository handles database operations for activities
type DBActivityRepository struct {
	db *sql.DB
}

// NewDBActivityRepository creates a new activity repository
func NewDBActivityRepository(db *sql.DB) *DBActivityRepository {
	return &DBActivityRepository{db: db}
}

// GetByID retrieves an activity by ID
func (r *DBActivityRepository) GetByID(ctx context.Context, id int) (*models.Activity, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, name, needs_ticket, factor FROM activity WHERE id = $1`)

	var a models.Activity
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.NeedsTicket, &a.Factor)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List retrieves all activities ordered by ID
func (r *DBActivityRepository) List(ctx context.Context) ([]*models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, needs_ticket, factor FROM activity ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.NeedsTicket, &a.Factor); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

// Create inserts an activity and fills in its new ID
func (r *DBActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `INSERT INTO activity (name, needs_ticket, factor) VALUES ($1, $2, $3)`
	args := []any{activity.Name, activity.NeedsTicket, activity.Factor}

	if database.IsPostgreSQL() {
		return r.db.QueryRowContext(ctx, query+` RETURNING id`, args...).Scan(&activity.ID)
	}

	res, err := r.db.ExecContext(ctx, database.ConvertPlaceholders(query), args...)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	activity.ID = int(id)
	return nil
}

// Update rewrites an activity
func (r *DBActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	query := database.ConvertPlaceholders(`
		UPDATE activity SET name = $1, needs_ticket = $2, factor = $3 WHERE id = $4`)

	res, err := r.db.ExecContext(ctx, query, activity.Name, activity.NeedsTicket, activity.Factor, activity.ID)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("activity %d: %w", activity.ID, ErrNotFound)
	}
	return nil
}

// Delete removes an activity
func (r *DBActivityRepository) Delete(ctx context.Context, id int) error {
	query := database.ConvertPlaceholders(`DELETE FROM activity WHERE id = $1`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	return nil
}
