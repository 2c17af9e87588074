package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// DBProjectActivityRepository handles database operations for project-activity assignments
type DBProjectActivityRepository struct {
	db *sql.DB
}

// NewDBProjectActivityRepository creates a new project activity repository
func NewDBProjectActivityRepository(db *sql.DB) *DBProjectActivityRepository {
	return &DBProjectActivityRepository{db: db}
}

// GetByID retrieves an assignment by ID
func (r *DBProjectActivityRepository) GetByID(ctx context.Context, id int) (*models.ProjectActivity, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, project_id, activity_id FROM project_activity WHERE id = $1`)

	var pa models.ProjectActivity
	err := r.db.QueryRowContext(ctx, query, id).Scan(&pa.ID, &pa.ProjectID, &pa.ActivityID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project activity %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &pa, nil
}

// List retrieves all assignments ordered by ID
func (r *DBProjectActivityRepository) List(ctx context.Context) ([]*models.ProjectActivity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, project_id, activity_id FROM project_activity ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.ProjectActivity
	for rows.Next() {
		var pa models.ProjectActivity
		if err := rows.Scan(&pa.ID, &pa.ProjectID, &pa.ActivityID); err != nil {
			return nil, err
		}
		assignments = append(assignments, &pa)
	}
	return assignments, rows.Err()
}

// ExistsPair reports whether the (project, activity) pair is already assigned
func (r *DBProjectActivityRepository) ExistsPair(ctx context.Context, projectID, activityID int) (bool, error) {
	query := database.ConvertPlaceholders(`
		SELECT 1 FROM project_activity WHERE project_id = $1 AND activity_id = $2 LIMIT 1`)

	var one int
	err := r.db.QueryRowContext(ctx, query, projectID, activityID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts an assignment and fills in its new ID
func (r *DBProjectActivityRepository) Create(ctx context.Context, pa *models.ProjectActivity) error {
	query := `INSERT INTO project_activity (project_id, activity_id) VALUES ($1, $2)`
	args := []any{pa.ProjectID, pa.ActivityID}

	if database.IsPostgreSQL() {
		return r.db.QueryRowContext(ctx, query+` RETURNING id`, args...).Scan(&pa.ID)
	}

	res, err := r.db.ExecContext(ctx, database.ConvertPlaceholders(query), args...)
	if err != nil {
		return fmt.Errorf("failed to insert project activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	pa.ID = int(id)
	return nil
}

// Delete removes an assignment
func (r *DBProjectActivityRepository) Delete(ctx context.Context, id int) error {
	query := database.ConvertPlaceholders(`DELETE FROM project_activity WHERE id = $1`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("project activity %d: %w", id, ErrNotFound)
	}
	return nil
}
