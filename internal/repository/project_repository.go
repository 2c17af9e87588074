package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// DBProjectRepository handles database operations for projects
type DBProjectRepository struct {
	db *sql.DB
}

// NewDBProjectRepository creates a new project repository
func NewDBProjectRepository(db *sql.DB) *DBProjectRepository {
	return &DBProjectRepository{db: db}
}

const projectColumns = `id, name, customer_id, ticket_system_id, external_ticket_url,
	external_ticket_login, external_ticket_credentials, budget_type, budget, hourly_rate`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	var budget, rate decimal.NullDecimal
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.CustomerID,
		&p.TicketSystemID,
		&p.ExternalTicketURL,
		&p.ExternalTicketLogin,
		&p.ExternalTicketCredentials,
		&p.BudgetType,
		&budget,
		&rate,
	)
	if err != nil {
		return nil, err
	}
	if budget.Valid {
		p.Budget = &budget.Decimal
	}
	if rate.Valid {
		p.HourlyRate = &rate.Decimal
	}
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// GetByID retrieves a project by ID
func (r *DBProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	query := database.ConvertPlaceholders(`
		SELECT ` + projectColumns + `
		FROM project
		WHERE id = $1`)

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, err
}

// List retrieves all projects ordered by ID
func (r *DBProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM project
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Create inserts a project and fills in its new ID
func (r *DBProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO project
			(name, customer_id, ticket_system_id, external_ticket_url,
			 external_ticket_login, external_ticket_credentials,
			 budget_type, budget, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	args := []any{
		project.Name,
		project.CustomerID,
		project.TicketSystemID,
		project.ExternalTicketURL,
		project.ExternalTicketLogin,
		project.ExternalTicketCredentials,
		project.BudgetType,
		nullDecimal(project.Budget),
		nullDecimal(project.HourlyRate),
	}

	if database.IsPostgreSQL() {
		return r.db.QueryRowContext(ctx, query+` RETURNING id`, args...).Scan(&project.ID)
	}

	res, err := r.db.ExecContext(ctx, database.ConvertPlaceholders(query), args...)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = int(id)
	return nil
}

// Update rewrites all mutable fields of a project
func (r *DBProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := database.ConvertPlaceholders(`
		UPDATE project
		SET name = $1, customer_id = $2, ticket_system_id = $3,
			external_ticket_url = $4, external_ticket_login = $5,
			external_ticket_credentials = $6, budget_type = $7,
			budget = $8, hourly_rate = $9
		WHERE id = $10`)

	res, err := r.db.ExecContext(ctx, query,
		project.Name,
		project.CustomerID,
		project.TicketSystemID,
		project.ExternalTicketURL,
		project.ExternalTicketLogin,
		project.ExternalTicketCredentials,
		project.BudgetType,
		nullDecimal(project.Budget),
		nullDecimal(project.HourlyRate),
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("project %d: %w", project.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a project and its bookings and activity assignments
func (r *DBProjectRepository) Delete(ctx context.Context, id int) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM time_booking WHERE project_id = $1`,
			`DELETE FROM project_activity WHERE project_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, database.ConvertPlaceholders(q), id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, database.ConvertPlaceholders(`DELETE FROM project WHERE id = $1`), id)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		n, err := res.RowsAffected()
		if err == nil && n == 0 {
			return fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
