package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// DBTicketSystemRepository handles database operations for ticket system configurations
type DBTicketSystemRepository struct {
	db *sql.DB
}

// NewDBTicketSystemRepository creates a new ticket system repository
func NewDBTicketSystemRepository(db *sql.DB) *DBTicketSystemRepository {
	return &DBTicketSystemRepository{db: db}
}

const ticketSystemColumns = `id, type, name, username, secret, url`

func scanTicketSystem(row interface{ Scan(...any) error }) (*models.TicketSystem, error) {
	var ts models.TicketSystem
	var url sql.NullString
	err := row.Scan(&ts.ID, &ts.Type, &ts.Name, &ts.Username, &ts.Secret, &url)
	if err != nil {
		return nil, err
	}
	ts.URL = url.String
	return &ts, nil
}

// GetByID retrieves a ticket system by ID
func (r *DBTicketSystemRepository) GetByID(ctx context.Context, id int) (*models.TicketSystem, error) {
	query := database.ConvertPlaceholders(`
		SELECT ` + ticketSystemColumns + ` FROM ticket_system WHERE id = $1`)

	ts, err := scanTicketSystem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ticket system %d: %w", id, ErrNotFound)
	}
	return ts, err
}

// List retrieves all ticket systems ordered by ID
func (r *DBTicketSystemRepository) List(ctx context.Context) ([]*models.TicketSystem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ticketSystemColumns+` FROM ticket_system ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var systems []*models.TicketSystem
	for rows.Next() {
		ts, err := scanTicketSystem(rows)
		if err != nil {
			return nil, err
		}
		systems = append(systems, ts)
	}
	return systems, rows.Err()
}

// Create inserts a ticket system and fills in its new ID
func (r *DBTicketSystemRepository) Create(ctx context.Context, ts *models.TicketSystem) error {
	query := `INSERT INTO ticket_system (type, name, username, secret, url) VALUES ($1, $2, $3, $4, $5)`
	args := []any{ts.Type, ts.Name, ts.Username, ts.Secret, ts.URL}

	if database.IsPostgreSQL() {
		return r.db.QueryRowContext(ctx, query+` RETURNING id`, args...).Scan(&ts.ID)
	}

	res, err := r.db.ExecContext(ctx, database.ConvertPlaceholders(query), args...)
	if err != nil {
		return fmt.Errorf("failed to insert ticket system: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ts.ID = int(id)
	return nil
}

// Update rewrites a ticket system configuration
func (r *DBTicketSystemRepository) Update(ctx context.Context, ts *models.TicketSystem) error {
	query := database.ConvertPlaceholders(`
		UPDATE ticket_system
		SET type = $1, name = $2, username = $3, secret = $4, url = $5
		WHERE id = $6`)

	res, err := r.db.ExecContext(ctx, query, ts.Type, ts.Name, ts.Username, ts.Secret, ts.URL, ts.ID)
	if err != nil {
		return fmt.Errorf("failed to update ticket system: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("ticket system %d: %w", ts.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a ticket system configuration
func (r *DBTicketSystemRepository) Delete(ctx context.Context, id int) error {
	query := database.ConvertPlaceholders(`DELETE FROM ticket_system WHERE id = $1`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket system: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("ticket system %d: %w", id, ErrNotFound)
	}
	return nil
}
