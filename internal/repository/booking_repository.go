package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// DBBookingRepository handles database operations for time bookings
type DBBookingRepository struct {
	db *sql.DB
}

// NewDBBookingRepository creates a new booking repository
func NewDBBookingRepository(db *sql.DB) *DBBookingRepository {
	return &DBBookingRepository{db: db}
}

const bookingColumns = `id, project_id, activity_id, user_id, started_at, ended_at,
	ticket_number, duration_minutes, worklog_id`

func scanBooking(row interface{ Scan(...any) error }) (*models.TimeBooking, error) {
	var b models.TimeBooking
	err := row.Scan(
		&b.ID,
		&b.ProjectID,
		&b.ActivityID,
		&b.UserID,
		&b.StartedAt,
		&b.EndedAt,
		&b.TicketNumber,
		&b.DurationMinutes,
		&b.WorklogID,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID retrieves a booking by ID
func (r *DBBookingRepository) GetByID(ctx context.Context, id int) (*models.TimeBooking, error) {
	query := database.ConvertPlaceholders(`
		SELECT ` + bookingColumns + `
		FROM time_booking
		WHERE id = $1`)

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return b, err
}

// GetByIDForUser retrieves a booking by ID scoped to the owning user
func (r *DBBookingRepository) GetByIDForUser(ctx context.Context, id, userID int) (*models.TimeBooking, error) {
	query := database.ConvertPlaceholders(`
		SELECT ` + bookingColumns + `
		FROM time_booking
		WHERE id = $1 AND user_id = $2`)

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return b, err
}

// List retrieves bookings ordered by start time descending, newest first.
// When userID is non-nil only that user's bookings are returned.
func (r *DBBookingRepository) List(ctx context.Context, userID *int) ([]*models.TimeBooking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM time_booking`
	var args []any
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY started_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, database.ConvertPlaceholders(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.TimeBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Create inserts a booking inside a transaction and fills in its new ID
func (r *DBBookingRepository) Create(ctx context.Context, booking *models.TimeBooking) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO time_booking
				(project_id, activity_id, user_id, started_at, ended_at,
				 ticket_number, duration_minutes, worklog_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		args := []any{
			booking.ProjectID,
			booking.ActivityID,
			booking.UserID,
			booking.StartedAt,
			booking.EndedAt,
			booking.TicketNumber,
			booking.DurationMinutes,
			booking.WorklogID,
		}

		// lib/pq does not support LastInsertId
		if database.IsPostgreSQL() {
			return tx.QueryRowContext(ctx, query+` RETURNING id`, args...).Scan(&booking.ID)
		}

		res, err := tx.ExecContext(ctx, database.ConvertPlaceholders(query), args...)
		if err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		booking.ID = int(id)
		return nil
	})
}

// Update rewrites all mutable fields of a booking inside a transaction so
// partial field writes cannot be observed
func (r *DBBookingRepository) Update(ctx context.Context, booking *models.TimeBooking) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		query := database.ConvertPlaceholders(`
			UPDATE time_booking
			SET project_id = $1, activity_id = $2, started_at = $3, ended_at = $4,
				ticket_number = $5, duration_minutes = $6, worklog_id = $7
			WHERE id = $8`)

		res, err := tx.ExecContext(ctx, query,
			booking.ProjectID,
			booking.ActivityID,
			booking.StartedAt,
			booking.EndedAt,
			booking.TicketNumber,
			booking.DurationMinutes,
			booking.WorklogID,
			booking.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		n, err := res.RowsAffected()
		if err == nil && n == 0 {
			return fmt.Errorf("booking %d: %w", booking.ID, ErrNotFound)
		}
		return nil
	})
}

// Delete removes a booking inside a transaction
func (r *DBBookingRepository) Delete(ctx context.Context, id int) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		query := database.ConvertPlaceholders(`DELETE FROM time_booking WHERE id = $1`)
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		n, err := res.RowsAffected()
		if err == nil && n == 0 {
			return fmt.Errorf("booking %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// ExistsOverlap reports whether a booking of the same user and project has an
// interval intersecting [start, end). Intervals are half-open: two bookings
// that merely touch do not overlap.
func (r *DBBookingRepository) ExistsOverlap(ctx context.Context, userID, projectID int, start, end time.Time, excludeID *int) (bool, error) {
	query := `
		SELECT 1
		FROM time_booking
		WHERE user_id = $1 AND project_id = $2
		  AND started_at < $3 AND ended_at > $4`
	args := []any{userID, projectID, end, start}
	if excludeID != nil {
		query += ` AND id <> $5`
		args = append(args, *excludeID)
	}
	query += ` LIMIT 1`

	var one int
	err := r.db.QueryRowContext(ctx, database.ConvertPlaceholders(query), args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SumMinutesByProject returns the total booked minutes for a project
func (r *DBBookingRepository) SumMinutesByProject(ctx context.Context, projectID int) (int, error) {
	query := database.ConvertPlaceholders(`
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM time_booking
		WHERE project_id = $1`)

	var minutes int
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// AggregateByProjectInRange sums booked minutes per project for bookings
// starting in [start, end), joined with the project billing fields.
func (r *DBBookingRepository) AggregateByProjectInRange(ctx context.Context, start, end time.Time) ([]*models.ProjectMinutes, error) {
	query := database.ConvertPlaceholders(`
		SELECT p.id, p.name, COALESCE(SUM(tb.duration_minutes), 0), p.budget_type, p.hourly_rate
		FROM time_booking tb
		JOIN project p ON p.id = tb.project_id
		WHERE tb.started_at >= $1 AND tb.started_at < $2
		GROUP BY p.id, p.name, p.budget_type, p.hourly_rate
		ORDER BY p.name`)

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.ProjectMinutes
	for rows.Next() {
		var pm models.ProjectMinutes
		var rate decimal.NullDecimal
		if err := rows.Scan(&pm.ProjectID, &pm.ProjectName, &pm.Minutes, &pm.BudgetType, &rate); err != nil {
			return nil, err
		}
		if rate.Valid {
			pm.HourlyRate = &rate.Decimal
		}
		result = append(result, &pm)
	}
	return result, rows.Err()
}
