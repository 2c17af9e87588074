package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// DBCustomerRepository handles database operations for customers
type DBCustomerRepository struct {
	db *sql.DB
}

// NewDBCustomerRepository creates a new customer repository
func NewDBCustomerRepository(db *sql.DB) *DBCustomerRepository {
	return &DBCustomerRepository{db: db}
}

// GetByID retrieves a customer by ID
func (r *DBCustomerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	query := database.ConvertPlaceholders(`SELECT id, name FROM customer WHERE id = $1`)

	var c models.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List retrieves all customers ordered by ID
func (r *DBCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM customer ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

// Create inserts a customer and fills in its new ID
func (r *DBCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `INSERT INTO customer (name) VALUES ($1)`

	if database.IsPostgreSQL() {
		return r.db.QueryRowContext(ctx, query+` RETURNING id`, customer.Name).Scan(&customer.ID)
	}

	res, err := r.db.ExecContext(ctx, database.ConvertPlaceholders(query), customer.Name)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	customer.ID = int(id)
	return nil
}

// Update renames a customer
func (r *DBCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := database.ConvertPlaceholders(`UPDATE customer SET name = $1 WHERE id = $2`)

	res, err := r.db.ExecContext(ctx, query, customer.Name, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("customer %d: %w", customer.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a customer
func (r *DBCustomerRepository) Delete(ctx context.Context, id int) error {
	query := database.ConvertPlaceholders(`DELETE FROM customer WHERE id = $1`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}
