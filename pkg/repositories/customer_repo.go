package repositories

import (
	"context"
	"time"

	"github.com/dtb-bank/core-banking/pkg/database"
	"github.com/dtb-bank/core-banking/pkg/models"
	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CustomerRepository defines the store operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, tx pgx.Tx, customer models.Customer) (pgconn.CommandTag, error)
	// FindByID finds a live customer by ID.
	FindByID(ctx context.Context, customerID uuid.UUID) (models.Customer, error)
	ExistsByID(ctx context.Context, customerID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx pgx.Tx, customer models.Customer) (pgconn.CommandTag, error)
	// SoftDelete marks a live customer deleted; returns the number of rows
	// affected (zero when the id is missing or already deleted).
	SoftDelete(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, at time.Time) (int64, error)
	// Search matches name fragments against first/last/other names of live
	// customers, optionally bounded by creation time.
	Search(ctx context.Context, name string, from, to *time.Time, page paging.Request) ([]models.Customer, int64, error)
}

type CustomerRepositoryImpl struct {
	db *database.DB
}

func NewCustomerRepository(db *database.DB) CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

const customerColumns = `customer_id, first_name, last_name, other_name, created_at, updated_at, deleted, deleted_at`

func (r CustomerRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, customer models.Customer) (pgconn.CommandTag, error) {
	return tx.Exec(ctx, `INSERT INTO customers (customer_id, first_name, last_name, other_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		customer.ID, customer.FirstName, customer.LastName, customer.OtherName, customer.CreatedAt)
}

func (r CustomerRepositoryImpl) FindByID(ctx context.Context, customerID uuid.UUID) (models.Customer, error) {
	var c models.Customer
	err := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = $1 AND `+notDeleted,
		customerID,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.OtherName, &c.CreatedAt, &c.UpdatedAt, &c.Deleted, &c.DeletedAt)
	return c, err
}

func (r CustomerRepositoryImpl) ExistsByID(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE customer_id = $1 AND `+notDeleted+`)`,
		customerID,
	).Scan(&exists)
	return exists, err
}

func (r CustomerRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, customer models.Customer) (pgconn.CommandTag, error) {
	return tx.Exec(ctx, `UPDATE customers SET first_name = $2, last_name = $3, other_name = $4, updated_at = $5
		WHERE customer_id = $1 AND `+notDeleted,
		customer.ID, customer.FirstName, customer.LastName, customer.OtherName, time.Now())
}

func (r CustomerRepositoryImpl) SoftDelete(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, at time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `UPDATE customers SET deleted = TRUE, deleted_at = $2 WHERE customer_id = $1 AND `+notDeleted,
		customerID, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r CustomerRepositoryImpl) Search(ctx context.Context, name string, from, to *time.Time, page paging.Request) ([]models.Customer, int64, error) {
	const filter = `($1 = '' OR lower(first_name) LIKE '%' || lower($1) || '%'
			OR lower(last_name) LIKE '%' || lower($1) || '%'
			OR lower(COALESCE(other_name, '')) LIKE '%' || lower($1) || '%')
		AND ($2::timestamptz IS NULL OR created_at >= $2)
		AND ($3::timestamptz IS NULL OR created_at <= $3)
		AND ` + notDeleted

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE `+filter,
		name, from, to,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE `+filter+`
		ORDER BY customer_id LIMIT $4 OFFSET $5`,
		name, from, to, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err = rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.OtherName, &c.CreatedAt, &c.UpdatedAt, &c.Deleted, &c.DeletedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}
