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

// AccountRepository defines the store operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account models.Account) (pgconn.CommandTag, error)
	// FindByID finds a live account by ID.
	FindByID(ctx context.Context, accountID uuid.UUID) (models.Account, error)
	ExistsByID(ctx context.Context, accountID uuid.UUID) (bool, error)
	// ExistsByIban checks IBAN uniqueness among live rows. It runs on the
	// given tx so the check and the following insert are one atomic unit.
	ExistsByIban(ctx context.Context, tx pgx.Tx, iban string) (bool, error)
	Update(ctx context.Context, tx pgx.Tx, account models.Account) (pgconn.CommandTag, error)
	SoftDelete(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, at time.Time) (int64, error)
	// Search applies optional IBAN/BIC equality predicates and, when
	// restrictIDs is true, a restriction to the given account-id set.
	// restrictIDs with an empty slice legitimately matches nothing.
	Search(ctx context.Context, iban, bicSwift *string, restrictIDs bool, accountIDs []uuid.UUID, page paging.Request) ([]models.Account, int64, error)
}

type AccountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

const accountColumns = `account_id, customer_id, iban, bic_swift, created_at, updated_at, deleted, deleted_at`

func (r AccountRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, account models.Account) (pgconn.CommandTag, error) {
	return tx.Exec(ctx, `INSERT INTO accounts (account_id, customer_id, iban, bic_swift, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.CustomerID, account.Iban, account.BicSwift, account.CreatedAt)
}

func (r AccountRepositoryImpl) FindByID(ctx context.Context, accountID uuid.UUID) (models.Account, error) {
	var a models.Account
	err := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 AND `+notDeleted,
		accountID,
	).Scan(&a.ID, &a.CustomerID, &a.Iban, &a.BicSwift, &a.CreatedAt, &a.UpdatedAt, &a.Deleted, &a.DeletedAt)
	return a, err
}

func (r AccountRepositoryImpl) ExistsByID(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_id = $1 AND `+notDeleted+`)`,
		accountID,
	).Scan(&exists)
	return exists, err
}

func (r AccountRepositoryImpl) ExistsByIban(ctx context.Context, tx pgx.Tx, iban string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE iban = $1 AND `+notDeleted+`)`,
		iban,
	).Scan(&exists)
	return exists, err
}

func (r AccountRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, account models.Account) (pgconn.CommandTag, error) {
	return tx.Exec(ctx, `UPDATE accounts SET iban = $2, bic_swift = $3, updated_at = $4
		WHERE account_id = $1 AND `+notDeleted,
		account.ID, account.Iban, account.BicSwift, time.Now())
}

func (r AccountRepositoryImpl) SoftDelete(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, at time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `UPDATE accounts SET deleted = TRUE, deleted_at = $2 WHERE account_id = $1 AND `+notDeleted,
		accountID, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r AccountRepositoryImpl) Search(ctx context.Context, iban, bicSwift *string, restrictIDs bool, accountIDs []uuid.UUID, page paging.Request) ([]models.Account, int64, error) {
	const filter = `($1::text IS NULL OR iban = $1)
		AND ($2::text IS NULL OR bic_swift = $2)
		AND (NOT $3::bool OR account_id = ANY($4::uuid[]))
		AND ` + notDeleted

	if accountIDs == nil {
		accountIDs = []uuid.UUID{}
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE `+filter,
		iban, bicSwift, restrictIDs, accountIDs,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+filter+`
		ORDER BY account_id LIMIT $5 OFFSET $6`,
		iban, bicSwift, restrictIDs, accountIDs, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err = rows.Scan(&a.ID, &a.CustomerID, &a.Iban, &a.BicSwift, &a.CreatedAt, &a.UpdatedAt, &a.Deleted, &a.DeletedAt); err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, a)
	}
	return accounts, total, rows.Err()
}
