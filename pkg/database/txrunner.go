package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRunner is the slice of DB that services need for transactional writes.
// *DB satisfies it; tests substitute a fake.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}
