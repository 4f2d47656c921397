package repositories

import (
	"context"
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/database"
	"github.com/dtb-bank/core-banking/pkg/models"
	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CardRepository defines the store operations for cards.
type CardRepository interface {
	Create(ctx context.Context, tx pgx.Tx, card models.Card) (pgconn.CommandTag, error)
	// FindByID finds a live card by ID.
	FindByID(ctx context.Context, cardID uuid.UUID) (models.Card, error)
	// ExistsByAccountAndType checks the one-live-card-per-(account, type)
	// invariant. It runs on the given tx so the check and the following
	// insert are one atomic unit.
	ExistsByAccountAndType(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, cardType pkg.CardType) (bool, error)
	UpdateAlias(ctx context.Context, tx pgx.Tx, cardID uuid.UUID, alias string) (int64, error)
	SoftDelete(ctx context.Context, tx pgx.Tx, cardID uuid.UUID, at time.Time) (int64, error)
	// Search filters live cards by optional alias substring, type, and exact
	// PAN suffix.
	Search(ctx context.Context, alias string, cardType *pkg.CardType, panSuffix string, page paging.Request) ([]models.Card, int64, error)
	// DistinctAccountIDs resolves a case-insensitive alias substring to the
	// distinct account ids of matching live cards. Pagination applies to the
	// deduplicated id set, not the underlying card rows, and the ordering is
	// stable (by account id) for a fixed snapshot.
	DistinctAccountIDs(ctx context.Context, alias string, page paging.Request) ([]uuid.UUID, int64, error)
}

type CardRepositoryImpl struct {
	db *database.DB
}

func NewCardRepository(db *database.DB) CardRepository {
	return &CardRepositoryImpl{db: db}
}

const cardColumns = `card_id, card_alias, account_id, card_type, pan, pan_suffix, cvv, created_at, updated_at, deleted, deleted_at`

func (r CardRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, card models.Card) (pgconn.CommandTag, error) {
	return tx.Exec(ctx, `INSERT INTO cards (card_id, card_alias, account_id, card_type, pan, pan_suffix, cvv, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		card.ID, card.Alias, card.AccountID, card.CardType, card.Pan, card.PanSuffix, card.Cvv, card.CreatedAt)
}

func (r CardRepositoryImpl) FindByID(ctx context.Context, cardID uuid.UUID) (models.Card, error) {
	var c models.Card
	err := r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE card_id = $1 AND `+notDeleted,
		cardID,
	).Scan(&c.ID, &c.Alias, &c.AccountID, &c.CardType, &c.Pan, &c.PanSuffix, &c.Cvv, &c.CreatedAt, &c.UpdatedAt, &c.Deleted, &c.DeletedAt)
	return c, err
}

func (r CardRepositoryImpl) ExistsByAccountAndType(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, cardType pkg.CardType) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cards WHERE account_id = $1 AND card_type = $2 AND `+notDeleted+`)`,
		accountID, cardType,
	).Scan(&exists)
	return exists, err
}

func (r CardRepositoryImpl) UpdateAlias(ctx context.Context, tx pgx.Tx, cardID uuid.UUID, alias string) (int64, error) {
	tag, err := tx.Exec(ctx, `UPDATE cards SET card_alias = $2, updated_at = $3 WHERE card_id = $1 AND `+notDeleted,
		cardID, alias, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r CardRepositoryImpl) SoftDelete(ctx context.Context, tx pgx.Tx, cardID uuid.UUID, at time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `UPDATE cards SET deleted = TRUE, deleted_at = $2 WHERE card_id = $1 AND `+notDeleted,
		cardID, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r CardRepositoryImpl) Search(ctx context.Context, alias string, cardType *pkg.CardType, panSuffix string, page paging.Request) ([]models.Card, int64, error) {
	const filter = `($1 = '' OR lower(card_alias) LIKE '%' || lower($1) || '%')
		AND ($2::text IS NULL OR card_type = $2)
		AND ($3 = '' OR pan_suffix = $3)
		AND ` + notDeleted

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE `+filter,
		alias, cardType, panSuffix,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+cardColumns+` FROM cards WHERE `+filter+`
		ORDER BY card_id LIMIT $4 OFFSET $5`,
		alias, cardType, panSuffix, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err = rows.Scan(&c.ID, &c.Alias, &c.AccountID, &c.CardType, &c.Pan, &c.PanSuffix, &c.Cvv, &c.CreatedAt, &c.UpdatedAt, &c.Deleted, &c.DeletedAt); err != nil {
			return nil, 0, err
		}
		cards = append(cards, c)
	}
	return cards, total, rows.Err()
}

func (r CardRepositoryImpl) DistinctAccountIDs(ctx context.Context, alias string, page paging.Request) ([]uuid.UUID, int64, error) {
	const filter = `lower(card_alias) LIKE '%' || lower($1) || '%' AND ` + notDeleted

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT account_id) FROM cards WHERE `+filter,
		alias,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Deduplicate first, then page, so a page always holds up to Size
	// distinct ids.
	rows, err := r.db.Query(ctx, `SELECT DISTINCT account_id FROM cards WHERE `+filter+`
		ORDER BY account_id LIMIT $2 OFFSET $3`,
		alias, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err = rows.Scan(&id); err != nil {
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	return ids, total, rows.Err()
}
