package services

import (
	"context"
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/database"
	"github.com/dtb-bank/core-banking/pkg/events"
	"github.com/dtb-bank/core-banking/pkg/models"
	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/dtb-bank/core-banking/pkg/repositories"
	"github.com/dtb-bank/core-banking/services/account-api/internal/clients"
	"github.com/dtb-bank/core-banking/services/account-api/internal/views"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AccountService interface {
	Create(ctx context.Context, traceID string, req views.CreateAccountRequest) (uuid.UUID, error)
	GetByID(ctx context.Context, traceID string, accountID uuid.UUID) (views.AccountResponse, error)
	Update(ctx context.Context, traceID string, req views.UpdateAccountRequest) error
	Delete(ctx context.Context, traceID string, accountID uuid.UUID) error
	// Exists backs the remote existence check consumed by card-api.
	Exists(ctx context.Context, traceID string, accountID uuid.UUID) (bool, error)
	// Search federates an optional card-alias filter with native IBAN/BIC
	// predicates. All filters AND together.
	Search(ctx context.Context, traceID string, iban, bicSwift *string, cardAlias string, page paging.Request) (paging.Page[views.AccountResponse], error)
}

type AccountServiceImpl struct {
	logger    *zap.Logger
	db        database.TxRunner
	repo      repositories.AccountRepository
	customers clients.CustomerClient
	cards     clients.CardClient
	publisher events.Publisher
}

func NewAccountService(
	logger *zap.Logger,
	db database.TxRunner,
	repo repositories.AccountRepository,
	customers clients.CustomerClient,
	cards clients.CardClient,
	publisher events.Publisher,
) AccountService {
	return &AccountServiceImpl{
		logger:    logger,
		db:        db,
		repo:      repo,
		customers: customers,
		cards:     cards,
		publisher: publisher,
	}
}

func (s *AccountServiceImpl) Create(ctx context.Context, traceID string, req views.CreateAccountRequest) (uuid.UUID, error) {
	// Remote validation first: an unreachable customer service surfaces as
	// an upstream error, not as "customer not found".
	exists, err := s.customers.Exists(ctx, traceID, req.CustomerID)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, pkg.NewAppError(pkg.ErrNotFoundCode, "customer not found", nil)
	}

	account := models.Account{
		ID:         uuid.New(),
		CustomerID: req.CustomerID,
		Iban:       req.Iban,
		BicSwift:   req.BicSwift,
		CreatedAt:  time.Now(),
	}

	// Uniqueness check and insert are one atomic unit; the partial unique
	// index on live IBANs backstops concurrent creates.
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		taken, err := s.repo.ExistsByIban(ctx, tx, req.Iban)
		if err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		if taken {
			return pkg.NewAppError(pkg.ErrAlreadyExistsCode, "an account with that iban already exists", nil)
		}
		if _, err = s.repo.Create(ctx, tx, account); err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("account created",
		zap.String(pkg.TraceId, traceID),
		zap.String("accountId", account.ID.String()),
		zap.String("customerId", account.CustomerID.String()),
	)
	s.publisher.Publish(events.EntityEvent{
		Type:       pkg.EventAccountCreated,
		EntityID:   account.ID,
		TraceID:    traceID,
		OccurredAt: account.CreatedAt,
	})
	return account.ID, nil
}

func (s *AccountServiceImpl) GetByID(ctx context.Context, traceID string, accountID uuid.UUID) (views.AccountResponse, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return views.AccountResponse{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return toAccountResponse(account), nil
}

func (s *AccountServiceImpl) Update(ctx context.Context, traceID string, req views.UpdateAccountRequest) error {
	account, err := s.repo.FindByID(ctx, req.AccountID)
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}

	if req.Iban != nil {
		account.Iban = *req.Iban
	}
	if req.BicSwift != nil {
		account.BicSwift = *req.BicSwift
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := s.repo.Update(ctx, tx, account)
		return err
	})
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	s.logger.Info("account updated",
		zap.String(pkg.TraceId, traceID),
		zap.String("accountId", account.ID.String()),
	)
	return nil
}

func (s *AccountServiceImpl) Delete(ctx context.Context, traceID string, accountID uuid.UUID) error {
	deletedAt := time.Now()
	var affected int64
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		affected, err = s.repo.SoftDelete(ctx, tx, accountID, deletedAt)
		return err
	})
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	if affected == 0 {
		return pkg.NewAppError(pkg.ErrNotFoundCode, "account not found", nil)
	}

	s.logger.Info("account deleted",
		zap.String(pkg.TraceId, traceID),
		zap.String("accountId", accountID.String()),
	)
	s.publisher.Publish(events.EntityEvent{
		Type:       pkg.EventAccountDeleted,
		EntityID:   accountID,
		TraceID:    traceID,
		OccurredAt: deletedAt,
	})
	return nil
}

func (s *AccountServiceImpl) Exists(ctx context.Context, traceID string, accountID uuid.UUID) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, accountID)
	if err != nil {
		return false, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return exists, nil
}

func (s *AccountServiceImpl) Search(ctx context.Context, traceID string, iban, bicSwift *string, cardAlias string, page paging.Request) (paging.Page[views.AccountResponse], error) {
	var zero paging.Page[views.AccountResponse]

	restrictIDs := false
	var accountIDs []uuid.UUID
	if cardAlias != "" {
		// Resolver failure is indeterminate and must surface; presenting it
		// as an empty page would be indistinguishable from no matches.
		resolved, err := s.cards.ResolveAccountIDs(ctx, traceID, cardAlias, page)
		if err != nil {
			return zero, err
		}
		restrictIDs = true
		accountIDs = resolved.Content
	}

	// A cancelled request must not run the local query on a partial id set.
	if err := ctx.Err(); err != nil {
		return zero, pkg.NewAppError(pkg.ErrServerCode, "request aborted", err)
	}

	accounts, total, err := s.repo.Search(ctx, iban, bicSwift, restrictIDs, accountIDs, page)
	if err != nil {
		return zero, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return paging.Map(paging.NewPage(accounts, page, total), toAccountResponse), nil
}

func toAccountResponse(a models.Account) views.AccountResponse {
	return views.AccountResponse{
		AccountID:  a.ID,
		CustomerID: a.CustomerID,
		Iban:       a.Iban,
		BicSwift:   a.BicSwift,
	}
}
