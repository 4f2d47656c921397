package services

import (
	"context"
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/crypto"
	"github.com/dtb-bank/core-banking/pkg/database"
	"github.com/dtb-bank/core-banking/pkg/events"
	"github.com/dtb-bank/core-banking/pkg/masking"
	"github.com/dtb-bank/core-banking/pkg/models"
	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/dtb-bank/core-banking/pkg/repositories"
	"github.com/dtb-bank/core-banking/services/card-api/internal/clients"
	"github.com/dtb-bank/core-banking/services/card-api/internal/views"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CardService interface {
	Create(ctx context.Context, traceID string, req views.CreateCardRequest) (uuid.UUID, error)
	// GetByID returns the card with PAN and CVV masked unless reveal is set.
	GetByID(ctx context.Context, traceID string, cardID uuid.UUID, reveal bool) (views.CardResponse, error)
	UpdateAlias(ctx context.Context, traceID string, req views.UpdateCardRequest) error
	Delete(ctx context.Context, traceID string, cardID uuid.UUID) error
	Search(ctx context.Context, traceID string, alias string, cardType *pkg.CardType, panSuffix string, reveal bool, page paging.Request) (paging.Page[views.CardResponse], error)
	// AccountIDs resolves an alias substring to the distinct account ids of
	// matching live cards. It backs the account-api search federation.
	AccountIDs(ctx context.Context, traceID string, alias string, page paging.Request) (paging.Page[uuid.UUID], error)
}

type CardServiceImpl struct {
	logger    *zap.Logger
	db        database.TxRunner
	repo      repositories.CardRepository
	accounts  clients.AccountClient
	codec     *crypto.FieldCodec
	publisher events.Publisher
}

func NewCardService(
	logger *zap.Logger,
	db database.TxRunner,
	repo repositories.CardRepository,
	accounts clients.AccountClient,
	codec *crypto.FieldCodec,
	publisher events.Publisher,
) CardService {
	return &CardServiceImpl{
		logger:    logger,
		db:        db,
		repo:      repo,
		accounts:  accounts,
		codec:     codec,
		publisher: publisher,
	}
}

func (s *CardServiceImpl) Create(ctx context.Context, traceID string, req views.CreateCardRequest) (uuid.UUID, error) {
	cardType, ok := pkg.ParseCardType(req.CardType)
	if !ok {
		return uuid.Nil, pkg.NewAppError(pkg.ErrInvalidInputCode, "card type must be VIRTUAL or PHYSICAL", nil)
	}

	// Remote validation first: an unreachable account service surfaces as an
	// upstream error, not as "account not found".
	exists, err := s.accounts.Exists(ctx, traceID, req.AccountID)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, pkg.NewAppError(pkg.ErrNotFoundCode, "account not found", nil)
	}

	// Encrypt before opening the transaction; a crypto failure must never
	// leave a partially written row.
	encPan, err := s.codec.Encrypt(req.Pan)
	if err != nil {
		return uuid.Nil, err
	}
	encCvv, err := s.codec.Encrypt(req.Cvv)
	if err != nil {
		return uuid.Nil, err
	}

	card := models.Card{
		ID:        uuid.New(),
		Alias:     req.CardAlias,
		AccountID: req.AccountID,
		CardType:  cardType,
		Pan:       encPan,
		PanSuffix: req.Pan[len(req.Pan)-4:],
		Cvv:       encCvv,
		CreatedAt: time.Now(),
	}

	// Uniqueness check and insert are one atomic unit; the partial unique
	// index on live (account, type) pairs backstops concurrent creates.
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		taken, err := s.repo.ExistsByAccountAndType(ctx, tx, req.AccountID, cardType)
		if err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		if taken {
			return pkg.NewAppError(pkg.ErrAlreadyExistsCode, "the account already has a live card of that type", nil)
		}
		if _, err = s.repo.Create(ctx, tx, card); err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("card created",
		zap.String(pkg.TraceId, traceID),
		zap.String("cardId", card.ID.String()),
		zap.String("accountId", card.AccountID.String()),
		zap.String("cardType", string(card.CardType)),
	)
	s.publisher.Publish(events.EntityEvent{
		Type:       pkg.EventCardCreated,
		EntityID:   card.ID,
		TraceID:    traceID,
		OccurredAt: card.CreatedAt,
	})
	return card.ID, nil
}

func (s *CardServiceImpl) GetByID(ctx context.Context, traceID string, cardID uuid.UUID, reveal bool) (views.CardResponse, error) {
	card, err := s.repo.FindByID(ctx, cardID)
	if err != nil {
		return views.CardResponse{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return s.toCardResponse(card, reveal)
}

func (s *CardServiceImpl) UpdateAlias(ctx context.Context, traceID string, req views.UpdateCardRequest) error {
	var affected int64
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		affected, err = s.repo.UpdateAlias(ctx, tx, req.CardID, req.CardAlias)
		return err
	})
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	if affected == 0 {
		return pkg.NewAppError(pkg.ErrNotFoundCode, "card not found", nil)
	}
	s.logger.Info("card alias updated",
		zap.String(pkg.TraceId, traceID),
		zap.String("cardId", req.CardID.String()),
	)
	return nil
}

func (s *CardServiceImpl) Delete(ctx context.Context, traceID string, cardID uuid.UUID) error {
	deletedAt := time.Now()
	var affected int64
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		affected, err = s.repo.SoftDelete(ctx, tx, cardID, deletedAt)
		return err
	})
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	if affected == 0 {
		return pkg.NewAppError(pkg.ErrNotFoundCode, "card not found", nil)
	}

	s.logger.Info("card deleted",
		zap.String(pkg.TraceId, traceID),
		zap.String("cardId", cardID.String()),
	)
	s.publisher.Publish(events.EntityEvent{
		Type:       pkg.EventCardDeleted,
		EntityID:   cardID,
		TraceID:    traceID,
		OccurredAt: deletedAt,
	})
	return nil
}

func (s *CardServiceImpl) Search(ctx context.Context, traceID string, alias string, cardType *pkg.CardType, panSuffix string, reveal bool, page paging.Request) (paging.Page[views.CardResponse], error) {
	var zero paging.Page[views.CardResponse]

	cards, total, err := s.repo.Search(ctx, alias, cardType, panSuffix, page)
	if err != nil {
		return zero, pkg.HandleSQLError(traceID, s.logger, err)
	}

	responses := make([]views.CardResponse, 0, len(cards))
	for _, card := range cards {
		resp, err := s.toCardResponse(card, reveal)
		if err != nil {
			return zero, err
		}
		responses = append(responses, resp)
	}
	return paging.NewPage(responses, page, total), nil
}

func (s *CardServiceImpl) AccountIDs(ctx context.Context, traceID string, alias string, page paging.Request) (paging.Page[uuid.UUID], error) {
	var zero paging.Page[uuid.UUID]
	if alias == "" {
		return zero, pkg.NewAppError(pkg.ErrInvalidInputCode, "alias must not be empty", nil)
	}

	ids, total, err := s.repo.DistinctAccountIDs(ctx, alias, page)
	if err != nil {
		return zero, pkg.HandleSQLError(traceID, s.logger, err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return paging.NewPage(ids, page, total), nil
}

// toCardResponse decrypts the stored ciphertext and either masks the result
// or, when reveal is set, returns it in full. Ciphertext never leaves the
// service either way.
func (s *CardServiceImpl) toCardResponse(card models.Card, reveal bool) (views.CardResponse, error) {
	pan, err := s.codec.Decrypt(card.Pan)
	if err != nil {
		return views.CardResponse{}, err
	}
	cvv, err := s.codec.Decrypt(card.Cvv)
	if err != nil {
		return views.CardResponse{}, err
	}
	if !reveal {
		pan = masking.MaskPan(pan)
		cvv = masking.MaskCvv(cvv)
	}
	return views.CardResponse{
		CardID:    card.ID,
		AccountID: card.AccountID,
		CardAlias: card.Alias,
		CardType:  card.CardType,
		Pan:       pan,
		Cvv:       cvv,
	}, nil
}
