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
	"github.com/dtb-bank/core-banking/services/customer-api/internal/views"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CustomerService interface {
	Create(ctx context.Context, traceID string, req views.CreateCustomerRequest) (uuid.UUID, error)
	GetByID(ctx context.Context, traceID string, customerID uuid.UUID) (views.CustomerResponse, error)
	Update(ctx context.Context, traceID string, req views.UpdateCustomerRequest) error
	Delete(ctx context.Context, traceID string, customerID uuid.UUID) error
	// Exists backs the remote existence check consumed by account-api.
	Exists(ctx context.Context, traceID string, customerID uuid.UUID) (bool, error)
	Search(ctx context.Context, traceID string, name string, from, to *time.Time, page paging.Request) (paging.Page[views.CustomerResponse], error)
}

type CustomerServiceImpl struct {
	logger    *zap.Logger
	db        database.TxRunner
	repo      repositories.CustomerRepository
	publisher events.Publisher
}

func NewCustomerService(logger *zap.Logger, db database.TxRunner, repo repositories.CustomerRepository, publisher events.Publisher) CustomerService {
	return &CustomerServiceImpl{logger: logger, db: db, repo: repo, publisher: publisher}
}

func (s *CustomerServiceImpl) Create(ctx context.Context, traceID string, req views.CreateCustomerRequest) (uuid.UUID, error) {
	customer := models.Customer{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		OtherName: req.OtherName,
		CreatedAt: time.Now(),
	}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := s.repo.Create(ctx, tx, customer)
		return err
	})
	if err != nil {
		return uuid.Nil, pkg.HandleSQLError(traceID, s.logger, err)
	}

	s.logger.Info("customer created",
		zap.String(pkg.TraceId, traceID),
		zap.String("customerId", customer.ID.String()),
	)
	s.publisher.Publish(events.EntityEvent{
		Type:       pkg.EventCustomerCreated,
		EntityID:   customer.ID,
		TraceID:    traceID,
		OccurredAt: customer.CreatedAt,
	})
	return customer.ID, nil
}

func (s *CustomerServiceImpl) GetByID(ctx context.Context, traceID string, customerID uuid.UUID) (views.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return views.CustomerResponse{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return toCustomerResponse(customer), nil
}

func (s *CustomerServiceImpl) Update(ctx context.Context, traceID string, req views.UpdateCustomerRequest) error {
	customer, err := s.repo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.OtherName != nil {
		customer.OtherName = req.OtherName
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := s.repo.Update(ctx, tx, customer)
		return err
	})
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	s.logger.Info("customer updated",
		zap.String(pkg.TraceId, traceID),
		zap.String("customerId", customer.ID.String()),
	)
	return nil
}

func (s *CustomerServiceImpl) Delete(ctx context.Context, traceID string, customerID uuid.UUID) error {
	deletedAt := time.Now()
	var affected int64
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		affected, err = s.repo.SoftDelete(ctx, tx, customerID, deletedAt)
		return err
	})
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	// Deleting an already-deleted row is indistinguishable from a missing id.
	if affected == 0 {
		return pkg.NewAppError(pkg.ErrNotFoundCode, "customer not found", nil)
	}

	s.logger.Info("customer deleted",
		zap.String(pkg.TraceId, traceID),
		zap.String("customerId", customerID.String()),
	)
	s.publisher.Publish(events.EntityEvent{
		Type:       pkg.EventCustomerDeleted,
		EntityID:   customerID,
		TraceID:    traceID,
		OccurredAt: deletedAt,
	})
	return nil
}

func (s *CustomerServiceImpl) Exists(ctx context.Context, traceID string, customerID uuid.UUID) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, customerID)
	if err != nil {
		return false, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return exists, nil
}

func (s *CustomerServiceImpl) Search(ctx context.Context, traceID string, name string, from, to *time.Time, page paging.Request) (paging.Page[views.CustomerResponse], error) {
	customers, total, err := s.repo.Search(ctx, name, from, to, page)
	if err != nil {
		return paging.Page[views.CustomerResponse]{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return paging.Map(paging.NewPage(customers, page, total), toCustomerResponse), nil
}

func toCustomerResponse(c models.Customer) views.CustomerResponse {
	return views.CustomerResponse{
		CustomerID: c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		OtherName:  c.OtherName,
		CreatedAt:  c.CreatedAt,
	}
}
