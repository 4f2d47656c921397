package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/dtb-bank/core-banking/services/account-api/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubAccountService struct {
	lastIban      *string
	lastBicSwift  *string
	lastCardAlias string
	exists        bool
}

func (s *stubAccountService) Create(context.Context, string, views.CreateAccountRequest) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *stubAccountService) GetByID(_ context.Context, _ string, accountID uuid.UUID) (views.AccountResponse, error) {
	return views.AccountResponse{AccountID: accountID}, nil
}

func (s *stubAccountService) Update(context.Context, string, views.UpdateAccountRequest) error {
	return nil
}

func (s *stubAccountService) Delete(context.Context, string, uuid.UUID) error { return nil }

func (s *stubAccountService) Exists(context.Context, string, uuid.UUID) (bool, error) {
	return s.exists, nil
}

func (s *stubAccountService) Search(_ context.Context, _ string, iban, bicSwift *string, cardAlias string, page paging.Request) (paging.Page[views.AccountResponse], error) {
	s.lastIban = iban
	s.lastBicSwift = bicSwift
	s.lastCardAlias = cardAlias
	return paging.NewPage([]views.AccountResponse{}, page, 0), nil
}

func setupAccountRouter(svc *stubAccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/account/api/v1")
	NewAccountHandler(zap.NewNop(), svc).RegisterRoutes(api)
	return r
}

func TestFilterAccountsOmittedParamsAreNil(t *testing.T) {
	svc := &stubAccountService{}
	r := setupAccountRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/api/v1/filter/accounts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.lastIban)
	assert.Nil(t, svc.lastBicSwift)
	assert.Empty(t, svc.lastCardAlias)
}

func TestFilterAccountsForwardsFilters(t *testing.T) {
	svc := &stubAccountService{}
	r := setupAccountRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/api/v1/filter/accounts?iban=DE89&bicSwift=COBADEFF&cardAlias=travel", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.lastIban) {
		assert.Equal(t, "DE89", *svc.lastIban)
	}
	if assert.NotNil(t, svc.lastBicSwift) {
		assert.Equal(t, "COBADEFF", *svc.lastBicSwift)
	}
	assert.Equal(t, "travel", svc.lastCardAlias)
}

func TestFilterAccountsRejectsBadPaging(t *testing.T) {
	r := setupAccountRouter(&stubAccountService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/api/v1/filter/accounts?size=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAccountMissingReturns404(t *testing.T) {
	r := setupAccountRouter(&stubAccountService{exists: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/api/v1/check/account/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckAccountPresentReturnsTrue(t *testing.T) {
	r := setupAccountRouter(&stubAccountService{exists: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/api/v1/check/account/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())
}
