package handlers

import (
	"net/http"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/paging"
	pkgviews "github.com/dtb-bank/core-banking/pkg/views"
	"github.com/dtb-bank/core-banking/services/account-api/internal/services"
	"github.com/dtb-bank/core-banking/services/account-api/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountHandler struct {
	logger  *zap.Logger
	service services.AccountService
}

func NewAccountHandler(logger *zap.Logger, svc services.AccountService) *AccountHandler {
	return &AccountHandler{logger: logger, service: svc}
}

// RegisterRoutes registers account routes on the provided Gin group.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/create/account", h.CreateAccount)
	r.PATCH("/update/account", h.UpdateAccount)
	r.PATCH("/delete/account/:id", h.DeleteAccount)
	r.GET("/get/account/:id", h.GetAccount)
	r.GET("/check/account/:id", h.CheckAccount)
	r.GET("/filter/accounts", h.FilterAccounts)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	var req views.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}

	accountID, err := h.service.Create(c.Request.Context(), traceID, req)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Account created successfully",
		"accountId": accountID,
	})
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	var req views.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}

	if err := h.service.Update(c.Request.Context(), traceID, req); err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, pkgviews.GeneralResponse{Message: "Account updated successfully"})
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid account id", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), traceID, accountID); err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, pkgviews.GeneralResponse{Message: "Account deleted successfully"})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid account id", err))
		return
	}

	account, err := h.service.GetByID(c.Request.Context(), traceID, accountID)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) CheckAccount(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid account id", err))
		return
	}

	exists, err := h.service.Exists(c.Request.Context(), traceID, accountID)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	if !exists {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrNotFoundCode, "account not found", nil))
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *AccountHandler) FilterAccounts(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	page, err := paging.ParseQuery(c)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	result, err := h.service.Search(
		c.Request.Context(),
		traceID,
		optionalQuery(c, "iban"),
		optionalQuery(c, "bicSwift"),
		c.Query("cardAlias"),
		page,
	)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AccountHandler) respondError(c *gin.Context, traceID string, err error) {
	resp := pkg.ToErrorResponse(h.logger, traceID, err)
	c.JSON(resp.Status, resp)
}

// optionalQuery distinguishes "absent" (nil, no restriction) from an
// explicit empty value.
func optionalQuery(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}
