package handlers

import (
	"net/http"
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/paging"
	pkgviews "github.com/dtb-bank/core-banking/pkg/views"
	"github.com/dtb-bank/core-banking/services/customer-api/internal/services"
	"github.com/dtb-bank/core-banking/services/customer-api/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	logger  *zap.Logger
	service services.CustomerService
}

func NewCustomerHandler(logger *zap.Logger, svc services.CustomerService) *CustomerHandler {
	return &CustomerHandler{logger: logger, service: svc}
}

// RegisterRoutes registers customer routes on the provided Gin group.
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/create/customer", h.CreateCustomer)
	r.PATCH("/update/customer", h.UpdateCustomer)
	r.PATCH("/delete/customer/:id", h.DeleteCustomer)
	r.GET("/get/customer/:id", h.GetCustomer)
	r.GET("/check/customer/:id", h.CheckCustomer)
	r.GET("/filter/customers", h.FilterCustomers)
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	var req views.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}

	customerID, err := h.service.Create(c.Request.Context(), traceID, req)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Customer created successfully",
		"customerId": customerID,
	})
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	var req views.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}

	if err := h.service.Update(c.Request.Context(), traceID, req); err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, pkgviews.GeneralResponse{Message: "Customer updated successfully"})
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid customer id", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), traceID, customerID); err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, pkgviews.GeneralResponse{Message: "Customer deleted successfully"})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid customer id", err))
		return
	}

	customer, err := h.service.GetByID(c.Request.Context(), traceID, customerID)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) CheckCustomer(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid customer id", err))
		return
	}

	exists, err := h.service.Exists(c.Request.Context(), traceID, customerID)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	if !exists {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrNotFoundCode, "customer not found", nil))
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *CustomerHandler) FilterCustomers(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	page, err := paging.ParseQuery(c)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	from, err := parseTimeParam(c.Query("startDate"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid startDate", err))
		return
	}
	to, err := parseTimeParam(c.Query("endDate"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid endDate", err))
		return
	}

	result, err := h.service.Search(c.Request.Context(), traceID, c.Query("name"), from, to, page)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CustomerHandler) respondError(c *gin.Context, traceID string, err error) {
	resp := pkg.ToErrorResponse(h.logger, traceID, err)
	c.JSON(resp.Status, resp)
}

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
