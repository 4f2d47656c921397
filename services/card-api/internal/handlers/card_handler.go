package handlers

import (
	"net/http"
	"strconv"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/paging"
	pkgviews "github.com/dtb-bank/core-banking/pkg/views"
	"github.com/dtb-bank/core-banking/services/card-api/internal/services"
	"github.com/dtb-bank/core-banking/services/card-api/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CardHandler struct {
	logger  *zap.Logger
	service services.CardService
}

func NewCardHandler(logger *zap.Logger, svc services.CardService) *CardHandler {
	return &CardHandler{logger: logger, service: svc}
}

// RegisterRoutes registers card routes on the provided Gin group.
func (h *CardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/create/card", h.CreateCard)
	r.PATCH("/update/card", h.UpdateCard)
	r.PATCH("/delete/card/:id", h.DeleteCard)
	r.GET("/get/card/:id", h.GetCard)
	r.GET("/filter/cards", h.FilterCards)
	r.GET("/get/account/ids", h.GetAccountIDs)
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	var req views.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}

	cardID, err := h.service.Create(c.Request.Context(), traceID, req)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Card created successfully",
		"cardId":  cardID,
	})
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	var req views.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}

	if err := h.service.UpdateAlias(c.Request.Context(), traceID, req); err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, pkgviews.GeneralResponse{Message: "Card updated successfully"})
}

func (h *CardHandler) DeleteCard(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid card id", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), traceID, cardID); err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, pkgviews.GeneralResponse{Message: "Card deleted successfully"})
}

func (h *CardHandler) GetCard(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid card id", err))
		return
	}

	card, err := h.service.GetByID(c.Request.Context(), traceID, cardID, revealQuery(c))
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) FilterCards(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	page, err := paging.ParseQuery(c)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	var cardType *pkg.CardType
	if raw := c.Query("type"); raw != "" {
		parsed, ok := pkg.ParseCardType(raw)
		if !ok {
			h.respondError(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "card type must be VIRTUAL or PHYSICAL", nil))
			return
		}
		cardType = &parsed
	}

	result, err := h.service.Search(
		c.Request.Context(),
		traceID,
		c.Query("alias"),
		cardType,
		c.Query("panSuffix"),
		revealQuery(c),
		page,
	)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CardHandler) GetAccountIDs(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	page, err := paging.ParseQuery(c)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	result, err := h.service.AccountIDs(c.Request.Context(), traceID, c.Query("alias"), page)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CardHandler) respondError(c *gin.Context, traceID string, err error) {
	resp := pkg.ToErrorResponse(h.logger, traceID, err)
	c.JSON(resp.Status, resp)
}

// revealQuery treats any unparsable value as false; sensitive fields stay
// masked unless the caller asks explicitly.
func revealQuery(c *gin.Context) bool {
	reveal, err := strconv.ParseBool(c.DefaultQuery("reveal", "false"))
	return err == nil && reveal
}
