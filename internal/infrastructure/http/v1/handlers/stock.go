package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
)

// StockHandler exposes balance queries over the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// BalancesBySubject handles GET /stock/balances?subjectId=...&kind=...
// An optional orderId scopes the snapshot to free stock plus stock reserved
// for that order.
func (h *StockHandler) BalancesBySubject(c *gin.Context) {
	ctx := c.Request.Context()

	subjectID, err := id.Parse(c.Query("subjectId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("subjectId is required").WithDetail("error", err.Error()))
		return
	}

	kind := stock.SubjectKind(c.Query("kind"))

	var scopeOrderID *id.ID
	if raw := c.Query("orderId"); raw != "" {
		orderID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid orderId format"))
			return
		}
		scopeOrderID = &orderID
	}

	balances, err := h.service.BalancesBySubject(ctx, subjectID, kind, scopeOrderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": balances})
}

// BalancesByWarehouse handles GET /stock/warehouses/:id/balances.
func (h *StockHandler) BalancesByWarehouse(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	balances, err := h.service.BalancesByWarehouse(ctx, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": balances})
}
