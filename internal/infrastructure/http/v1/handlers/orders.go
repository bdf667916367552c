package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outflow/internal/domain/orders"
	"outflow/internal/infrastructure/http/v1/dto"
)

// OrdersHandler exposes the read-only order picker endpoints.
type OrdersHandler struct {
	*BaseHandler
	service *orders.Service
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(base *BaseHandler, service *orders.Service) *OrdersHandler {
	return &OrdersHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /orders?type=sales&search=...
// Only open orders are returned; the picker has no use for closed ones.
func (h *OrdersHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	orderType := orders.Type(c.Query("type"))
	search := c.Query("search")
	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.ListOpen(ctx, orderType, search, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /orders/:id, returning the order with its lines.
func (h *OrdersHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
