package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outflow/internal/core/entity"
	"outflow/internal/domain"
	"outflow/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic HTTP handlers for catalog entities.
// Domain models carry their own JSON tags, so no per-entity DTO mapping is
// needed; newFn supplies an initialized entity for create binding.
type CatalogHandler[T entity.Validatable] struct {
	*BaseHandler
	service *domain.CatalogService[T]
	newFn   func() T
}

// NewCatalogHandlerFor creates a catalog handler.
func NewCatalogHandlerFor[T entity.Validatable](
	base *BaseHandler,
	service *domain.CatalogService[T],
	newFn func() T,
) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		BaseHandler: base,
		service:     service,
		newFn:       newFn,
	}
}

// List handles GET /{entity} with filtering and pagination.
func (h *CatalogHandler[T]) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")
	filter.ActiveOnly = c.Query("activeOnly") == "true"
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	result, err := h.service.List(ctx, filter)
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

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Create handles POST /{entity}. The request body is bound over a freshly
// initialized entity, so generated fields (id, version) survive when absent
// from the payload.
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	item := h.newFn()
	if !h.BindJSON(c, item) {
		return
	}

	if err := h.service.Create(ctx, item); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update handles PUT /{entity}/:id. The body is overlaid on the stored
// entity; the version in the body drives optimistic locking.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if !h.BindJSON(c, existing) {
		return
	}

	if err := h.service.Update(ctx, existing); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, existing)
}

// Delete handles DELETE /{entity}/:id (soft delete).
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
