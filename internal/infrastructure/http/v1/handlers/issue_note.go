package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain"
	"outflow/internal/domain/evidence"
	"outflow/internal/domain/issuenote"
	"outflow/internal/infrastructure/http/v1/dto"
)

// IssueNoteHandler exposes the committed issue-note documents. Notes are
// created through the drafting flow, so there is no Create endpoint here.
type IssueNoteHandler struct {
	*BaseHandler
	notes    *issuenote.Service
	evidence *evidence.Service
}

// NewIssueNoteHandler creates a new issue note handler.
func NewIssueNoteHandler(base *BaseHandler, notes *issuenote.Service, ev *evidence.Service) *IssueNoteHandler {
	return &IssueNoteHandler{
		BaseHandler: base,
		notes:       notes,
		evidence:    ev,
	}
}

// List handles GET /issue-notes with filtering and pagination.
func (h *IssueNoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := issuenote.ListFilter{
		ListFilter: domain.ListFilter{
			Search:  c.Query("search"),
			Limit:   h.ParseIntQuery(c, "limit", 50),
			Offset:  h.ParseIntQuery(c, "offset", 0),
			OrderBy: c.Query("orderBy"),
		},
		Category: issuenote.Category(c.Query("category")),
	}

	if raw := c.Query("sourceOrderId"); raw != "" {
		orderID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid sourceOrderId format"))
			return
		}
		filter.SourceOrderID = &orderID
	}
	if raw := c.Query("partnerId"); raw != "" {
		partnerID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid partnerId format"))
			return
		}
		filter.PartnerID = &partnerID
	}
	if raw := c.Query("dateFrom"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom, expected RFC3339"))
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("dateTo"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo, expected RFC3339"))
			return
		}
		filter.DateTo = &to
	}

	result, err := h.notes.List(ctx, filter)
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

// Get handles GET /issue-notes/:id, returning the note with lines and
// expected returns.
func (h *IssueNoteHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	noteID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	note, err := h.notes.GetByID(ctx, noteID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// Delete handles DELETE /issue-notes/:id. The note is marked deleted and
// its stock movements are reversed in the same transaction.
func (h *IssueNoteHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	noteID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notes.Delete(ctx, noteID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Attachments handles GET /issue-notes/:id/attachments.
func (h *IssueNoteHandler) Attachments(c *gin.Context) {
	ctx := c.Request.Context()

	noteID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	files, err := h.evidence.ListByNote(ctx, noteID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": files})
}

// RegisterRoutes registers the issue note routes.
func (h *IssueNoteHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/attachments", h.Attachments)
}
