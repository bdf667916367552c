package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"outflow/internal/core/apperror"
	"outflow/internal/domain/evidence"
)

// EvidenceHandler handles evidence file upload and download. Files are
// uploaded before submission and linked to a note atomically at submit time.
type EvidenceHandler struct {
	*BaseHandler
	service *evidence.Service
}

// NewEvidenceHandler creates a new evidence handler.
func NewEvidenceHandler(base *BaseHandler, service *evidence.Service) *EvidenceHandler {
	return &EvidenceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Upload handles POST /evidence (multipart form, field "file").
func (h *EvidenceHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("multipart field 'file' is required"))
		return
	}

	src, err := header.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(fmt.Errorf("open upload: %w", err)))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.Error(c, apperror.NewInternal(fmt.Errorf("read upload: %w", err)))
		return
	}

	file, err := h.service.Upload(ctx, evidence.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

// Download handles GET /evidence/:id/content.
func (h *EvidenceHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()

	fileID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	file, data, err := h.service.Content(ctx, fileID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, data)
}

// RegisterRoutes registers the evidence routes.
func (h *EvidenceHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.Upload)
	group.GET("/:id/content", h.Download)
}
