package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/issuenote"
	"outflow/internal/domain/stock"
	"outflow/internal/infrastructure/http/v1/dto"
)

// DraftHandler drives the issue-note drafting flow over HTTP. Every mutation
// returns the full draft state so the client never tracks deltas.
type DraftHandler struct {
	*BaseHandler
	drafts *issuenote.DraftService
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(base *BaseHandler, drafts *issuenote.DraftService) *DraftHandler {
	return &DraftHandler{
		BaseHandler: base,
		drafts:      drafts,
	}
}

// Start handles POST /drafts.
func (h *DraftHandler) Start(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, state, err := h.drafts.Start(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.StartDraftResponse{
		SessionID: sessionID.String(),
		State:     state,
	})
}

// State handles GET /drafts/:id.
func (h *DraftHandler) State(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	state, err := h.drafts.State(ctx, sessionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Discard handles DELETE /drafts/:id.
func (h *DraftHandler) Discard(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.drafts.Discard(ctx, sessionID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// SetCategory handles PUT /drafts/:id/category.
func (h *DraftHandler) SetCategory(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	state, err := h.drafts.SetCategory(ctx, sessionID, issuenote.Category(req.Category))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SelectOrder handles PUT /drafts/:id/order.
func (h *DraftHandler) SelectOrder(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SelectOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	orderID, err := id.Parse(req.OrderID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid orderId format"))
		return
	}

	state, err := h.drafts.SelectOrder(ctx, sessionID, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// AddRow handles POST /drafts/:id/rows.
func (h *DraftHandler) AddRow(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddRowRequest
	if !h.BindJSON(c, &req) {
		return
	}

	state, err := h.drafts.AddRow(ctx, sessionID, stock.SubjectKind(req.Kind))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// RemoveRow handles DELETE /drafts/:id/rows/:rowId.
func (h *DraftHandler) RemoveRow(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	rowID, ok := h.ParseIDParam(c, "rowId")
	if !ok {
		return
	}

	state, err := h.drafts.RemoveRow(ctx, sessionID, rowID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SelectSubject handles PUT /drafts/:id/rows/:rowId/subject.
func (h *DraftHandler) SelectSubject(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	rowID, ok := h.ParseIDParam(c, "rowId")
	if !ok {
		return
	}

	var req dto.SelectSubjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	subjectID, err := id.Parse(req.SubjectID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid subjectId format"))
		return
	}

	state, err := h.drafts.SelectSubject(ctx, sessionID, rowID, subjectID, stock.SubjectKind(req.Kind))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ClearSubject handles DELETE /drafts/:id/rows/:rowId/subject.
func (h *DraftHandler) ClearSubject(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	rowID, ok := h.ParseIDParam(c, "rowId")
	if !ok {
		return
	}

	state, err := h.drafts.ClearSubject(ctx, sessionID, rowID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SetQuantity handles PUT /drafts/:id/rows/:rowId/quantity. The value is
// raw user input; a rejected value shows up as a validation error on the
// allocation, not as an HTTP error.
func (h *DraftHandler) SetQuantity(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	rowID, ok := h.ParseIDParam(c, "rowId")
	if !ok {
		return
	}

	var req dto.SetQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	state, err := h.drafts.SetExportQuantity(ctx, sessionID, rowID, req.WarehouseIndex, req.Value)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SetPartner handles PUT /drafts/:id/partner.
func (h *DraftHandler) SetPartner(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetPartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	partnerID, err := id.Parse(req.PartnerID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid partnerId format"))
		return
	}

	state, err := h.drafts.SetPartner(ctx, sessionID, partnerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SetReturns handles PUT /drafts/:id/returns.
func (h *DraftHandler) SetReturns(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetReturnsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	returns := make([]issuenote.ExpectedReturnLine, 0, len(req.Returns))
	for _, r := range req.Returns {
		materialID, err := id.Parse(r.MaterialID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid materialId format"))
			return
		}
		returns = append(returns, issuenote.ExpectedReturnLine{
			MaterialID: materialID,
			Quantity:   r.Quantity,
		})
	}

	state, err := h.drafts.SetExpectedReturns(ctx, sessionID, returns)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SetHeader handles PUT /drafts/:id/header.
func (h *DraftHandler) SetHeader(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetHeaderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	state, err := h.drafts.SetHeader(ctx, sessionID, issuenote.FormState{
		Date:     req.Date,
		Receiver: req.Receiver,
		Comment:  req.Comment,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Submit handles POST /drafts/:id/submit.
func (h *DraftHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitDraftRequest
	if !h.BindJSON(c, &req) {
		return
	}

	attachmentIDs := make([]id.ID, 0, len(req.AttachmentIDs))
	for _, raw := range req.AttachmentIDs {
		fileID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid attachment id format"))
			return
		}
		attachmentIDs = append(attachmentIDs, fileID)
	}

	result, err := h.drafts.Submit(ctx, sessionID, attachmentIDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitDraftResponse{
		Note:            result.Note,
		AttachmentError: result.AttachmentError,
	})
}

// RegisterRoutes registers the drafting routes.
func (h *DraftHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.Start)
	group.GET("/:id", h.State)
	group.DELETE("/:id", h.Discard)
	group.PUT("/:id/category", h.SetCategory)
	group.PUT("/:id/order", h.SelectOrder)
	group.PUT("/:id/partner", h.SetPartner)
	group.PUT("/:id/returns", h.SetReturns)
	group.PUT("/:id/header", h.SetHeader)
	group.POST("/:id/rows", h.AddRow)
	group.DELETE("/:id/rows/:rowId", h.RemoveRow)
	group.PUT("/:id/rows/:rowId/subject", h.SelectSubject)
	group.DELETE("/:id/rows/:rowId/subject", h.ClearSubject)
	group.PUT("/:id/rows/:rowId/quantity", h.SetQuantity)
	group.POST("/:id/submit", h.Submit)
}
