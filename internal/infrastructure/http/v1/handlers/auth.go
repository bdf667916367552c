package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outflow/internal/core/apperror"
	"outflow/internal/core/appctx"
	"outflow/internal/core/id"
	"outflow/internal/domain/auth"
	"outflow/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req auth.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var creds auth.Credentials
	if !h.BindJSON(c, &creds) {
		return
	}

	tokens, user, err := h.service.Login(ctx, creds)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"user":   user,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefreshTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	if err := h.service.Logout(ctx, userID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) callerID(c *gin.Context) (id.ID, bool) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return id.Nil(), false
	}
	userID, err := id.Parse(user.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid user id"))
		return id.Nil(), false
	}
	return userID, true
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	public.POST("/refresh", h.Refresh)

	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
}
