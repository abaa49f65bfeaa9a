package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ecosense/internal/domain/auth"
)

type chatMessageRequest struct {
	Message string `json:"message"`
}

// ChatHistory returns the caller's conversation.
func (h *Handler) ChatHistory(c *gin.Context) {
	messages, err := h.chatSvc.History(c.Request.Context(), getIdentity(c).UserID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// ChatMessage sends a message to the assistant.
func (h *Handler) ChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	reply, err := h.chatSvc.Send(c.Request.Context(), getIdentity(c).UserID, req.Message)
	respond(c, reply, err)
}

// Register creates an account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login issues tokens for valid credentials.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	respond(c, resp, err)
}

// Refresh exchanges a refresh token for new tokens.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	respond(c, resp, err)
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	view, err := h.authSvc.Profile(c.Request.Context(), getIdentity(c).UserID)
	respond(c, view, err)
}
