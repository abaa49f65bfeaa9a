package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ecosense/internal/domain/poll"
)

type submitIdeaRequest struct {
	Content string `json:"content"`
}

// SustainabilityTips returns the tip of the day.
func (h *Handler) SustainabilityTips(c *gin.Context) {
	c.JSON(http.StatusOK, h.sustainabilitySvc.DailyTips(h.now()))
}

// Initiatives lists community initiatives.
func (h *Handler) Initiatives(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"initiatives": h.sustainabilitySvc.Initiatives()})
}

// ListPolls lists polls with the caller's votes.
func (h *Handler) ListPolls(c *gin.Context) {
	id := getIdentity(c)
	polls, err := h.pollSvc.List(c.Request.Context(), poll.Voter{UserID: id.UserID, Authenticated: id.Authenticated})
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"polls": polls})
}

// Vote records a vote on a poll option.
func (h *Handler) Vote(c *gin.Context) {
	var req poll.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	id := getIdentity(c)
	req.Voter = poll.Voter{UserID: id.UserID, Authenticated: id.Authenticated}
	if err := h.pollSvc.Vote(c.Request.Context(), req); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreatePoll creates a poll.
func (h *Handler) CreatePoll(c *gin.Context) {
	var req poll.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	v, err := h.pollSvc.Create(c.Request.Context(), req)
	respond(c, v, err)
}

// ListIdeas lists community ideas newest first.
func (h *Handler) ListIdeas(c *gin.Context) {
	ideas, err := h.ideaSvc.List(c.Request.Context())
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// SubmitIdea stores an idea under the caller's name.
func (h *Handler) SubmitIdea(c *gin.Context) {
	var req submitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	author := ""
	if id := getIdentity(c); id.Authenticated {
		author = id.Username
	}
	v, err := h.ideaSvc.Submit(c.Request.Context(), author, req.Content)
	respond(c, v, err)
}
