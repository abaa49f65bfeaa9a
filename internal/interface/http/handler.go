package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ecosense/internal/domain/advisor"
	"github.com/yanqian/ecosense/internal/domain/auth"
	"github.com/yanqian/ecosense/internal/domain/chat"
	"github.com/yanqian/ecosense/internal/domain/climate"
	"github.com/yanqian/ecosense/internal/domain/idea"
	"github.com/yanqian/ecosense/internal/domain/poll"
	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/sustainability"
	"github.com/yanqian/ecosense/internal/domain/weather"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	weatherSvc        weather.Service
	advisorSvc        advisor.Service
	climateSvc        climate.Service
	profileSvc        profile.Service
	pollSvc           poll.Service
	ideaSvc           idea.Service
	sustainabilitySvc sustainability.Service
	chatSvc           chat.Service
	authSvc           auth.Service
	logger            *slog.Logger
	now               func() time.Time
}

// Services groups the domain services served over HTTP.
type Services struct {
	Weather        weather.Service
	Advisor        advisor.Service
	Climate        climate.Service
	Profile        profile.Service
	Poll           poll.Service
	Idea           idea.Service
	Sustainability sustainability.Service
	Chat           chat.Service
	Auth           auth.Service
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svcs Services, logger *slog.Logger) *Handler {
	return &Handler{
		weatherSvc:        svcs.Weather,
		advisorSvc:        svcs.Advisor,
		climateSvc:        svcs.Climate,
		profileSvc:        svcs.Profile,
		pollSvc:           svcs.Poll,
		ideaSvc:           svcs.Idea,
		sustainabilitySvc: svcs.Sustainability,
		chatSvc:           svcs.Chat,
		authSvc:           svcs.Auth,
		logger:            logger.With("component", "http.handler"),
		now:               time.Now,
	}
}

// GetProfile returns the caller's account overview.
func (h *Handler) GetProfile(c *gin.Context) {
	id := getIdentity(c)
	overview, err := h.profileSvc.Get(c.Request.Context(), id.UserID, id.Username)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// UpdateProfile merges the supplied survey sections.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profile.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	updated, err := h.profileSvc.Upsert(c.Request.Context(), getIdentity(c).UserID, req)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userProfile": updated})
}

// CompleteSurvey marks onboarding as done.
func (h *Handler) CompleteSurvey(c *gin.Context) {
	if err := h.profileSvc.CompleteSurvey(c.Request.Context(), getIdentity(c).UserID); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respond renders v or aborts with the mapped domain error.
func respond[T any](c *gin.Context, v T, err error) {
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
