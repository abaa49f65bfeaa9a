package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/ecosense/internal/infra/config"
	"github.com/yanqian/ecosense/internal/infra/live"
	"github.com/yanqian/ecosense/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, hub *live.Hub, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	metrics.Register()
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		metricsMiddleware(),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", handler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", gin.WrapH(hub))

	api := router.Group("/api", rateLimitMiddleware(cfg.HTTP.RateLimit, logger))
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)

		caller := api.Group("", identityMiddleware(handler.authSvc, cfg.Auth))
		caller.GET("/auth/me", requireAuthenticated(), handler.Me)

		caller.GET("/user/profile", handler.GetProfile)
		caller.POST("/user/profile", handler.UpdateProfile)
		caller.POST("/user/survey/complete", handler.CompleteSurvey)

		weather := caller.Group("/weather")
		weather.GET("/current", handler.CurrentWeather)
		weather.GET("/air-quality", handler.AirQuality)
		weather.GET("/historical", handler.HistoricalWeather)
		weather.GET("/forecast", handler.Forecast)
		weather.GET("/air-quality/forecast", handler.AirQualityForecast)
		weather.GET("/air-quality/historical", handler.AirQualityHistory)
		weather.GET("/pollen", handler.Pollen)
		weather.GET("/hourly", handler.HourlyForecast)
		weather.GET("/alerts", handler.WeatherAlerts)
		weather.GET("/recommendations/activities", handler.ActivityRecommendations)
		weather.GET("/recommendations/clothing", handler.ClothingRecommendations)

		caller.GET("/climate/data", handler.ClimateData)
		caller.GET("/climate/flood-risk", handler.FloodRisk)
		caller.GET("/climate/projections", handler.ClimateProjections)

		caller.GET("/health/recommendations", handler.HealthRecommendations)
		caller.GET("/activities/time-slots", handler.TimeSlots)
		caller.GET("/activities/outdoor", handler.OutdoorActivities)
		caller.GET("/activities/indoor", handler.IndoorActivities)

		sustainability := caller.Group("/sustainability")
		sustainability.GET("/tips", handler.SustainabilityTips)
		sustainability.GET("/initiatives", handler.Initiatives)
		sustainability.GET("/polls", handler.ListPolls)
		sustainability.POST("/vote", handler.Vote)
		sustainability.POST("/polls/create", handler.CreatePoll)
		sustainability.GET("/ideas", handler.ListIdeas)
		sustainability.POST("/ideas/submit", handler.SubmitIdea)

		caller.GET("/chat/history", handler.ChatHistory)
		caller.POST("/chat/message", handler.ChatMessage)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
