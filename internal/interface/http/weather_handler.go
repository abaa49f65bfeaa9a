package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const defaultForecastHours = 24

// CurrentWeather returns current conditions with the next 24 hours.
func (h *Handler) CurrentWeather(c *gin.Context) {
	v, err := h.weatherSvc.Current(c.Request.Context())
	respond(c, v, err)
}

// AirQuality returns current pollutants and AQI.
func (h *Handler) AirQuality(c *gin.Context) {
	v, err := h.weatherSvc.AirQuality(c.Request.Context())
	respond(c, v, err)
}

// HistoricalWeather returns the last year of daily observations.
func (h *Handler) HistoricalWeather(c *gin.Context) {
	v, err := h.weatherSvc.Historical(c.Request.Context())
	respond(c, v, err)
}

// Forecast returns the provider forecast.
func (h *Handler) Forecast(c *gin.Context) {
	v, err := h.weatherSvc.Forecast(c.Request.Context())
	respond(c, v, err)
}

// AirQualityForecast returns the provider air quality forecast.
func (h *Handler) AirQualityForecast(c *gin.Context) {
	v, err := h.weatherSvc.AirQualityForecast(c.Request.Context())
	respond(c, v, err)
}

// AirQualityHistory returns past air quality readings.
func (h *Handler) AirQualityHistory(c *gin.Context) {
	v, err := h.weatherSvc.AirQualityHistory(c.Request.Context())
	respond(c, v, err)
}

// Pollen returns pollen forecasts.
func (h *Handler) Pollen(c *gin.Context) {
	v, err := h.weatherSvc.Pollen(c.Request.Context())
	respond(c, v, err)
}

// HourlyForecast returns the next ?hours= hourly values.
func (h *Handler) HourlyForecast(c *gin.Context) {
	hours, ok := queryInt(c, "hours", defaultForecastHours)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "hours must be an integer", nil))
		return
	}
	v, err := h.weatherSvc.HourlyForecast(c.Request.Context(), hours)
	respond(c, v, err)
}

// WeatherAlerts returns personalised alerts for the caller.
func (h *Handler) WeatherAlerts(c *gin.Context) {
	v, err := h.advisorSvc.Alerts(c.Request.Context(), getIdentity(c).UserID)
	respond(c, v, err)
}

// ActivityRecommendations returns the activity plan for today.
func (h *Handler) ActivityRecommendations(c *gin.Context) {
	v, err := h.advisorSvc.Activities(c.Request.Context(), getIdentity(c).UserID)
	respond(c, v, err)
}

// ClothingRecommendations returns clothing advice for the next 12 hours.
func (h *Handler) ClothingRecommendations(c *gin.Context) {
	v, err := h.advisorSvc.Clothing(c.Request.Context(), getIdentity(c).UserID)
	respond(c, v, err)
}

// HealthRecommendations returns temperature, UV and air quality advice.
func (h *Handler) HealthRecommendations(c *gin.Context) {
	v, err := h.advisorSvc.Health(c.Request.Context())
	respond(c, v, err)
}

// TimeSlots returns the next 12 hourly slots.
func (h *Handler) TimeSlots(c *gin.Context) {
	v, err := h.advisorSvc.TimeSlots(c.Request.Context(), getIdentity(c).UserID)
	respond(c, v, err)
}

// OutdoorActivities returns the outdoor catalog scored for current conditions.
func (h *Handler) OutdoorActivities(c *gin.Context) {
	v, err := h.advisorSvc.OutdoorActivities(c.Request.Context(), getIdentity(c).UserID)
	respond(c, v, err)
}

// IndoorActivities returns the indoor catalog.
func (h *Handler) IndoorActivities(c *gin.Context) {
	v, err := h.advisorSvc.IndoorActivities(c.Request.Context(), getIdentity(c).UserID)
	respond(c, v, err)
}

// ClimateData returns yearly climate history.
func (h *Handler) ClimateData(c *gin.Context) {
	v, err := h.climateSvc.Data(c.Request.Context())
	respond(c, v, err)
}

// FloodRisk returns current and upcoming flood levels.
func (h *Handler) FloodRisk(c *gin.Context) {
	v, err := h.climateSvc.FloodRisk(c.Request.Context())
	respond(c, v, err)
}

// ClimateProjections returns scenario temperature trends.
func (h *Handler) ClimateProjections(c *gin.Context) {
	v, err := h.climateSvc.Projections(c.Request.Context())
	respond(c, v, err)
}
