package advisor

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/weather"
)

// Activity types scored by ComputeSuitabilityScore.
const (
	ActivityWalking = "walking"
	ActivityCycling = "cycling"
	ActivityParks   = "parks"
)

// Interest values declared in the survey.
const (
	interestWalkingParks = "walking_parks"
	interestCycling      = "cycling"
	interestPhotography  = "photography"
)

// ComputeAlerts evaluates the current readings against the alert rules.
// Alerts are ordered air quality, UV, temperature, precipitation.
func ComputeAlerts(s weather.Snapshot, p *profile.UserProfile) []Alert {
	alerts := make([]Alert, 0, 4)
	respiratory := p.HasRespiratory()

	aqi := s.Current.AQI
	if aqi > 100 || (respiratory && aqi > 50) {
		desc := "Consider reducing prolonged outdoor exposure today."
		if respiratory {
			desc = "Based on your respiratory condition, consider limiting outdoor activities."
		}
		alerts = append(alerts, Alert{
			Type:        AlertAirQuality,
			Severity:    band(aqi, 150, 100),
			Title:       "Air quality is " + weather.AQICategory(aqi),
			Description: desc,
			Icon:        "masks",
		})
	}

	uv := s.Current.UVIndex
	uvSensitive := p.UVSensitivity() >= 4
	if uv > 5 || (uvSensitive && uv > 3) {
		desc := "Use sunscreen and seek shade during peak hours."
		if uvSensitive {
			desc = "With your skin sensitivity, use SPF 50+ if outdoors between 10am-4pm."
		}
		alerts = append(alerts, Alert{
			Type:        AlertUV,
			Severity:    band(uv, 8, 5),
			Title:       fmt.Sprintf("High UV index (%s)", formatNumber(uv)),
			Description: desc,
			Icon:        "wb_sunny",
		})
	}

	temp := s.Current.Temperature
	heatSensitive := p.HeatSensitivity() >= 4
	if temp > 32 || (heatSensitive && temp > 30) {
		desc := "Stay hydrated and take breaks from the heat."
		if heatSensitive {
			desc = "Given your heat sensitivity, stay hydrated and limit outdoor activities."
		}
		alerts = append(alerts, Alert{
			Type:        AlertTemperature,
			Severity:    band(temp, 35, 32),
			Title:       fmt.Sprintf("High temperature (%d°C)", roundInt(temp)),
			Description: desc,
			Icon:        "thermostat",
		})
	}

	precip := s.Current.PrecipitationProbability
	if precip > 70 {
		severity := SeverityInfo
		if precip > 90 {
			severity = SeverityWarning
		}
		alerts = append(alerts, Alert{
			Type:        AlertPrecipitation,
			Severity:    severity,
			Title:       fmt.Sprintf("High chance of precipitation (%s%%)", formatNumber(precip)),
			Description: "Bring an umbrella or raincoat when going out today.",
			Icon:        "umbrella",
		})
	}
	return alerts
}

func band(v, danger, warning float64) Severity {
	switch {
	case v > danger:
		return SeverityDanger
	case v > warning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Day windows as [start, end) local hour indices.
var (
	morningWindow   = [2]int{6, 10}
	afternoonWindow = [2]int{12, 16}
	eveningWindow   = [2]int{17, 21}
)

// ComputeActivityRecommendations scores the morning, afternoon and evening
// windows and suggests activities that fit them and the caller's interests.
func ComputeActivityRecommendations(s weather.Snapshot, p *profile.UserProfile) ActivityPlan {
	h := s.Hourly
	respiratory := p.HasRespiratory()
	interests := p.OutdoorActivities()

	morningTemp := windowMean(h.Temperature, morningWindow)
	afternoonTemp := windowMean(h.Temperature, afternoonWindow)
	eveningTemp := windowMean(h.Temperature, eveningWindow)
	morningAQI := windowMean(h.AQI, morningWindow)
	afternoonAQI := windowMean(h.AQI, afternoonWindow)
	eveningAQI := windowMean(h.AQI, eveningWindow)

	airOK := func(aqi float64) bool {
		return aqi < 100 && (!respiratory || aqi < 50)
	}
	optimal := OptimalTimes{
		Morning:   morningTemp < 30 && airOK(morningAQI),
		Afternoon: afternoonTemp < 32 && airOK(afternoonAQI),
		Evening:   eveningTemp < 30 && airOK(eveningAQI),
	}

	conditions := make([]string, 0, 3)
	if morningTemp < 30 || eveningTemp < 30 {
		conditions = append(conditions, "Comfortable temperature")
	}
	if morningAQI < 50 || eveningAQI < 50 {
		conditions = append(conditions, "Better air quality")
	}
	if slices.ContainsFunc(window(h.Humidity, [2]int{6, 21}), func(v float64) bool { return v < 70 }) {
		conditions = append(conditions, "Lower humidity")
	}

	recs := make([]Recommendation, 0, 4)
	outdoorWindow := optimal.Morning || optimal.Evening
	if (slices.Contains(interests, interestWalkingParks) || len(interests) == 0) && outdoorWindow {
		desc := "Consider an evening walk after 5 PM when conditions improve."
		if optimal.Morning {
			desc = "Ideal before 9 AM when air quality is best for walking."
		}
		recs = append(recs, activity("Morning walk in Hoan Kiem Lake", desc, "park"))
	}
	if !optimal.Morning && !optimal.Afternoon && !optimal.Evening {
		recs = append(recs, activity("Visit the Vietnam National Museum",
			"Indoor activity recommended during high pollution or heat.", "museum"))
	}
	if optimal.Evening {
		recs = append(recs, activity("Outdoor dining in West Lake area",
			"Pleasant evening temperatures after 6 PM.", "restaurant"))
	}
	if slices.Contains(interests, interestCycling) && outdoorWindow {
		desc := "Evening temperatures are suitable for cycling."
		if optimal.Morning {
			desc = "Great conditions in the morning for cycling."
		}
		recs = append(recs, activity("Cycling around West Lake", desc, "directions_bike"))
	}
	if slices.Contains(interests, interestPhotography) && !optimal.Afternoon && outdoorWindow {
		desc := "Morning light is ideal for photography."
		if optimal.Evening {
			desc = "Capture beautiful sunset views in the evening."
		}
		recs = append(recs, activity("Photography at Long Bien Bridge", desc, "photo_camera"))
	}

	return ActivityPlan{Recommendations: recs, OptimalTimes: optimal, Conditions: conditions}
}

func activity(title, desc, icon string) Recommendation {
	return Recommendation{Type: "activity", Title: title, Description: desc, Icon: icon}
}

// ComputeClothingRecommendations builds additive clothing advice from the
// next 12 hours and the caller's sensitivities and style.
func ComputeClothingRecommendations(s weather.Snapshot, p *profile.UserProfile) ClothingAdvice {
	ahead := [2]int{s.Hour, s.Hour + 12}
	peak := maxOf(window(s.Hourly.Temperature, ahead), s.Current.Temperature)
	rain := maxOf(window(s.Hourly.PrecipitationProbability, ahead), s.Current.PrecipitationProbability)
	uvSens := p.UVSensitivity()

	icons := make([]ClothingItem, 0, 4)
	specifics := make([]string, 0, 6)

	switch {
	case peak >= 30:
		icons = append(icons, ClothingItem{Icon: "checkroom", Label: "Light, breathable clothing"})
		specifics = append(specifics, "Light cotton t-shirt and shorts/skirt for the day")
	case peak >= 25:
		icons = append(icons, ClothingItem{Icon: "checkroom", Label: "Light to medium clothing"})
		specifics = append(specifics, "Light cotton clothing, consider a light long-sleeve for evening")
	default:
		icons = append(icons, ClothingItem{Icon: "checkroom", Label: "Medium weight clothing"})
		specifics = append(specifics, "Long pants and light long-sleeve shirt")
	}

	if s.Current.UVIndex > 3 || uvSens >= 3 {
		if uvSens >= 4 {
			icons = append(icons, ClothingItem{Icon: "face", Label: "SPF 50+ sunscreen"})
			specifics = append(specifics,
				"Apply high SPF sunscreen every 2 hours when outdoors",
				"Consider a wide-brimmed hat and UV-protective sunglasses",
			)
		} else {
			icons = append(icons, ClothingItem{Icon: "face", Label: "SPF 30+ sunscreen"})
			specifics = append(specifics, "Use sunscreen during peak daylight hours")
		}
	}

	if rain > 30 {
		icons = append(icons, ClothingItem{
			Icon:  "umbrella",
			Label: fmt.Sprintf("Bring umbrella (%s%% chance of rain)", formatNumber(rain)),
		})
		specifics = append(specifics, "Carry a compact umbrella or light raincoat")
	}

	if p.HasRespiratory() || s.Current.AQI > 100 {
		icons = append(icons, ClothingItem{Icon: "masks", Label: "Face mask recommended"})
		specifics = append(specifics, "Face mask recommended during commute times (for air quality protection)")
	}

	switch p.ClothingStyle() {
	case "fashionable":
		specifics = append(specifics, "Light, fashionable layers work well with today's conditions")
	case "business_casual":
		specifics = append(specifics, "Lightweight business casual attire appropriate for today's weather")
	}

	if peak >= 30 {
		specifics = append(specifics, "Bring a light jacket for air-conditioned indoor spaces")
	}
	return ClothingAdvice{Icons: icons, Specifics: specifics}
}

// ComputeSuitabilityScore rates an outdoor activity type between 0 and 1 for
// the current readings.
func ComputeSuitabilityScore(s weather.Snapshot, activityType string, p *profile.UserProfile) float64 {
	temp := s.Current.Temperature
	aqi := s.Current.AQI
	precip := s.Current.PrecipitationProbability

	score := 1.0
	switch {
	case temp > 35:
		score -= 0.5
	case temp > 32:
		score -= 0.3
	case temp < 15:
		score -= 0.2
	}
	switch {
	case aqi > 150:
		score -= 0.6
	case aqi > 100:
		score -= 0.3
	case aqi > 50:
		score -= 0.1
	}
	switch {
	case precip > 70:
		score -= 0.5
	case precip > 50:
		score -= 0.3
	case precip > 30:
		score -= 0.1
	}
	if p.HasRespiratory() && aqi > 100 {
		score -= 0.4
	}
	if interestMatches(activityType, p.OutdoorActivities()) {
		score += 0.1
	}
	return math.Max(0, math.Min(1, score))
}

func interestMatches(activityType string, interests []string) bool {
	switch activityType {
	case ActivityWalking:
		return slices.Contains(interests, interestWalkingParks)
	case ActivityCycling:
		return slices.Contains(interests, interestCycling)
	case ActivityParks:
		return slices.Contains(interests, interestWalkingParks) || slices.Contains(interests, interestPhotography)
	default:
		return false
	}
}

// CurrentActivityAlert returns the most pressing warning for an outdoor
// activity right now, or an empty string.
func CurrentActivityAlert(s weather.Snapshot, p *profile.UserProfile) string {
	switch {
	case s.Current.PrecipitationProbability > 70:
		return "High chance of precipitation - check forecast before planning this activity"
	case s.Current.AQI > 150:
		return "Air quality is unhealthy today - consider indoor alternatives"
	case s.Current.AQI > 100 && p.HasRespiratory():
		return "Current air quality may affect your respiratory condition"
	case s.Current.Temperature > 35:
		return "Extreme heat today - avoid strenuous outdoor activities or plan for early morning"
	default:
		return ""
	}
}

// window returns values[w[0]:w[1]] clamped to the series.
func window(values []float64, w [2]int) []float64 {
	start := min(max(w[0], 0), len(values))
	end := min(max(w[1], start), len(values))
	return values[start:end]
}

// windowMean averages a window over its nominal width, so missing samples count as zero.
func windowMean(values []float64, w [2]int) float64 {
	var sum float64
	for _, v := range window(values, w) {
		sum += v
	}
	return sum / float64(w[1]-w[0])
}

func maxOf(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return slices.Max(values)
}

func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
