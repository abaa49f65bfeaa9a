package advisor

import (
	"fmt"

	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/weather"
)

// TimeSlotCount is the number of upcoming hours ComputeTimeSlots describes.
const TimeSlotCount = 12

// ComputeHealthRecommendations returns guidance for the current temperature,
// UV index and air quality.
func ComputeHealthRecommendations(s weather.Snapshot) HealthAdvice {
	temp := s.Current.Temperature
	uv := s.Current.UVIndex
	aqi := s.Current.AQI
	return HealthAdvice{
		Temperature: TemperatureAdvice{
			Current:         roundInt(temp),
			IsHot:           temp > 30,
			IsCold:          temp < 18,
			Recommendations: temperatureAdvice(temp),
		},
		UV: UVAdvice{
			Index:           uv,
			Category:        weather.UVCategory(uv),
			Recommendations: uvAdvice(uv),
		},
		AirQuality: AirQualityAdvice{
			AQI:             aqi,
			Category:        weather.AQICategory(aqi),
			Recommendations: airQualityAdvice(aqi),
		},
	}
}

func temperatureAdvice(temp float64) []string {
	switch {
	case temp > 32:
		return []string{
			"Stay hydrated by drinking plenty of water",
			"Seek shade and avoid direct sun during peak hours",
			"Wear lightweight, loose-fitting clothing",
			"Use cooling towels or misting fans if available",
			"Take regular breaks from heat if working outdoors",
		}
	case temp > 28:
		return []string{
			"Stay hydrated throughout the day",
			"Wear light, breathable clothing",
			"Use sunscreen when outdoors",
			"Limit intense physical activity during peak hours",
		}
	case temp < 18:
		return []string{
			"Wear layers to stay warm",
			"Keep extremities covered (head, hands)",
			"Stay dry to avoid losing body heat",
			"Drink warm beverages to maintain body temperature",
		}
	default:
		return []string{
			"Comfortable temperature range",
			"Great conditions for most outdoor activities",
			"Regular hydration still recommended",
			"Carry a light jacket for evening temperature drops",
		}
	}
}

func uvAdvice(uv float64) []string {
	switch {
	case uv <= 2:
		return []string{
			"Low UV risk - minimal protection needed",
			"Wear sunglasses in bright conditions",
		}
	case uv <= 5:
		return []string{
			"Use SPF 30+ sunscreen",
			"Wear a hat when in direct sunlight",
			"Take breaks in the shade during peak hours",
			"Use sunglasses with UV protection",
		}
	case uv <= 7:
		return []string{
			"Apply SPF 30+ sunscreen every 2 hours",
			"Wear protective clothing and a wide-brimmed hat",
			"Reduce sun exposure between 10am and 4pm",
			"Use sunglasses with high UV protection",
		}
	default:
		return []string{
			"Apply SPF 50+ sunscreen every 2 hours",
			"Wear sun-protective clothing (UPF-rated if possible)",
			"Avoid sun exposure between 10am and 4pm",
			"Seek shade whenever possible",
			"Use wrap-around sunglasses with UV 400 protection",
		}
	}
}

func airQualityAdvice(aqi float64) []string {
	switch {
	case aqi <= 50:
		return []string{
			"Air quality is good - enjoy outdoor activities",
			"No special precautions needed",
		}
	case aqi <= 100:
		return []string{
			"Sensitive individuals should limit prolonged outdoor exertion",
			"Consider wearing a mask if you have respiratory conditions",
			"Keep windows closed during high traffic times",
		}
	case aqi <= 150:
		return []string{
			"People with respiratory or heart conditions should limit outdoor activities",
			"Everyone should reduce prolonged or intense outdoor activities",
			"Wear a proper mask (N95 or equivalent) when outdoors",
			"Use air purifiers indoors if available",
		}
	default:
		return []string{
			"Everyone should avoid outdoor activities",
			"Wear N95 masks when outdoors is necessary",
			"Keep windows closed and use air purifiers",
			"Follow local health authority guidance",
			"Consider rescheduling outdoor events",
		}
	}
}

// ComputeTimeSlots describes the next TimeSlotCount hours starting at the
// current one. Samples are read forward from now; past the end of the series
// the same hour of the current day is used.
func ComputeTimeSlots(s weather.Snapshot, p *profile.UserProfile) []TimeSlot {
	h := s.Hourly
	n := h.Len()
	respiratory := p.HasRespiratory()
	heatSensitive := p.HeatSensitivity() >= 4
	uvSensitive := p.UVSensitivity() >= 4

	slots := make([]TimeSlot, 0, TimeSlotCount)
	for i := 0; i < TimeSlotCount; i++ {
		hour := (s.Hour + i) % 24
		idx := s.Hour + i
		if idx >= n {
			idx = hour
		}
		temp := h.Temperature[idx]
		precip := h.PrecipitationProbability[idx]
		humidity := h.Humidity[idx]
		aqi := h.AQI[idx]
		uv := h.UVIndex[idx]
		peakSun := hour >= 10 && hour <= 16

		conditions := make([]string, 0, 5)
		switch {
		case temp > 32:
			conditions = append(conditions, "Hot")
		case temp < 20:
			conditions = append(conditions, "Cool")
		default:
			conditions = append(conditions, "Pleasant temperature")
		}
		if precip > 50 {
			conditions = append(conditions, "High precipitation chance")
		}
		if humidity > 80 {
			conditions = append(conditions, "High humidity")
		}
		switch {
		case aqi < 50:
			conditions = append(conditions, "Good air quality")
		case aqi < 100:
			conditions = append(conditions, "Moderate air quality")
		default:
			conditions = append(conditions, "Poor air quality")
		}
		if peakSun && uv > 5 {
			conditions = append(conditions, "High UV")
		}

		suitable := !(temp > 35 || precip > 70 || aqi > 150)
		if respiratory && aqi > 100 {
			suitable = false
		}
		if heatSensitive && temp > 30 {
			suitable = false
		}
		if uvSensitive && uv > 6 && peakSun {
			suitable = false
		}

		icon := "wb_sunny"
		switch {
		case precip > 50:
			icon = "umbrella"
		case h.CloudCover[idx] > 70:
			icon = "cloud"
		case aqi > 150:
			icon = "masks"
		case !h.IsDay[idx]:
			icon = "nights_stay"
		}

		slots = append(slots, TimeSlot{
			Hour:          hour,
			Label:         hourLabel(hour),
			Conditions:    conditions,
			Suitable:      suitable,
			Icon:          icon,
			Temperature:   roundInt(temp),
			Precipitation: precip,
			Humidity:      roundInt(humidity),
			UV:            roundInt(uv),
			AQI:           aqi,
		})
	}
	return slots
}

func hourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour > 12:
		return fmt.Sprintf("%d PM", hour-12)
	default:
		return fmt.Sprintf("%d AM", hour)
	}
}
