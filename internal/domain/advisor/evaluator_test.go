package advisor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/weather"
)

type conditions struct {
	temp, aqi, uv, precip, humidity, cloud float64
}

// uniformSnapshot repeats the same readings for 24 hours with now at hour.
func uniformSnapshot(hour int, c conditions) weather.Snapshot {
	const n = 24
	fill := func(v float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}
	isDay := make([]bool, n)
	for i := range isDay {
		isDay[i] = i >= 6 && i < 18
	}
	return weather.Snapshot{
		Hour: hour,
		Current: weather.Conditions{
			Temperature:              c.temp,
			AQI:                      c.aqi,
			UVIndex:                  c.uv,
			PrecipitationProbability: c.precip,
			Humidity:                 c.humidity,
			CloudCover:               c.cloud,
		},
		Hourly: weather.Series{
			Time:                     make([]string, n),
			Temperature:              fill(c.temp),
			Humidity:                 fill(c.humidity),
			PrecipitationProbability: fill(c.precip),
			CloudCover:               fill(c.cloud),
			WindSpeed:                fill(5),
			UVIndex:                  fill(c.uv),
			AQI:                      fill(c.aqi),
			IsDay:                    isDay,
			WeatherCode:              make([]int, n),
		},
	}
}

func respiratoryProfile() *profile.UserProfile {
	return &profile.UserProfile{Health: &profile.HealthProfile{HasRespiratoryConditions: true}}
}

func sensitivities(uv, heat int) *profile.UserProfile {
	return &profile.UserProfile{Sensitivities: &profile.EnvironmentalSensitivities{
		PollutionSensitivity: 3, UVSensitivity: uv, HeatSensitivity: heat, ColdSensitivity: 3,
	}}
}

func withInterests(activities ...string) *profile.UserProfile {
	return &profile.UserProfile{Interests: &profile.Interests{OutdoorActivities: activities, SustainabilityInterest: 3}}
}

func alertTypes(alerts []Alert) []AlertType {
	out := make([]AlertType, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func TestComputeAlertsRespiratoryResident(t *testing.T) {
	snap := uniformSnapshot(10, conditions{temp: 33, aqi: 120, uv: 6, precip: 20, humidity: 60})

	alerts := ComputeAlerts(snap, respiratoryProfile())

	require.Equal(t, []AlertType{AlertAirQuality, AlertUV, AlertTemperature}, alertTypes(alerts))
	require.Equal(t, SeverityWarning, alerts[0].Severity)
	require.Equal(t, "Air quality is Unhealthy for Sensitive Groups", alerts[0].Title)
	require.Equal(t, "Based on your respiratory condition, consider limiting outdoor activities.", alerts[0].Description)
	require.Equal(t, "masks", alerts[0].Icon)
	require.Equal(t, "High UV index (6)", alerts[1].Title)
	require.Equal(t, SeverityWarning, alerts[1].Severity)
	require.Equal(t, SeverityWarning, alerts[2].Severity)
	require.Equal(t, "High temperature (33°C)", alerts[2].Title)
	require.Equal(t, "Stay hydrated and take breaks from the heat.", alerts[2].Description)
}

func TestComputeAlertsCalmDayIsEmpty(t *testing.T) {
	snap := uniformSnapshot(9, conditions{temp: 26, aqi: 40, uv: 2, precip: 10, humidity: 60})
	require.Empty(t, ComputeAlerts(snap, nil))
	require.Empty(t, ComputeAlerts(snap, respiratoryProfile()))
}

func TestComputeAlertsSensitivityThresholds(t *testing.T) {
	snap := uniformSnapshot(12, conditions{temp: 31, aqi: 60, uv: 4, precip: 0})

	require.Empty(t, ComputeAlerts(snap, nil))

	alerts := ComputeAlerts(snap, sensitivities(4, 4))
	require.Equal(t, []AlertType{AlertUV, AlertTemperature}, alertTypes(alerts))
	require.Equal(t, SeverityInfo, alerts[0].Severity)
	require.Equal(t, "With your skin sensitivity, use SPF 50+ if outdoors between 10am-4pm.", alerts[0].Description)
	require.Equal(t, SeverityInfo, alerts[1].Severity)
	require.Equal(t, "Given your heat sensitivity, stay hydrated and limit outdoor activities.", alerts[1].Description)

	alerts = ComputeAlerts(snap, respiratoryProfile())
	require.Equal(t, []AlertType{AlertAirQuality}, alertTypes(alerts))
	require.Equal(t, SeverityInfo, alerts[0].Severity)
}

func TestComputeAlertsSeverityBands(t *testing.T) {
	cases := []struct {
		name   string
		c      conditions
		typ    AlertType
		expect Severity
	}{
		{"aqi danger", conditions{aqi: 151}, AlertAirQuality, SeverityDanger},
		{"aqi warning", conditions{aqi: 101}, AlertAirQuality, SeverityWarning},
		{"uv danger", conditions{uv: 9}, AlertUV, SeverityDanger},
		{"heat danger", conditions{temp: 36}, AlertTemperature, SeverityDanger},
		{"rain info", conditions{precip: 80}, AlertPrecipitation, SeverityInfo},
		{"rain warning", conditions{precip: 95}, AlertPrecipitation, SeverityWarning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := ComputeAlerts(uniformSnapshot(8, tc.c), nil)
			require.Len(t, alerts, 1)
			require.Equal(t, tc.typ, alerts[0].Type)
			require.Equal(t, tc.expect, alerts[0].Severity)
		})
	}
}

func TestComputeAlertsAQIMonotonic(t *testing.T) {
	rank := map[Severity]int{SeverityInfo: 0, SeverityWarning: 1, SeverityDanger: 2}
	prev := -1
	for aqi := 51.0; aqi <= 300; aqi += 7 {
		alerts := ComputeAlerts(uniformSnapshot(8, conditions{aqi: aqi}), respiratoryProfile())
		require.NotEmpty(t, alerts)
		r := rank[alerts[0].Severity]
		require.GreaterOrEqual(t, r, prev, "aqi %v", aqi)
		prev = r
	}
}

func TestComputeAlertsPrecipitationTitle(t *testing.T) {
	alerts := ComputeAlerts(uniformSnapshot(8, conditions{precip: 85}), nil)
	require.Equal(t, "High chance of precipitation (85%)", alerts[0].Title)
	require.Equal(t, "umbrella", alerts[0].Icon)
}

func TestComputeAlertsIsPure(t *testing.T) {
	snap := uniformSnapshot(14, conditions{temp: 34, aqi: 160, uv: 9, precip: 95})
	p := sensitivities(5, 5)
	require.Equal(t, ComputeAlerts(snap, p), ComputeAlerts(snap, p))
}

func TestComputeActivityRecommendationsGoodDay(t *testing.T) {
	snap := uniformSnapshot(7, conditions{temp: 26, aqi: 40, humidity: 60})

	plan := ComputeActivityRecommendations(snap, nil)

	require.Equal(t, OptimalTimes{Morning: true, Afternoon: true, Evening: true}, plan.OptimalTimes)
	require.Equal(t, []string{"Comfortable temperature", "Better air quality", "Lower humidity"}, plan.Conditions)
	require.Len(t, plan.Recommendations, 2)
	require.Equal(t, "Morning walk in Hoan Kiem Lake", plan.Recommendations[0].Title)
	require.Equal(t, "Ideal before 9 AM when air quality is best for walking.", plan.Recommendations[0].Description)
	require.Equal(t, "activity", plan.Recommendations[0].Type)
	require.Equal(t, "Outdoor dining in West Lake area", plan.Recommendations[1].Title)
}

func TestComputeActivityRecommendationsBadDaySuggestsMuseum(t *testing.T) {
	snap := uniformSnapshot(7, conditions{temp: 34, aqi: 130, humidity: 85})

	plan := ComputeActivityRecommendations(snap, nil)

	require.Equal(t, OptimalTimes{}, plan.OptimalTimes)
	require.Empty(t, plan.Conditions)
	require.Len(t, plan.Recommendations, 1)
	require.Equal(t, "Visit the Vietnam National Museum", plan.Recommendations[0].Title)
	require.Equal(t, "museum", plan.Recommendations[0].Icon)
}

func TestComputeActivityRecommendationsRespiratoryTightensAir(t *testing.T) {
	snap := uniformSnapshot(7, conditions{temp: 26, aqi: 70, humidity: 60})

	require.True(t, ComputeActivityRecommendations(snap, nil).OptimalTimes.Morning)
	plan := ComputeActivityRecommendations(snap, respiratoryProfile())
	require.Equal(t, OptimalTimes{}, plan.OptimalTimes)
	require.Equal(t, "Visit the Vietnam National Museum", plan.Recommendations[0].Title)
}

func TestComputeActivityRecommendationsInterests(t *testing.T) {
	snap := uniformSnapshot(7, conditions{temp: 26, aqi: 40, humidity: 60})
	// Afternoon too hot, morning and evening fine.
	for i := 12; i < 16; i++ {
		snap.Hourly.Temperature[i] = 33
	}

	plan := ComputeActivityRecommendations(snap, withInterests("cycling", "photography"))

	titles := make([]string, 0, len(plan.Recommendations))
	for _, r := range plan.Recommendations {
		titles = append(titles, r.Title)
	}
	require.Equal(t, []string{
		"Outdoor dining in West Lake area",
		"Cycling around West Lake",
		"Photography at Long Bien Bridge",
	}, titles)
	require.Equal(t, "Great conditions in the morning for cycling.", plan.Recommendations[1].Description)
	require.Equal(t, "Capture beautiful sunset views in the evening.", plan.Recommendations[2].Description)
}

func TestComputeActivityRecommendationsEveningWalk(t *testing.T) {
	snap := uniformSnapshot(7, conditions{temp: 26, aqi: 40, humidity: 60})
	for i := 6; i < 10; i++ {
		snap.Hourly.AQI[i] = 120
	}

	plan := ComputeActivityRecommendations(snap, withInterests("walking_parks"))

	require.False(t, plan.OptimalTimes.Morning)
	require.Equal(t, "Consider an evening walk after 5 PM when conditions improve.", plan.Recommendations[0].Description)
}

func TestComputeClothingRecommendationsHotSunnyDay(t *testing.T) {
	snap := uniformSnapshot(9, conditions{temp: 31, aqi: 40, uv: 7, precip: 45})
	p := &profile.UserProfile{
		Sensitivities: &profile.EnvironmentalSensitivities{UVSensitivity: 4},
		Interests:     &profile.Interests{ClothingStyle: "fashionable"},
	}

	advice := ComputeClothingRecommendations(snap, p)

	require.Equal(t, []ClothingItem{
		{Icon: "checkroom", Label: "Light, breathable clothing"},
		{Icon: "face", Label: "SPF 50+ sunscreen"},
		{Icon: "umbrella", Label: "Bring umbrella (45% chance of rain)"},
	}, advice.Icons)
	require.Equal(t, []string{
		"Light cotton t-shirt and shorts/skirt for the day",
		"Apply high SPF sunscreen every 2 hours when outdoors",
		"Consider a wide-brimmed hat and UV-protective sunglasses",
		"Carry a compact umbrella or light raincoat",
		"Light, fashionable layers work well with today's conditions",
		"Bring a light jacket for air-conditioned indoor spaces",
	}, advice.Specifics)
}

func TestComputeClothingRecommendationsUsesPeakAhead(t *testing.T) {
	snap := uniformSnapshot(6, conditions{temp: 22, aqi: 40, uv: 1})
	snap.Hourly.Temperature[14] = 27
	snap.Hourly.Temperature[20] = 35 // outside the 12 hour window

	advice := ComputeClothingRecommendations(snap, nil)

	require.Equal(t, []ClothingItem{{Icon: "checkroom", Label: "Light to medium clothing"}}, advice.Icons)
	require.Equal(t, []string{"Light cotton clothing, consider a light long-sleeve for evening"}, advice.Specifics)
}

func TestComputeClothingRecommendationsMaskAndDefaults(t *testing.T) {
	snap := uniformSnapshot(6, conditions{temp: 20, aqi: 110, uv: 1})

	advice := ComputeClothingRecommendations(snap, nil)
	require.Equal(t, "Medium weight clothing", advice.Icons[0].Label)
	require.Equal(t, ClothingItem{Icon: "masks", Label: "Face mask recommended"}, advice.Icons[1])

	// Default sensitivity 3 on a saved record still asks for sunscreen.
	p := sensitivities(3, 3)
	p.Interests = &profile.Interests{ClothingStyle: "business_casual"}
	advice = ComputeClothingRecommendations(uniformSnapshot(6, conditions{temp: 20, aqi: 20, uv: 1}), p)
	require.Equal(t, ClothingItem{Icon: "face", Label: "SPF 30+ sunscreen"}, advice.Icons[1])
	require.Contains(t, advice.Specifics, "Lightweight business casual attire appropriate for today's weather")
}

func TestComputeSuitabilityScore(t *testing.T) {
	cases := []struct {
		name     string
		c        conditions
		activity string
		p        *profile.UserProfile
		expect   float64
	}{
		{"perfect", conditions{temp: 25, aqi: 20}, ActivityWalking, nil, 1},
		{"interest bonus clamps", conditions{temp: 25, aqi: 20}, ActivityWalking, withInterests("walking_parks"), 1},
		{"hot and moderate air", conditions{temp: 33, aqi: 60}, ActivityCycling, nil, 0.6},
		{"cold and drizzle", conditions{temp: 12, aqi: 20, precip: 40}, ActivityParks, nil, 0.7},
		{"cycling bonus", conditions{temp: 33, aqi: 60}, ActivityCycling, withInterests("cycling"), 0.7},
		{"parks via photography", conditions{temp: 33, aqi: 60}, ActivityParks, withInterests("photography"), 0.7},
		{"non matching interest", conditions{temp: 33, aqi: 60}, ActivityWalking, withInterests("cycling"), 0.6},
		{"respiratory penalty", conditions{temp: 25, aqi: 120}, ActivityWalking, respiratoryProfile(), 0.3},
		{"floor at zero", conditions{temp: 36, aqi: 160, precip: 80}, ActivityWalking, respiratoryProfile(), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSuitabilityScore(uniformSnapshot(9, tc.c), tc.activity, tc.p)
			require.InDelta(t, tc.expect, got, 1e-9)
		})
	}
}

func TestComputeSuitabilityScoreBoundedAndMonotonic(t *testing.T) {
	for _, activity := range []string{ActivityWalking, ActivityCycling, ActivityParks} {
		prev := 2.0
		for aqi := 0.0; aqi <= 250; aqi += 10 {
			got := ComputeSuitabilityScore(uniformSnapshot(9, conditions{temp: 28, aqi: aqi, precip: 35}), activity, respiratoryProfile())
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 1.0)
			require.LessOrEqual(t, got, prev, "aqi %v", aqi)
			prev = got
		}
	}
}

func TestCurrentActivityAlert(t *testing.T) {
	require.Equal(t, "High chance of precipitation - check forecast before planning this activity",
		CurrentActivityAlert(uniformSnapshot(9, conditions{precip: 80, aqi: 200, temp: 36}), nil))
	require.Equal(t, "Air quality is unhealthy today - consider indoor alternatives",
		CurrentActivityAlert(uniformSnapshot(9, conditions{aqi: 160}), nil))
	require.Empty(t, CurrentActivityAlert(uniformSnapshot(9, conditions{aqi: 120}), nil))
	require.Equal(t, "Current air quality may affect your respiratory condition",
		CurrentActivityAlert(uniformSnapshot(9, conditions{aqi: 120}), respiratoryProfile()))
	require.Equal(t, "Extreme heat today - avoid strenuous outdoor activities or plan for early morning",
		CurrentActivityAlert(uniformSnapshot(9, conditions{temp: 36, aqi: 30}), nil))
}
