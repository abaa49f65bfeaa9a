package weather

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

var hanoi = time.FixedZone("Asia/Ho_Chi_Minh", 7*60*60)

func TestBuildSnapshotReadsCurrentHour(t *testing.T) {
	now := time.Date(2024, 6, 10, 14, 20, 0, 0, hanoi)
	forecast := fixtureForecast(now, 48)
	aq := fixtureAirQuality(now, 48)

	snap, err := BuildSnapshot(forecast, aq, now)
	require.NoError(t, err)
	require.Equal(t, 14, snap.Hour)
	require.Equal(t, 48, snap.Hourly.Len())
	require.Equal(t, "2024-06-10T14:00", snap.Hourly.Time[snap.Hour])
	require.InDelta(t, 24.0+14, snap.Current.Temperature, 0.001)
	require.InDelta(t, 40.0+14, snap.Current.AQI, 0.001)
	require.InDelta(t, 1.0+14.0/10, snap.Current.UVIndex, 0.001)
	require.True(t, snap.Current.IsDay)
	require.Equal(t, 2, snap.Current.WeatherCode)
}

func TestBuildSnapshotAlignsToLocalMidnight(t *testing.T) {
	now := time.Date(2024, 6, 10, 3, 0, 0, 0, hanoi)
	forecast := fixtureForecast(now.AddDate(0, 0, -1), 72)
	aq := fixtureAirQuality(now, 48)

	snap, err := BuildSnapshot(forecast, aq, now)
	require.NoError(t, err)
	require.Equal(t, "2024-06-10T00:00", snap.Hourly.Time[0])
	require.Equal(t, 48, snap.Hourly.Len())
	require.InDelta(t, 24.0+3, snap.Current.Temperature, 0.001)
}

func TestBuildSnapshotRejectsShortSeries(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, hanoi)
	forecast := fixtureForecast(now, 48)
	aq := fixtureAirQuality(now, 48)
	aq.Hourly.EuropeanAQI = aq.Hourly.EuropeanAQI[:12]

	_, err := BuildSnapshot(forecast, aq, now)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeIncompleteData))
	require.Contains(t, err.Error(), "european_aqi")
}

func TestBuildSnapshotRejectsMissingSeries(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, hanoi)
	forecast := fixtureForecast(now, 48)
	forecast.Hourly.Visibility = nil

	_, err := BuildSnapshot(forecast, fixtureAirQuality(now, 48), now)
	require.True(t, apperrors.IsCode(err, apperrors.CodeIncompleteData))
}

func TestBuildSnapshotRejectsNullCurrentHour(t *testing.T) {
	now := time.Date(2024, 6, 10, 14, 20, 0, 0, hanoi)
	aq := decodeAirQuality(t, fixtureAirQuality(now, 48), func(hourly map[string]any) {
		hourly["european_aqi"].([]any)[14] = nil
	})

	_, err := BuildSnapshot(fixtureForecast(now, 48), aq, now)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeIncompleteData))
	require.Contains(t, err.Error(), "european_aqi has no value at hour 14")
}

func TestBuildSnapshotRejectsNullInsideDay(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, hanoi)
	forecast := fixtureForecast(now, 48)
	forecast.Hourly.Temperature[20] = nil

	_, err := BuildSnapshot(forecast, fixtureAirQuality(now, 48), now)
	require.True(t, apperrors.IsCode(err, apperrors.CodeIncompleteData))
	require.Contains(t, err.Error(), "temperature_2m")
}

func TestBuildSnapshotTruncatesAtLaterNull(t *testing.T) {
	now := time.Date(2024, 6, 10, 14, 0, 0, 0, hanoi)
	aq := fixtureAirQuality(now, 48)
	aq.Hourly.PM25[30] = nil
	forecast := fixtureForecast(now, 48)
	forecast.Hourly.IsDay[40] = nil

	snap, err := BuildSnapshot(forecast, aq, now)
	require.NoError(t, err)
	require.Equal(t, 30, snap.Hourly.Len())
	require.Len(t, snap.Hourly.Time, 30)
	require.Len(t, snap.Hourly.IsDay, 30)
	require.InDelta(t, 20, snap.Current.PM25, 0.001)
}

func fixtureForecast(day time.Time, hours int) Forecast {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	h := ForecastHourly{}
	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		hod := float64(ts.Hour())
		h.Time = append(h.Time, ts.Format("2006-01-02T15:04"))
		h.Temperature = append(h.Temperature, fp(24+hod))
		h.ApparentTemperature = append(h.ApparentTemperature, fp(25+hod))
		h.RelativeHumidity = append(h.RelativeHumidity, fp(60+hod))
		h.PrecipitationProbability = append(h.PrecipitationProbability, fp(10))
		h.SurfacePressure = append(h.SurfacePressure, fp(1008))
		h.CloudCover = append(h.CloudCover, fp(40))
		h.Visibility = append(h.Visibility, fp(10000))
		h.WindSpeed = append(h.WindSpeed, fp(8))
		h.WeatherCode = append(h.WeatherCode, ip(2))
		isDay := 0
		if ts.Hour() >= 6 && ts.Hour() < 18 {
			isDay = 1
		}
		h.IsDay = append(h.IsDay, ip(isDay))
	}
	days := (hours + 23) / 24
	d := ForecastDaily{}
	for i := 0; i < days; i++ {
		ts := start.AddDate(0, 0, i)
		d.Time = append(d.Time, ts.Format("2006-01-02"))
		d.WeatherCode = append(d.WeatherCode, 2)
		d.TemperatureMax = append(d.TemperatureMax, 34)
		d.TemperatureMin = append(d.TemperatureMin, 25)
		d.Sunrise = append(d.Sunrise, ts.Format("2006-01-02")+"T05:20")
		d.Sunset = append(d.Sunset, ts.Format("2006-01-02")+"T18:40")
		d.PrecipitationProbabilityMax = append(d.PrecipitationProbabilityMax, 30)
	}
	return Forecast{Latitude: 21.0245, Longitude: 105.8412, Timezone: "Asia/Ho_Chi_Minh", Hourly: h, Daily: d}
}

func fixtureAirQuality(day time.Time, hours int) AirQuality {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	h := AirQualityHourly{}
	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		hod := float64(ts.Hour())
		h.Time = append(h.Time, ts.Format("2006-01-02T15:04"))
		h.EuropeanAQI = append(h.EuropeanAQI, fp(40+hod))
		h.UVIndex = append(h.UVIndex, fp(1+hod/10))
		h.PM25 = append(h.PM25, fp(20))
		h.PM10 = append(h.PM10, fp(30))
		h.NitrogenDioxide = append(h.NitrogenDioxide, fp(15))
		h.Ozone = append(h.Ozone, fp(60))
		h.SulphurDioxide = append(h.SulphurDioxide, fp(5))
		h.CarbonMonoxide = append(h.CarbonMonoxide, fp(300))
	}
	return AirQuality{Latitude: 21.0245, Longitude: 105.8412, Timezone: "Asia/Ho_Chi_Minh", Hourly: h}
}

func ptr[T any](v T) *T {
	return &v
}

func fp(v float64) *float64 { return ptr(v) }

func ip(v int) *int { return ptr(v) }

// decodeAirQuality round trips aq through the provider JSON shape so edit can null out values.
func decodeAirQuality(t *testing.T, aq AirQuality, edit func(hourly map[string]any)) AirQuality {
	t.Helper()
	raw, err := json.Marshal(aq)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	edit(doc["hourly"].(map[string]any))
	raw, err = json.Marshal(doc)
	require.NoError(t, err)
	var out AirQuality
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
