package weather

import (
	"fmt"
	"time"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

// MinHourlyCoverage is the number of hourly samples a snapshot needs for a full day.
const MinHourlyCoverage = 24

// Snapshot is a point in time reading plus the hourly series of the local day.
// Hourly index i is local hour i of today; Hour is the index of "now".
type Snapshot struct {
	ObservedAt time.Time  `json:"observedAt"`
	Hour       int        `json:"hour"`
	Current    Conditions `json:"current"`
	Hourly     Series     `json:"hourly"`
}

// Conditions are the readings at the current local hour.
type Conditions struct {
	Temperature              float64 `json:"temperature"`
	FeelsLike                float64 `json:"feelsLike"`
	Humidity                 float64 `json:"humidity"`
	WindSpeed                float64 `json:"windSpeed"`
	Pressure                 float64 `json:"pressure"`
	Visibility               float64 `json:"visibility"`
	PrecipitationProbability float64 `json:"precipitationProbability"`
	CloudCover               float64 `json:"cloudCover"`
	UVIndex                  float64 `json:"uvIndex"`
	IsDay                    bool    `json:"isDay"`
	WeatherCode              int     `json:"weatherCode"`
	AQI                      float64 `json:"aqi"`
	PM25                     float64 `json:"pm2_5"`
	PM10                     float64 `json:"pm10"`
	NO2                      float64 `json:"no2"`
	O3                       float64 `json:"o3"`
	SO2                      float64 `json:"so2"`
	CO                       float64 `json:"co"`
}

// Series holds the hourly arrays the evaluator reads.
type Series struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature"`
	Humidity                 []float64 `json:"humidity"`
	PrecipitationProbability []float64 `json:"precipitationProbability"`
	CloudCover               []float64 `json:"cloudCover"`
	WindSpeed                []float64 `json:"windSpeed"`
	UVIndex                  []float64 `json:"uvIndex"`
	AQI                      []float64 `json:"aqi"`
	IsDay                    []bool    `json:"isDay"`
	WeatherCode              []int     `json:"weatherCode"`
}

// Len returns the number of hourly samples.
func (s Series) Len() int {
	return len(s.Temperature)
}

// BuildSnapshot aligns forecast and air quality series to local midnight and
// extracts the readings for now. Every series must hold a value for each hour of
// today and for now; a missing, short or null-gapped series fails with
// incomplete_data. Hours after the first null in any series are dropped.
func BuildSnapshot(forecast Forecast, aq AirQuality, now time.Time) (Snapshot, error) {
	fStart := dayStart(forecast.Hourly.Time, now)
	aStart := dayStart(aq.Hourly.Time, now)
	hour := now.Hour()

	fh := forecast.Hourly
	ah := aq.Hourly
	floats := []struct {
		name   string
		values []*float64
		start  int
	}{
		{"temperature_2m", fh.Temperature, fStart},
		{"relative_humidity_2m", fh.RelativeHumidity, fStart},
		{"apparent_temperature", fh.ApparentTemperature, fStart},
		{"precipitation_probability", fh.PrecipitationProbability, fStart},
		{"surface_pressure", fh.SurfacePressure, fStart},
		{"cloud_cover", fh.CloudCover, fStart},
		{"visibility", fh.Visibility, fStart},
		{"wind_speed_10m", fh.WindSpeed, fStart},
		{"european_aqi", ah.EuropeanAQI, aStart},
		{"uv_index", ah.UVIndex, aStart},
		{"pm2_5", ah.PM25, aStart},
		{"pm10", ah.PM10, aStart},
		{"nitrogen_dioxide", ah.NitrogenDioxide, aStart},
		{"ozone", ah.Ozone, aStart},
		{"sulphur_dioxide", ah.SulphurDioxide, aStart},
		{"carbon_monoxide", ah.CarbonMonoxide, aStart},
	}
	n := -1
	for _, f := range floats {
		present, total := leading(f.values, f.start)
		if err := checkCoverage(f.name, present, total, hour); err != nil {
			return Snapshot{}, err
		}
		n = minLen(n, present)
	}
	ints := []struct {
		name   string
		values []*int
	}{
		{"weather_code", fh.WeatherCode},
		{"is_day", fh.IsDay},
	}
	for _, f := range ints {
		present, total := leading(f.values, fStart)
		if err := checkCoverage(f.name, present, total, hour); err != nil {
			return Snapshot{}, err
		}
		n = minLen(n, present)
	}
	times := max(len(fh.Time)-fStart, 0)
	if err := checkCoverage("time", times, times, hour); err != nil {
		return Snapshot{}, err
	}
	n = minLen(n, times)

	cut := func(values []*float64, start int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = *values[start+i]
		}
		return out
	}
	isDay := make([]bool, n)
	codes := make([]int, n)
	for i := range isDay {
		isDay[i] = *fh.IsDay[fStart+i] == 1
		codes[i] = *fh.WeatherCode[fStart+i]
	}
	series := Series{
		Time:                     fh.Time[fStart : fStart+n],
		Temperature:              cut(fh.Temperature, fStart),
		Humidity:                 cut(fh.RelativeHumidity, fStart),
		PrecipitationProbability: cut(fh.PrecipitationProbability, fStart),
		CloudCover:               cut(fh.CloudCover, fStart),
		WindSpeed:                cut(fh.WindSpeed, fStart),
		UVIndex:                  cut(ah.UVIndex, aStart),
		AQI:                      cut(ah.EuropeanAQI, aStart),
		IsDay:                    isDay,
		WeatherCode:              codes,
	}
	fi := fStart + hour
	ai := aStart + hour
	return Snapshot{
		ObservedAt: now,
		Hour:       hour,
		Hourly:     series,
		Current: Conditions{
			Temperature:              series.Temperature[hour],
			FeelsLike:                *fh.ApparentTemperature[fi],
			Humidity:                 series.Humidity[hour],
			WindSpeed:                series.WindSpeed[hour],
			Pressure:                 *fh.SurfacePressure[fi],
			Visibility:               *fh.Visibility[fi],
			PrecipitationProbability: series.PrecipitationProbability[hour],
			CloudCover:               series.CloudCover[hour],
			UVIndex:                  series.UVIndex[hour],
			IsDay:                    series.IsDay[hour],
			WeatherCode:              series.WeatherCode[hour],
			AQI:                      series.AQI[hour],
			PM25:                     *ah.PM25[ai],
			PM10:                     *ah.PM10[ai],
			NO2:                      *ah.NitrogenDioxide[ai],
			O3:                       *ah.Ozone[ai],
			SO2:                      *ah.SulphurDioxide[ai],
			CO:                       *ah.CarbonMonoxide[ai],
		},
	}, nil
}

// leading counts the values from start up to the first null, and the values from start overall.
func leading[T any](values []*T, start int) (present, total int) {
	total = max(len(values)-start, 0)
	for present < total && values[start+present] != nil {
		present++
	}
	return present, total
}

// dayStart finds local midnight of now's date in an Open-Meteo time axis.
// Series requested with a timezone start at midnight, so 0 is the fallback.
func dayStart(times []string, now time.Time) int {
	midnight := now.Format("2006-01-02") + "T00:00"
	for i, ts := range times {
		if ts == midnight {
			return i
		}
	}
	return 0
}

func checkCoverage(name string, present, total, hour int) error {
	if present >= MinHourlyCoverage && present > hour {
		return nil
	}
	if present < total {
		return apperrors.Wrap(apperrors.CodeIncompleteData, "environmental data incomplete",
			fmt.Errorf("series %s has no value at hour %d", name, present))
	}
	return apperrors.Wrap(apperrors.CodeIncompleteData, "environmental data incomplete",
		fmt.Errorf("series %s has %d hourly values", name, total))
}

func minLen(current, candidate int) int {
	if current < 0 || candidate < current {
		return candidate
	}
	return current
}
