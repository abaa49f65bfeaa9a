package weather

import "time"

// Forecast mirrors the Open-Meteo forecast payload for the configured location.
type Forecast struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Timezone  string         `json:"timezone"`
	Hourly    ForecastHourly `json:"hourly"`
	Daily     ForecastDaily  `json:"daily"`
}

// ForecastHourly holds the hourly forecast arrays, index aligned with Time.
// Open-Meteo reports missing hours as null, kept here as nil.
type ForecastHourly struct {
	Time                     []string   `json:"time"`
	Temperature              []*float64 `json:"temperature_2m"`
	DewPoint                 []*float64 `json:"dew_point_2m,omitempty"`
	RelativeHumidity         []*float64 `json:"relative_humidity_2m"`
	ApparentTemperature      []*float64 `json:"apparent_temperature"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
	Precipitation            []*float64 `json:"precipitation,omitempty"`
	WeatherCode              []*int     `json:"weather_code"`
	SurfacePressure          []*float64 `json:"surface_pressure"`
	CloudCover               []*float64 `json:"cloud_cover"`
	Visibility               []*float64 `json:"visibility"`
	IsDay                    []*int     `json:"is_day"`
	WindSpeed                []*float64 `json:"wind_speed_10m"`
	WindDirection            []*float64 `json:"wind_direction_10m,omitempty"`
	WindGusts                []*float64 `json:"wind_gusts_10m,omitempty"`
	UVIndex                  []*float64 `json:"uv_index,omitempty"`
}

// ForecastDaily holds the daily forecast arrays.
type ForecastDaily struct {
	Time                        []string  `json:"time"`
	WeatherCode                 []int     `json:"weather_code"`
	TemperatureMax              []float64 `json:"temperature_2m_max"`
	TemperatureMin              []float64 `json:"temperature_2m_min"`
	Sunrise                     []string  `json:"sunrise"`
	Sunset                      []string  `json:"sunset"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	PrecipitationSum            []float64 `json:"precipitation_sum,omitempty"`
}

// AirQuality mirrors the Open-Meteo air quality payload.
type AirQuality struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Timezone  string           `json:"timezone"`
	Hourly    AirQualityHourly `json:"hourly"`
}

// AirQualityHourly holds hourly pollutant concentrations and indices.
type AirQualityHourly struct {
	Time            []string   `json:"time"`
	PM10            []*float64 `json:"pm10"`
	PM25            []*float64 `json:"pm2_5"`
	NitrogenDioxide []*float64 `json:"nitrogen_dioxide"`
	SulphurDioxide  []*float64 `json:"sulphur_dioxide"`
	Ozone           []*float64 `json:"ozone"`
	CarbonMonoxide  []*float64 `json:"carbon_monoxide"`
	EuropeanAQI     []*float64 `json:"european_aqi"`
	UVIndex         []*float64 `json:"uv_index"`
}

// Historical mirrors the daily archive payload.
type Historical struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Timezone  string          `json:"timezone"`
	Daily     HistoricalDaily `json:"daily"`
}

// HistoricalDaily holds daily archive aggregates.
type HistoricalDaily struct {
	Time             []string  `json:"time"`
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	TemperatureMean  []float64 `json:"temperature_2m_mean"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
	RainSum          []float64 `json:"rain_sum"`
	WeatherCode      []int     `json:"weather_code"`
}

// Pollen mirrors the hourly pollen payload.
type Pollen struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone"`
	Hourly    PollenHourly `json:"hourly"`
}

// PollenHourly holds grains/m³ per pollen family.
type PollenHourly struct {
	Time    []string  `json:"time"`
	Birch   []float64 `json:"birch_pollen"`
	Alder   []float64 `json:"alder_pollen"`
	Grass   []float64 `json:"grass_pollen"`
	Mugwort []float64 `json:"mugwort_pollen"`
	Olive   []float64 `json:"olive_pollen"`
	Ragweed []float64 `json:"ragweed_pollen"`
}

// CurrentWeather is the dashboard view of the forecast.
type CurrentWeather struct {
	Current CurrentReadings `json:"current"`
	Hourly  HourlyOutlook   `json:"hourly"`
	Daily   DailyOutlook    `json:"daily"`
}

// CurrentReadings is the forecast value at the current local hour.
type CurrentReadings struct {
	Temperature        float64 `json:"temperature"`
	WeatherCode        int     `json:"weatherCode"`
	WeatherDescription string  `json:"weatherDescription"`
	FeelsLike          float64 `json:"feelsLike"`
	Humidity           float64 `json:"humidity"`
	WindSpeed          float64 `json:"windSpeed"`
	Pressure           float64 `json:"pressure"`
	Visibility         float64 `json:"visibility"`
	IsDay              bool    `json:"isDay"`
}

// HourlyOutlook lists the first 24 hourly values of the day.
type HourlyOutlook struct {
	Time               []string   `json:"time"`
	Temperature        []*float64 `json:"temperature"`
	WeatherCode        []*int     `json:"weatherCode"`
	WeatherDescription []string   `json:"weatherDescription"`
}

// DailyOutlook lists the daily forecast.
type DailyOutlook struct {
	Time                     []string  `json:"time"`
	WeatherCode              []int     `json:"weatherCode"`
	TemperatureMax           []float64 `json:"temperatureMax"`
	TemperatureMin           []float64 `json:"temperatureMin"`
	Sunrise                  []string  `json:"sunrise"`
	Sunset                   []string  `json:"sunset"`
	PrecipitationProbability []float64 `json:"precipitationProbability"`
}

// AirQualityReport is the dashboard view of air quality.
type AirQualityReport struct {
	Current AirQualityReadings `json:"current"`
	Hourly  AirQualityOutlook  `json:"hourly"`
}

// AirQualityReadings holds pollutant values at the current local hour.
type AirQualityReadings struct {
	PM25        float64 `json:"pm2_5"`
	PM10        float64 `json:"pm10"`
	NO2         float64 `json:"no2"`
	O3          float64 `json:"o3"`
	SO2         float64 `json:"so2"`
	CO          float64 `json:"co"`
	AQI         float64 `json:"aqi"`
	AQICategory string  `json:"aqiCategory"`
}

// AirQualityOutlook lists the first 24 hourly values of the day.
type AirQualityOutlook struct {
	Time []string   `json:"time"`
	PM25 []*float64 `json:"pm2_5"`
	PM10 []*float64 `json:"pm10"`
	AQI  []*float64 `json:"aqi"`
}

// TimeSeries is a forward looking hourly series starting at the current hour.
type TimeSeries struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature"`
	PrecipitationProbability []float64 `json:"precipitationProbability"`
	UVIndex                  []float64 `json:"uvIndex"`
	AQI                      []float64 `json:"aqi"`
}

// Config contains the knobs the weather service needs.
type Config struct {
	Location        *time.Location
	CacheTTL        time.Duration
	HistoryPastDays int
	ArchiveDays     int
}
