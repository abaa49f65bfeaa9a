package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/ecosense/internal/domain/climate"
	"github.com/yanqian/ecosense/internal/domain/weather"
	"github.com/yanqian/ecosense/pkg/metrics"
)

const (
	forecastHourly = "temperature_2m,dew_point_2m,relative_humidity_2m,apparent_temperature,precipitation_probability," +
		"precipitation,weather_code,surface_pressure,cloud_cover,visibility,is_day,wind_speed_10m,wind_direction_10m," +
		"wind_gusts_10m,uv_index"
	forecastDaily    = "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset,precipitation_probability_max"
	airQualityHourly = "pm10,pm2_5,nitrogen_dioxide,sulphur_dioxide,ozone,carbon_monoxide,european_aqi,uv_index"
	pollenHourly     = "birch_pollen,alder_pollen,grass_pollen,mugwort_pollen,olive_pollen,ragweed_pollen"
	archiveDaily     = "temperature_2m_max,temperature_2m_min,temperature_2m_mean,precipitation_sum,rain_sum,weather_code"
	climateDaily     = "temperature_2m_max,temperature_2m_min,temperature_2m_mean,precipitation_sum"

	climateModel     = "MPI_ESM1_2_XR"
	climateStartDate = "1990-01-01"
	climateEndDate   = "2023-12-31"
	floodDays        = 10
)

// Config describes the location and endpoints the client queries.
type Config struct {
	ForecastURL   string
	AirQualityURL string
	ArchiveURL    string
	ClimateURL    string
	FloodURL      string
	Latitude      float64
	Longitude     float64
	Timezone      string
	ForecastDays  int
	Timeout       time.Duration
}

// Client fetches weather, air quality, climate and flood data from Open-Meteo.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var (
	_ weather.Source = (*Client)(nil)
	_ climate.Source = (*Client)(nil)
)

// NewClient builds an API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 7
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		cfg.Timezone = "auto"
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Forecast retrieves the hourly and daily forecast.
func (c *Client) Forecast(ctx context.Context) (weather.Forecast, error) {
	params := c.baseParams()
	params.Set("hourly", forecastHourly)
	params.Set("daily", forecastDaily)
	params.Set("forecast_days", strconv.Itoa(c.cfg.ForecastDays))

	var out weather.Forecast
	err := c.get(ctx, "forecast", c.cfg.ForecastURL, params, &out)
	return out, err
}

// AirQuality retrieves hourly pollutant data, optionally including past days.
func (c *Client) AirQuality(ctx context.Context, pastDays int) (weather.AirQuality, error) {
	params := c.baseParams()
	params.Set("hourly", airQualityHourly)
	params.Set("forecast_days", strconv.Itoa(min(c.cfg.ForecastDays, 7)))
	if pastDays > 0 {
		params.Set("past_days", strconv.Itoa(pastDays))
	}

	var out weather.AirQuality
	err := c.get(ctx, "air_quality", c.cfg.AirQualityURL, params, &out)
	return out, err
}

// Archive retrieves daily observations between start and end inclusive.
func (c *Client) Archive(ctx context.Context, start, end time.Time) (weather.Historical, error) {
	params := c.baseParams()
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("daily", archiveDaily)

	var out weather.Historical
	err := c.get(ctx, "archive", c.cfg.ArchiveURL, params, &out)
	return out, err
}

// Pollen retrieves hourly pollen concentrations.
func (c *Client) Pollen(ctx context.Context) (weather.Pollen, error) {
	params := c.baseParams()
	params.Set("hourly", pollenHourly)
	params.Set("forecast_days", strconv.Itoa(min(c.cfg.ForecastDays, 7)))

	var out weather.Pollen
	err := c.get(ctx, "pollen", c.cfg.AirQualityURL, params, &out)
	return out, err
}

// DailyClimate retrieves modelled daily climate values for 1990 through 2023.
func (c *Client) DailyClimate(ctx context.Context) (climate.DailyClimate, error) {
	params := c.baseParams()
	params.Set("start_date", climateStartDate)
	params.Set("end_date", climateEndDate)
	params.Set("models", climateModel)
	params.Set("daily", climateDaily)

	var out climate.DailyClimate
	err := c.get(ctx, "climate", c.cfg.ClimateURL, params, &out)
	return out, err
}

// RiverDischarge retrieves the daily river discharge forecast.
func (c *Client) RiverDischarge(ctx context.Context) (climate.Discharge, error) {
	params := c.baseParams()
	params.Set("daily", "river_discharge")
	params.Set("forecast_days", strconv.Itoa(floodDays))

	var out climate.Discharge
	err := c.get(ctx, "flood", c.cfg.FloodURL, params, &out)
	return out, err
}

// PrecipitationOutlook retrieves daily precipitation totals for the flood proxy.
func (c *Client) PrecipitationOutlook(ctx context.Context) (climate.PrecipitationOutlook, error) {
	params := c.baseParams()
	params.Set("daily", "precipitation_sum,precipitation_probability_max")
	params.Set("forecast_days", strconv.Itoa(floodDays))

	var out climate.PrecipitationOutlook
	err := c.get(ctx, "forecast_precipitation", c.cfg.ForecastURL, params, &out)
	return out, err
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	params.Set("timezone", c.cfg.Timezone)
	return params
}

func (c *Client) get(ctx context.Context, source, baseURL string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(source, err, time.Since(start))
	}()

	endpoint := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if endpoint == "" {
		return fmt.Errorf("%s endpoint not configured", source)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s request error: status=%d body=%s", source, resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", source, err)
	}

	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error {
		return fmt.Errorf("%s api error: %s", source, apiErr.Reason)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", source, err)
	}
	return nil
}

type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

var (
	_ weather.Source = (*Client)(nil)
	_ climate.Source = (*Client)(nil)
)
