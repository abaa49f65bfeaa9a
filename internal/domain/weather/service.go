package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

// Service exposes environmental data for the configured location.
type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	HourlyForecast(ctx context.Context, hours int) (TimeSeries, error)
	Current(ctx context.Context) (CurrentWeather, error)
	AirQuality(ctx context.Context) (AirQualityReport, error)
	Forecast(ctx context.Context) (Forecast, error)
	AirQualityForecast(ctx context.Context) (AirQuality, error)
	AirQualityHistory(ctx context.Context) (AirQuality, error)
	Historical(ctx context.Context) (Historical, error)
	Pollen(ctx context.Context) (Pollen, error)
}

// Source is the upstream provider of weather and air quality data.
type Source interface {
	Forecast(ctx context.Context) (Forecast, error)
	AirQuality(ctx context.Context, pastDays int) (AirQuality, error)
	Archive(ctx context.Context, start, end time.Time) (Historical, error)
	Pollen(ctx context.Context) (Pollen, error)
}

// Cache stores encoded provider responses for a limited time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MaxForecastHours bounds HourlyForecast requests to the 7 day forecast horizon.
const MaxForecastHours = 168

type service struct {
	cfg    Config
	source Source
	cache  Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the weather domain.
func NewService(cfg Config, source Source, cache Cache, logger *slog.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.ArchiveDays <= 0 {
		cfg.ArchiveDays = 365
	}
	return &service{
		cfg:    cfg,
		source: source,
		cache:  cache,
		logger: logger.With("component", "weather.service"),
		now:    time.Now,
	}
}

func (s *service) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		forecast Forecast
		aq       AirQuality
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forecast, err = s.Forecast(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		aq, err = s.AirQualityForecast(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap, err := BuildSnapshot(forecast, aq, s.localNow())
	if err != nil {
		s.logger.Warn("snapshot rejected", "error", err)
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *service) HourlyForecast(ctx context.Context, hours int) (TimeSeries, error) {
	if hours < 1 || hours > MaxForecastHours {
		return TimeSeries{}, apperrors.Wrap(apperrors.CodeInvalidInput, "hours must be between 1 and 168", nil)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return TimeSeries{}, err
	}
	from := snap.Hour
	available := snap.Hourly.Len() - from
	if hours > available {
		return TimeSeries{}, apperrors.Wrap(apperrors.CodeInvalidInput,
			fmt.Sprintf("hours must be between 1 and %d", available), nil)
	}
	to := from + hours
	return TimeSeries{
		Time:                     snap.Hourly.Time[from:to],
		Temperature:              snap.Hourly.Temperature[from:to],
		PrecipitationProbability: snap.Hourly.PrecipitationProbability[from:to],
		UVIndex:                  snap.Hourly.UVIndex[from:to],
		AQI:                      snap.Hourly.AQI[from:to],
	}, nil
}

func (s *service) Current(ctx context.Context) (CurrentWeather, error) {
	forecast, err := s.Forecast(ctx)
	if err != nil {
		return CurrentWeather{}, err
	}
	h := forecast.Hourly
	idx := dayStart(h.Time, s.localNow()) + s.localNow().Hour()
	if !covers(idx, h.Temperature, h.ApparentTemperature, h.RelativeHumidity, h.WindSpeed, h.SurfacePressure, h.Visibility) ||
		!covers(idx, h.WeatherCode, h.IsDay) {
		return CurrentWeather{}, apperrors.Wrap(apperrors.CodeIncompleteData, "forecast does not cover the current hour", nil)
	}
	codes := head(h.WeatherCode, MinHourlyCoverage)
	descriptions := make([]string, len(codes))
	for i, code := range codes {
		if code == nil {
			descriptions[i] = WeatherDescription(-1)
			continue
		}
		descriptions[i] = WeatherDescription(*code)
	}
	code := *h.WeatherCode[idx]
	return CurrentWeather{
		Current: CurrentReadings{
			Temperature:        *h.Temperature[idx],
			WeatherCode:        code,
			WeatherDescription: WeatherDescription(code),
			FeelsLike:          *h.ApparentTemperature[idx],
			Humidity:           *h.RelativeHumidity[idx],
			WindSpeed:          *h.WindSpeed[idx],
			Pressure:           *h.SurfacePressure[idx],
			Visibility:         *h.Visibility[idx],
			IsDay:              *h.IsDay[idx] == 1,
		},
		Hourly: HourlyOutlook{
			Time:               head(h.Time, MinHourlyCoverage),
			Temperature:        head(h.Temperature, MinHourlyCoverage),
			WeatherCode:        codes,
			WeatherDescription: descriptions,
		},
		Daily: DailyOutlook{
			Time:                     forecast.Daily.Time,
			WeatherCode:              forecast.Daily.WeatherCode,
			TemperatureMax:           forecast.Daily.TemperatureMax,
			TemperatureMin:           forecast.Daily.TemperatureMin,
			Sunrise:                  forecast.Daily.Sunrise,
			Sunset:                   forecast.Daily.Sunset,
			PrecipitationProbability: forecast.Daily.PrecipitationProbabilityMax,
		},
	}, nil
}

func (s *service) AirQuality(ctx context.Context) (AirQualityReport, error) {
	aq, err := s.AirQualityForecast(ctx)
	if err != nil {
		return AirQualityReport{}, err
	}
	h := aq.Hourly
	idx := dayStart(h.Time, s.localNow()) + s.localNow().Hour()
	if !covers(idx, h.PM25, h.PM10, h.NitrogenDioxide, h.Ozone, h.SulphurDioxide, h.CarbonMonoxide, h.EuropeanAQI) {
		return AirQualityReport{}, apperrors.Wrap(apperrors.CodeIncompleteData, "air quality does not cover the current hour", nil)
	}
	return AirQualityReport{
		Current: AirQualityReadings{
			PM25:        *h.PM25[idx],
			PM10:        *h.PM10[idx],
			NO2:         *h.NitrogenDioxide[idx],
			O3:          *h.Ozone[idx],
			SO2:         *h.SulphurDioxide[idx],
			CO:          *h.CarbonMonoxide[idx],
			AQI:         *h.EuropeanAQI[idx],
			AQICategory: AQICategory(*h.EuropeanAQI[idx]),
		},
		Hourly: AirQualityOutlook{
			Time: head(h.Time, MinHourlyCoverage),
			PM25: head(h.PM25, MinHourlyCoverage),
			PM10: head(h.PM10, MinHourlyCoverage),
			AQI:  head(h.EuropeanAQI, MinHourlyCoverage),
		},
	}, nil
}

func (s *service) Forecast(ctx context.Context) (Forecast, error) {
	return cached(ctx, s, "forecast", func(ctx context.Context) (Forecast, error) {
		f, err := s.source.Forecast(ctx)
		if err != nil {
			return Forecast{}, apperrors.Wrap(apperrors.CodeUpstream, "weather forecast data unavailable", err)
		}
		return f, nil
	})
}

func (s *service) AirQualityForecast(ctx context.Context) (AirQuality, error) {
	return cached(ctx, s, "air-quality", func(ctx context.Context) (AirQuality, error) {
		aq, err := s.source.AirQuality(ctx, 0)
		if err != nil {
			return AirQuality{}, apperrors.Wrap(apperrors.CodeUpstream, "air quality data unavailable", err)
		}
		return aq, nil
	})
}

func (s *service) AirQualityHistory(ctx context.Context) (AirQuality, error) {
	return cached(ctx, s, "air-quality:history", func(ctx context.Context) (AirQuality, error) {
		aq, err := s.source.AirQuality(ctx, s.cfg.HistoryPastDays)
		if err != nil {
			return AirQuality{}, apperrors.Wrap(apperrors.CodeUpstream, "historical air quality data unavailable", err)
		}
		return aq, nil
	})
}

func (s *service) Historical(ctx context.Context) (Historical, error) {
	end := s.localNow()
	start := end.AddDate(0, 0, -s.cfg.ArchiveDays)
	key := "historical:" + end.Format("2006-01-02")
	return cached(ctx, s, key, func(ctx context.Context) (Historical, error) {
		h, err := s.source.Archive(ctx, start, end)
		if err != nil {
			return Historical{}, apperrors.Wrap(apperrors.CodeUpstream, "historical weather data unavailable", err)
		}
		return h, nil
	})
}

func (s *service) Pollen(ctx context.Context) (Pollen, error) {
	return cached(ctx, s, "pollen", func(ctx context.Context) (Pollen, error) {
		p, err := s.source.Pollen(ctx)
		if err != nil {
			return Pollen{}, apperrors.Wrap(apperrors.CodeUpstream, "pollen data unavailable", err)
		}
		return p, nil
	})
}

func (s *service) localNow() time.Time {
	return s.now().In(s.cfg.Location)
}

// cached runs fetch through the response cache when one is configured and the TTL is positive.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *service, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return fetch(ctx)
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("weather cache lookup failed", "key", key, "error", err)
	} else if ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		s.logger.Warn("discarding undecodable cache entry", "key", key)
	}
	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("weather cache encode failed", "key", key, "error", err)
		return value, nil
	}
	if err := s.cache.Set(ctx, key, encoded, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("weather cache store failed", "key", key, "error", err)
	}
	return value, nil
}

// covers reports whether every series holds a non-null value at idx.
func covers[T any](idx int, series ...[]*T) bool {
	if idx < 0 {
		return false
	}
	for _, values := range series {
		if idx >= len(values) || values[idx] == nil {
			return false
		}
	}
	return true
}

func head[T any](values []T, n int) []T {
	if len(values) < n {
		return values
	}
	return values[:n]
}
