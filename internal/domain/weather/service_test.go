package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

func TestServiceSnapshotFetchesBothSources(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, hanoi)
	src := &stubSource{forecast: fixtureForecast(now, 168), aq: fixtureAirQuality(now, 168)}
	svc := newTestService(src, nil, now, 0)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8, snap.Hour)
	require.EqualValues(t, 1, src.forecastCalls.Load())
	require.EqualValues(t, 1, src.aqCalls.Load())
}

func TestServiceSnapshotPropagatesUpstreamFailure(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, hanoi)
	src := &stubSource{forecast: fixtureForecast(now, 48), aqErr: errors.New("status=503")}
	svc := newTestService(src, nil, now, 0)

	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
}

func TestServiceHourlyForecastStartsAtCurrentHour(t *testing.T) {
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, hanoi)
	src := &stubSource{forecast: fixtureForecast(now, 48), aq: fixtureAirQuality(now, 48)}
	svc := newTestService(src, nil, now, 0)

	series, err := svc.HourlyForecast(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, series.Time, 6)
	require.Equal(t, "2024-06-10T20:00", series.Time[0])
	require.Equal(t, "2024-06-11T01:00", series.Time[5])

	series, err = svc.HourlyForecast(context.Background(), 28)
	require.NoError(t, err)
	require.Len(t, series.Temperature, 28)
	require.Equal(t, "2024-06-11T23:00", series.Time[27])

	_, err = svc.HourlyForecast(context.Background(), 168)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Contains(t, err.Error(), "between 1 and 28")

	_, err = svc.HourlyForecast(context.Background(), 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceCurrentShapesForecast(t *testing.T) {
	now := time.Date(2024, 6, 10, 13, 0, 0, 0, hanoi)
	src := &stubSource{forecast: fixtureForecast(now, 168)}
	svc := newTestService(src, nil, now, 0)

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 37, current.Current.Temperature, 0.001)
	require.Equal(t, "Partly cloudy", current.Current.WeatherDescription)
	require.True(t, current.Current.IsDay)
	require.Len(t, current.Hourly.Time, 24)
	require.Len(t, current.Hourly.WeatherDescription, 24)
	require.Len(t, current.Daily.Time, 7)
}

func TestServiceAirQualityCategorizes(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, hanoi)
	src := &stubSource{aq: fixtureAirQuality(now, 48)}
	svc := newTestService(src, nil, now, 0)

	report, err := svc.AirQuality(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 55, report.Current.AQI, 0.001)
	require.Equal(t, "Moderate", report.Current.AQICategory)
	require.Len(t, report.Hourly.AQI, 24)
}

func TestServiceCurrentRejectsNullReadings(t *testing.T) {
	now := time.Date(2024, 6, 10, 13, 0, 0, 0, hanoi)
	forecast := fixtureForecast(now, 48)
	forecast.Hourly.WeatherCode[13] = nil
	src := &stubSource{forecast: forecast, aq: fixtureAirQuality(now, 48)}
	src.aq.Hourly.EuropeanAQI[13] = nil
	svc := newTestService(src, nil, now, 0)

	_, err := svc.Current(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeIncompleteData))

	_, err = svc.AirQuality(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeIncompleteData))
}

func TestServiceCachesWhenTTLPositive(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, hanoi)
	src := &stubSource{forecast: fixtureForecast(now, 48)}
	cache := newMapCache()
	svc := newTestService(src, cache, now, time.Minute)

	_, err := svc.Forecast(context.Background())
	require.NoError(t, err)
	_, err = svc.Forecast(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, src.forecastCalls.Load())
	require.Equal(t, time.Minute, cache.ttl["forecast"])
}

func TestServiceSkipsCacheWhenTTLZero(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, hanoi)
	src := &stubSource{forecast: fixtureForecast(now, 48)}
	cache := newMapCache()
	svc := newTestService(src, cache, now, 0)

	_, err := svc.Forecast(context.Background())
	require.NoError(t, err)
	_, err = svc.Forecast(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, src.forecastCalls.Load())
	require.Empty(t, cache.data)
}

func TestServiceHistoricalRequestsArchiveWindow(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, hanoi)
	src := &stubSource{}
	svc := newTestService(src, nil, now, 0)

	_, err := svc.Historical(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2023-06-11", src.archiveStart.Format("2006-01-02"))
	require.Equal(t, "2024-06-10", src.archiveEnd.Format("2006-01-02"))
}

func newTestService(src Source, cache Cache, now time.Time, ttl time.Duration) *service {
	return &service{
		cfg:    Config{Location: hanoi, CacheTTL: ttl, HistoryPastDays: 7, ArchiveDays: 365},
		source: src,
		cache:  cache,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return now },
	}
}

type stubSource struct {
	forecast      Forecast
	forecastErr   error
	aq            AirQuality
	aqErr         error
	forecastCalls atomic.Int32
	aqCalls       atomic.Int32
	archiveStart  time.Time
	archiveEnd    time.Time
}

func (s *stubSource) Forecast(context.Context) (Forecast, error) {
	s.forecastCalls.Add(1)
	return s.forecast, s.forecastErr
}

func (s *stubSource) AirQuality(context.Context, int) (AirQuality, error) {
	s.aqCalls.Add(1)
	return s.aq, s.aqErr
}

func (s *stubSource) Archive(_ context.Context, start, end time.Time) (Historical, error) {
	s.archiveStart, s.archiveEnd = start, end
	return Historical{}, nil
}

func (s *stubSource) Pollen(context.Context) (Pollen, error) {
	return Pollen{}, nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttl[key] = ttl
	return nil
}
