package climate

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

// Service exposes climate history, flood risk and projections.
type Service interface {
	Data(ctx context.Context) (Data, error)
	FloodRisk(ctx context.Context) (FloodRisk, error)
	Projections(ctx context.Context) (Projections, error)
}

// Source is the upstream climate and hydrology provider.
type Source interface {
	DailyClimate(ctx context.Context) (DailyClimate, error)
	RiverDischarge(ctx context.Context) (Discharge, error)
	PrecipitationOutlook(ctx context.Context) (PrecipitationOutlook, error)
}

// Archive persists aggregated yearly climate records.
type Archive interface {
	Load(ctx context.Context) ([]YearRecord, bool, error)
	Store(ctx context.Context, records []YearRecord) error
}

const (
	sourceArchive     = "archive"
	sourceOpenMeteo   = "open-meteo"
	sourceFloodAPI    = "flood-api"
	sourcePrecipProxy = "precipitation-proxy"
	sourcePlaceholder = "placeholder"
)

// Scenario slopes in °C per year.
const (
	optimisticSlope  = 0.035
	moderateSlope    = 0.065
	pessimisticSlope = 0.09
)

type service struct {
	cfg     Config
	source  Source
	archive Archive
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the climate domain.
func NewService(cfg Config, source Source, archive Archive, logger *slog.Logger) Service {
	if cfg.ProjectionYears <= 0 {
		cfg.ProjectionYears = 28
	}
	if cfg.ProjectionBase == 0 {
		cfg.ProjectionBase = 25.5
	}
	if cfg.FloodForecastDays <= 0 {
		cfg.FloodForecastDays = 7
	}
	return &service{
		cfg:     cfg,
		source:  source,
		archive: archive,
		logger:  logger.With("component", "climate.service"),
		now:     time.Now,
	}
}

func (s *service) Data(ctx context.Context) (Data, error) {
	if s.archive != nil {
		records, found, err := s.archive.Load(ctx)
		switch {
		case err != nil:
			s.logger.Warn("climate archive unavailable", "error", err)
		case found && len(records) > 0:
			return buildData(records, sourceArchive), nil
		}
	}

	daily, err := s.source.DailyClimate(ctx)
	if err != nil {
		return Data{}, apperrors.Wrap(apperrors.CodeUpstream, "climate data unavailable", err)
	}
	records := Aggregate(daily)
	if len(records) == 0 {
		return Data{}, apperrors.Wrap(apperrors.CodeIncompleteData, "climate data contained no complete years", nil)
	}
	if s.archive != nil {
		if err := s.archive.Store(ctx, records); err != nil {
			s.logger.Warn("climate archive store failed", "error", err)
		}
	}
	s.logger.Info("climate data aggregated", "years", len(records))
	return buildData(records, sourceOpenMeteo), nil
}

func (s *service) FloodRisk(ctx context.Context) (FloodRisk, error) {
	times, discharge, source, err := s.discharge(ctx)
	if err != nil {
		return FloodRisk{}, err
	}
	if len(discharge) == 0 {
		return FloodRisk{}, apperrors.Wrap(apperrors.CodeIncompleteData, "flood data contained no discharge values", nil)
	}
	days := min(s.cfg.FloodForecastDays, len(discharge))
	forecast := make([]DayRisk, 0, days)
	for i := 0; i < days; i++ {
		date := ""
		if i < len(times) {
			date = times[i]
		}
		forecast = append(forecast, DayRisk{Date: date, Risk: Level(discharge[i]), Discharge: discharge[i]})
	}
	return FloodRisk{Risk: Level(discharge[0]), Forecast: forecast, Source: source}, nil
}

// discharge prefers the flood API and falls back to a precipitation driven estimate.
func (s *service) discharge(ctx context.Context) ([]string, []float64, string, error) {
	flood, err := s.source.RiverDischarge(ctx)
	if err == nil && len(flood.Daily.RiverDischarge) > 0 {
		return flood.Daily.Time, flood.Daily.RiverDischarge, sourceFloodAPI, nil
	}
	if err != nil {
		s.logger.Warn("flood api unavailable, using precipitation proxy", "error", err)
	}
	outlook, perr := s.source.PrecipitationOutlook(ctx)
	if perr != nil {
		return nil, nil, "", apperrors.Wrap(apperrors.CodeUpstream, "flood risk data unavailable", perr)
	}
	estimated := make([]float64, len(outlook.Daily.PrecipitationSum))
	for i, precip := range outlook.Daily.PrecipitationSum {
		estimated[i] = EstimateDischarge(precip)
	}
	return outlook.Daily.Time, estimated, sourcePrecipProxy, nil
}

func (s *service) Projections(context.Context) (Projections, error) {
	start := s.now().Year()
	n := s.cfg.ProjectionYears
	out := Projections{
		Years:  make([]int, n),
		Source: sourcePlaceholder,
		Temperature: ScenarioProjection{
			Optimistic:  make([]float64, n),
			Moderate:    make([]float64, n),
			Pessimistic: make([]float64, n),
		},
	}
	for i := 0; i < n; i++ {
		out.Years[i] = start + i
		out.Temperature.Optimistic[i] = round1(s.cfg.ProjectionBase + float64(i)*optimisticSlope)
		out.Temperature.Moderate[i] = round1(s.cfg.ProjectionBase + float64(i)*moderateSlope)
		out.Temperature.Pessimistic[i] = round1(s.cfg.ProjectionBase + float64(i)*pessimisticSlope)
	}
	return out, nil
}

// Aggregate groups daily values into calendar years. A year is kept only when it has
// at least one temperature and one precipitation value.
func Aggregate(daily DailyClimate) []YearRecord {
	type acc struct {
		tempSum, precipSum     float64
		tempCount, precipCount int
	}
	years := map[int]*acc{}
	for i, date := range daily.Daily.Time {
		yearStr, _, _ := strings.Cut(date, "-")
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			continue
		}
		a := years[year]
		if a == nil {
			a = &acc{}
			years[year] = a
		}
		if v := at(daily.Daily.TemperatureMean, i); v != nil {
			a.tempSum += *v
			a.tempCount++
		}
		if v := at(daily.Daily.PrecipitationSum, i); v != nil {
			a.precipSum += *v
			a.precipCount++
		}
	}
	records := make([]YearRecord, 0, len(years))
	for year, a := range years {
		if a.tempCount == 0 || a.precipCount == 0 {
			continue
		}
		records = append(records, YearRecord{
			Year:          year,
			Temperature:   a.tempSum / float64(a.tempCount),
			Precipitation: a.precipSum,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records
}

// EstimateDischarge converts daily precipitation in mm into a river flow proxy in m³/s.
func EstimateDischarge(precipitation float64) float64 {
	return 100 + precipitation*10
}

// Level classifies a river discharge value.
func Level(discharge float64) RiskLevel {
	switch {
	case discharge > 1000:
		return RiskSevere
	case discharge > 700:
		return RiskHigh
	case discharge > 400:
		return RiskModerate
	default:
		return RiskLow
	}
}

// Heatwaves estimates yearly heatwave events from the mean temperature.
func Heatwaves(meanTemp float64) int {
	return clamp(int(math.Floor((meanTemp-24)*0.8)), 0, 10)
}

// Floods estimates yearly flood events from total precipitation.
func Floods(totalPrecip float64) int {
	return clamp(int(math.Floor(totalPrecip/1500)), 0, 8)
}

// Droughts estimates yearly drought events from the mean temperature.
func Droughts(meanTemp float64) int {
	return clamp(int(math.Floor((30-meanTemp)*0.3)), 0, 5)
}

func buildData(records []YearRecord, source string) Data {
	n := len(records)
	data := Data{
		Temperature:   YearSeries{Years: make([]int, n), Values: make([]float64, n)},
		Precipitation: YearSeries{Years: make([]int, n), Values: make([]float64, n)},
		ExtremeEvents: ExtremeEvents{
			Years:     make([]int, n),
			Heatwaves: make([]int, n),
			Floods:    make([]int, n),
			Droughts:  make([]int, n),
		},
		Source: source,
	}
	for i, r := range records {
		data.Temperature.Years[i] = r.Year
		data.Temperature.Values[i] = round1(r.Temperature)
		data.Precipitation.Years[i] = r.Year
		data.Precipitation.Values[i] = round1(r.Precipitation)
		data.ExtremeEvents.Years[i] = r.Year
		data.ExtremeEvents.Heatwaves[i] = Heatwaves(r.Temperature)
		data.ExtremeEvents.Floods[i] = Floods(r.Precipitation)
		data.ExtremeEvents.Droughts[i] = Droughts(r.Temperature)
	}
	return data
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
