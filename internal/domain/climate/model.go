package climate

// DailyClimate mirrors the Open-Meteo climate model payload.
type DailyClimate struct {
	Daily DailyClimateSeries `json:"daily"`
}

// DailyClimateSeries holds modelled daily values.
type DailyClimateSeries struct {
	Time             []string   `json:"time"`
	TemperatureMean  []*float64 `json:"temperature_2m_mean"`
	TemperatureMax   []*float64 `json:"temperature_2m_max,omitempty"`
	TemperatureMin   []*float64 `json:"temperature_2m_min,omitempty"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// Discharge mirrors the Open-Meteo flood payload.
type Discharge struct {
	Daily DischargeSeries `json:"daily"`
}

// DischargeSeries holds daily river discharge in m³/s.
type DischargeSeries struct {
	Time           []string  `json:"time"`
	RiverDischarge []float64 `json:"river_discharge"`
}

// PrecipitationOutlook is the daily precipitation forecast used as a discharge proxy.
type PrecipitationOutlook struct {
	Daily PrecipitationSeries `json:"daily"`
}

// PrecipitationSeries holds daily precipitation totals in mm.
type PrecipitationSeries struct {
	Time                        []string  `json:"time"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
}

// YearRecord is the aggregated climate of one calendar year.
type YearRecord struct {
	Year          int     `json:"year"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
}

// Data is the climate history view.
type Data struct {
	Temperature   YearSeries    `json:"temperature"`
	Precipitation YearSeries    `json:"precipitation"`
	ExtremeEvents ExtremeEvents `json:"extremeEvents"`
	Source        string        `json:"source"`
}

// YearSeries pairs years with one value each.
type YearSeries struct {
	Years  []int     `json:"years"`
	Values []float64 `json:"values"`
}

// ExtremeEvents holds estimated yearly event counts.
type ExtremeEvents struct {
	Years     []int `json:"years"`
	Heatwaves []int `json:"heatwaves"`
	Floods    []int `json:"floods"`
	Droughts  []int `json:"droughts"`
}

// RiskLevel classifies flood risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskSevere   RiskLevel = "severe"
)

// FloodRisk is the current level plus a week of daily levels.
type FloodRisk struct {
	Risk     RiskLevel `json:"risk"`
	Forecast []DayRisk `json:"forecast"`
	Source   string    `json:"source"`
}

// DayRisk is the flood risk for one date.
type DayRisk struct {
	Date      string    `json:"date"`
	Risk      RiskLevel `json:"risk"`
	Discharge float64   `json:"discharge"`
}

// Projections are scenario temperature trends.
type Projections struct {
	Years       []int              `json:"years"`
	Temperature ScenarioProjection `json:"temperature"`
	Source      string             `json:"source"`
}

// ScenarioProjection lists one temperature per year for each scenario.
type ScenarioProjection struct {
	Optimistic  []float64 `json:"optimistic"`
	Moderate    []float64 `json:"moderate"`
	Pessimistic []float64 `json:"pessimistic"`
}

// Config contains climate service knobs.
type Config struct {
	ProjectionYears   int
	ProjectionBase    float64
	FloodForecastDays int
}
