package advisor

// AlertType classifies an environmental alert.
type AlertType string

const (
	AlertAirQuality    AlertType = "air_quality"
	AlertUV            AlertType = "uv"
	AlertTemperature   AlertType = "temperature"
	AlertPrecipitation AlertType = "precipitation"
	// AlertWind is reserved; no rule emits it yet.
	AlertWind AlertType = "wind"
)

// Severity ranks an alert.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Alert is a single environmental warning.
type Alert struct {
	Type        AlertType `json:"type"`
	Severity    Severity  `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// Recommendation is a suggested activity.
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OptimalTimes flags which day windows suit outdoor activity.
type OptimalTimes struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Evening   bool `json:"evening"`
}

// ActivityPlan is the activity recommendation response.
type ActivityPlan struct {
	Recommendations []Recommendation `json:"recommendations"`
	OptimalTimes    OptimalTimes     `json:"optimalTimes"`
	Conditions      []string         `json:"conditions"`
}

// ClothingItem is an icon with its caption.
type ClothingItem struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// ClothingAdvice lists what to wear today.
type ClothingAdvice struct {
	Icons     []ClothingItem `json:"icons"`
	Specifics []string       `json:"specifics"`
}

// HealthAdvice groups temperature, UV and air quality guidance.
type HealthAdvice struct {
	Temperature TemperatureAdvice `json:"temperature"`
	UV          UVAdvice          `json:"uv"`
	AirQuality  AirQualityAdvice  `json:"airQuality"`
}

// TemperatureAdvice is guidance for the current temperature.
type TemperatureAdvice struct {
	Current         int      `json:"current"`
	IsHot           bool     `json:"isHot"`
	IsCold          bool     `json:"isCold"`
	Recommendations []string `json:"recommendations"`
}

// UVAdvice is guidance for the current UV index.
type UVAdvice struct {
	Index           float64  `json:"index"`
	Category        string   `json:"category"`
	Recommendations []string `json:"recommendations"`
}

// AirQualityAdvice is guidance for the current AQI.
type AirQualityAdvice struct {
	AQI             float64  `json:"aqi"`
	Category        string   `json:"category"`
	Recommendations []string `json:"recommendations"`
}

// TimeSlot describes one upcoming hour.
type TimeSlot struct {
	Hour          int      `json:"hour"`
	Label         string   `json:"label"`
	Conditions    []string `json:"conditions"`
	Suitable      bool     `json:"suitable"`
	Icon          string   `json:"icon"`
	Temperature   int      `json:"temperature"`
	Precipitation float64  `json:"precipitation"`
	Humidity      int      `json:"humidity"`
	UV            int      `json:"uv"`
	AQI           float64  `json:"aqi"`
}

// Activity is a catalog entry enriched for the caller.
type Activity struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Locations        []Location `json:"locations"`
	BestWeather      []string   `json:"bestWeather"`
	WorstWeather     []string   `json:"worstWeather"`
	Indoor           bool       `json:"indoor"`
	SuitabilityScore *float64   `json:"suitabilityScore,omitempty"`
	CurrentAlert     string     `json:"currentAlert,omitempty"`
	PersonalizedNote string     `json:"personalizedNote,omitempty"`
}

// Location is a place an activity can happen.
type Location struct {
	Name        string      `json:"name" yaml:"name"`
	Address     string      `json:"address" yaml:"address"`
	Description string      `json:"description" yaml:"description"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	BestTimes   []string    `json:"bestTimes" yaml:"bestTimes"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}
