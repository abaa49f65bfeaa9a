package sustainability

// Tip is a short piece of advice.
type Tip struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Icon    string `json:"icon" yaml:"icon"`
}

// LocalInitiative is an ongoing city program.
type LocalInitiative struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

// Initiative is an upcoming community event.
type Initiative struct {
	Title        string `json:"title" yaml:"title"`
	Organizer    string `json:"organizer" yaml:"organizer"`
	Description  string `json:"description" yaml:"description"`
	Date         string `json:"date" yaml:"date"`
	Time         string `json:"time" yaml:"time"`
	Location     string `json:"location" yaml:"location"`
	Participants int    `json:"participants" yaml:"participants"`
	UserJoined   bool   `json:"userJoined" yaml:"-"`
}

// DailyTips is the tips page payload.
type DailyTips struct {
	DailyTip         Tip               `json:"dailyTip"`
	PreviousTips     []Tip             `json:"previousTips"`
	LocalInitiatives []LocalInitiative `json:"localInitiatives"`
}

// Content is the static document backing the service.
type Content struct {
	Tips             []Tip             `yaml:"tips"`
	LocalInitiatives []LocalInitiative `yaml:"localInitiatives"`
	Initiatives      []Initiative      `yaml:"initiatives"`
}
