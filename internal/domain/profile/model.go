package profile

import (
	"slices"
	"time"
)

// DefaultScale is the value sensitivity and interest scales take on first write.
const DefaultScale = 3

// UserProfile aggregates the survey answers of one user. A nil section was never saved.
type UserProfile struct {
	UserID        int64                       `json:"-"`
	Health        *HealthProfile              `json:"healthProfile"`
	Lifestyle     *LifestyleHabits            `json:"lifestyleHabits"`
	Sensitivities *EnvironmentalSensitivities `json:"environmentalSensitivities"`
	Interests     *Interests                  `json:"interests"`
	Survey        *Survey                     `json:"-"`
	UpdatedAt     time.Time                   `json:"-"`
}

// HealthProfile records declared health conditions.
type HealthProfile struct {
	RespiratoryConditions    []string `json:"respiratoryConditions"`
	HasRespiratoryConditions bool     `json:"hasRespiratoryConditions"`
	Allergies                []string `json:"allergies"`
	HasAllergies             bool     `json:"hasAllergies"`
	CardiovascularConcerns   bool     `json:"cardiovascularConcerns"`
	SkinConditions           bool     `json:"skinConditions"`
	FitnessLevel             string   `json:"fitnessLevel"`
}

// LifestyleHabits records daily routine answers.
type LifestyleHabits struct {
	DailyRoutine       string   `json:"dailyRoutine"`
	Transportation     []string `json:"transportation"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	SleepHabits        string   `json:"sleepHabits"`
}

// EnvironmentalSensitivities are 1 to 5 self ratings.
type EnvironmentalSensitivities struct {
	PollutionSensitivity int `json:"pollutionSensitivity"`
	UVSensitivity        int `json:"uvSensitivity"`
	HeatSensitivity      int `json:"heatSensitivity"`
	ColdSensitivity      int `json:"coldSensitivity"`
}

// Interests records activity and content preferences.
type Interests struct {
	OutdoorActivities      []string `json:"outdoorActivities"`
	ClothingStyle          string   `json:"clothingStyle"`
	SustainabilityInterest int      `json:"sustainabilityInterest"`
	Notifications          []string `json:"notifications"`
}

// Survey tracks onboarding progress.
type Survey struct {
	Completed bool `json:"completed"`
	LastStep  int  `json:"lastStep"`
}

// Overview is the account level view of a profile.
type Overview struct {
	ID                 int64        `json:"id"`
	Username           string       `json:"username"`
	HasSurveyCompleted bool         `json:"hasSurveyCompleted"`
	UserProfile        *UserProfile `json:"userProfile"`
}

// HasRespiratory reports declared respiratory conditions: the flag or a non-empty list.
func (p *UserProfile) HasRespiratory() bool {
	if p == nil || p.Health == nil {
		return false
	}
	return p.Health.HasRespiratoryConditions || len(p.Health.RespiratoryConditions) > 0
}

// HasAllergies reports declared allergies: the flag or a non-empty list.
func (p *UserProfile) HasAllergies() bool {
	if p == nil || p.Health == nil {
		return false
	}
	return p.Health.HasAllergies || len(p.Health.Allergies) > 0
}

// PollutionSensitivity returns the rating, or 0 when sensitivities were never saved.
func (p *UserProfile) PollutionSensitivity() int {
	if p == nil || p.Sensitivities == nil {
		return 0
	}
	return p.Sensitivities.PollutionSensitivity
}

// UVSensitivity returns the rating, or 0 when sensitivities were never saved.
func (p *UserProfile) UVSensitivity() int {
	if p == nil || p.Sensitivities == nil {
		return 0
	}
	return p.Sensitivities.UVSensitivity
}

// HeatSensitivity returns the rating, or 0 when sensitivities were never saved.
func (p *UserProfile) HeatSensitivity() int {
	if p == nil || p.Sensitivities == nil {
		return 0
	}
	return p.Sensitivities.HeatSensitivity
}

// ColdSensitivity returns the rating, or 0 when sensitivities were never saved.
func (p *UserProfile) ColdSensitivity() int {
	if p == nil || p.Sensitivities == nil {
		return 0
	}
	return p.Sensitivities.ColdSensitivity
}

// OutdoorActivities returns declared outdoor interests, possibly empty.
func (p *UserProfile) OutdoorActivities() []string {
	if p == nil || p.Interests == nil {
		return nil
	}
	return p.Interests.OutdoorActivities
}

// ClothingStyle returns the declared style or an empty string.
func (p *UserProfile) ClothingStyle() string {
	if p == nil || p.Interests == nil {
		return ""
	}
	return p.Interests.ClothingStyle
}

// SustainabilityInterest returns the rating, or 0 when interests were never saved.
func (p *UserProfile) SustainabilityInterest() int {
	if p == nil || p.Interests == nil {
		return 0
	}
	return p.Interests.SustainabilityInterest
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Health != nil {
		h := *p.Health
		h.RespiratoryConditions = slices.Clone(h.RespiratoryConditions)
		h.Allergies = slices.Clone(h.Allergies)
		out.Health = &h
	}
	if p.Lifestyle != nil {
		l := *p.Lifestyle
		l.Transportation = slices.Clone(l.Transportation)
		l.DietaryPreferences = slices.Clone(l.DietaryPreferences)
		out.Lifestyle = &l
	}
	if p.Sensitivities != nil {
		s := *p.Sensitivities
		out.Sensitivities = &s
	}
	if p.Interests != nil {
		i := *p.Interests
		i.OutdoorActivities = slices.Clone(i.OutdoorActivities)
		i.Notifications = slices.Clone(i.Notifications)
		out.Interests = &i
	}
	if p.Survey != nil {
		s := *p.Survey
		out.Survey = &s
	}
	return out
}
