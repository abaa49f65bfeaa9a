package profile

import (
	"errors"
	"fmt"
)

// Update is a partial profile payload. Only supplied sections and fields are written.
type Update struct {
	Health        *HealthUpdate        `json:"healthProfile"`
	Lifestyle     *LifestyleUpdate     `json:"lifestyleHabits"`
	Sensitivities *SensitivitiesUpdate `json:"environmentalSensitivities"`
	Interests     *InterestsUpdate     `json:"interests"`
}

// HealthUpdate carries optional health fields.
type HealthUpdate struct {
	RespiratoryConditions    *[]string `json:"respiratoryConditions"`
	HasRespiratoryConditions *bool     `json:"hasRespiratoryConditions"`
	Allergies                *[]string `json:"allergies"`
	HasAllergies             *bool     `json:"hasAllergies"`
	CardiovascularConcerns   *bool     `json:"cardiovascularConcerns"`
	SkinConditions           *bool     `json:"skinConditions"`
	FitnessLevel             *string   `json:"fitnessLevel"`
}

// LifestyleUpdate carries optional lifestyle fields.
type LifestyleUpdate struct {
	DailyRoutine       *string   `json:"dailyRoutine"`
	Transportation     *[]string `json:"transportation"`
	DietaryPreferences *[]string `json:"dietaryPreferences"`
	SleepHabits        *string   `json:"sleepHabits"`
}

// SensitivitiesUpdate carries optional sensitivity ratings.
type SensitivitiesUpdate struct {
	PollutionSensitivity *int `json:"pollutionSensitivity"`
	UVSensitivity        *int `json:"uvSensitivity"`
	HeatSensitivity      *int `json:"heatSensitivity"`
	ColdSensitivity      *int `json:"coldSensitivity"`
}

// InterestsUpdate carries optional interest fields.
type InterestsUpdate struct {
	OutdoorActivities      *[]string `json:"outdoorActivities"`
	ClothingStyle          *string   `json:"clothingStyle"`
	SustainabilityInterest *int      `json:"sustainabilityInterest"`
	Notifications          *[]string `json:"notifications"`
}

// Empty reports whether the update carries no section.
func (u Update) Empty() bool {
	return u.Health == nil && u.Lifestyle == nil && u.Sensitivities == nil && u.Interests == nil
}

// Validate checks scale ranges before any state is touched.
func (u Update) Validate() error {
	var errs []error
	if s := u.Sensitivities; s != nil {
		errs = append(errs,
			checkScale("pollutionSensitivity", s.PollutionSensitivity),
			checkScale("uvSensitivity", s.UVSensitivity),
			checkScale("heatSensitivity", s.HeatSensitivity),
			checkScale("coldSensitivity", s.ColdSensitivity),
		)
	}
	if i := u.Interests; i != nil {
		errs = append(errs, checkScale("sustainabilityInterest", i.SustainabilityInterest))
	}
	return errors.Join(errs...)
}

// Apply merges the update into p, creating absent sections with per field defaults.
func (u Update) Apply(p *UserProfile) {
	if u.Health != nil {
		if p.Health == nil {
			p.Health = &HealthProfile{RespiratoryConditions: []string{}, Allergies: []string{}}
		}
		u.Health.apply(p.Health)
	}
	if u.Lifestyle != nil {
		if p.Lifestyle == nil {
			p.Lifestyle = &LifestyleHabits{Transportation: []string{}, DietaryPreferences: []string{}}
		}
		u.Lifestyle.apply(p.Lifestyle)
	}
	if u.Sensitivities != nil {
		if p.Sensitivities == nil {
			p.Sensitivities = &EnvironmentalSensitivities{
				PollutionSensitivity: DefaultScale,
				UVSensitivity:        DefaultScale,
				HeatSensitivity:      DefaultScale,
				ColdSensitivity:      DefaultScale,
			}
		}
		u.Sensitivities.apply(p.Sensitivities)
	}
	if u.Interests != nil {
		if p.Interests == nil {
			p.Interests = &Interests{
				OutdoorActivities:      []string{},
				SustainabilityInterest: DefaultScale,
				Notifications:          []string{},
			}
		}
		u.Interests.apply(p.Interests)
	}
}

func (u *HealthUpdate) apply(h *HealthProfile) {
	setList(&h.RespiratoryConditions, u.RespiratoryConditions)
	setValue(&h.HasRespiratoryConditions, u.HasRespiratoryConditions)
	setList(&h.Allergies, u.Allergies)
	setValue(&h.HasAllergies, u.HasAllergies)
	setValue(&h.CardiovascularConcerns, u.CardiovascularConcerns)
	setValue(&h.SkinConditions, u.SkinConditions)
	setValue(&h.FitnessLevel, u.FitnessLevel)
}

func (u *LifestyleUpdate) apply(l *LifestyleHabits) {
	setValue(&l.DailyRoutine, u.DailyRoutine)
	setList(&l.Transportation, u.Transportation)
	setList(&l.DietaryPreferences, u.DietaryPreferences)
	setValue(&l.SleepHabits, u.SleepHabits)
}

func (u *SensitivitiesUpdate) apply(s *EnvironmentalSensitivities) {
	setValue(&s.PollutionSensitivity, u.PollutionSensitivity)
	setValue(&s.UVSensitivity, u.UVSensitivity)
	setValue(&s.HeatSensitivity, u.HeatSensitivity)
	setValue(&s.ColdSensitivity, u.ColdSensitivity)
}

func (u *InterestsUpdate) apply(i *Interests) {
	setList(&i.OutdoorActivities, u.OutdoorActivities)
	setValue(&i.ClothingStyle, u.ClothingStyle)
	setValue(&i.SustainabilityInterest, u.SustainabilityInterest)
	setList(&i.Notifications, u.Notifications)
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setList(dst *[]string, src *[]string) {
	if src == nil {
		return
	}
	if *src == nil {
		*dst = []string{}
		return
	}
	*dst = append([]string(nil), (*src)...)
}

func checkScale(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < 1 || *v > 5 {
		return fmt.Errorf("%s must be between 1 and 5", field)
	}
	return nil
}
