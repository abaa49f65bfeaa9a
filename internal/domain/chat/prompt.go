package chat

import (
	"strings"

	"github.com/yanqian/ecosense/internal/domain/profile"
)

// BuildSystemPrompt personalises the base prompt with declared health details
// and strong sensitivities. Sections that were never saved add nothing.
func BuildSystemPrompt(base string, p *profile.UserProfile) string {
	var b strings.Builder
	b.WriteString(base)
	if p == nil {
		return b.String()
	}
	if h := p.Health; h != nil {
		b.WriteString(" User has")
		if p.HasRespiratory() {
			b.WriteString(" respiratory conditions,")
		}
		if p.HasAllergies() {
			b.WriteString(" allergies,")
		}
		if h.CardiovascularConcerns {
			b.WriteString(" cardiovascular concerns,")
		}
		if h.SkinConditions {
			b.WriteString(" skin conditions,")
		}
		fitness := h.FitnessLevel
		if fitness == "" {
			fitness = "unknown"
		}
		b.WriteString(" and their fitness level is " + fitness + ".")
	}
	if s := p.Sensitivities; s != nil {
		b.WriteString(" User is")
		if s.PollutionSensitivity >= 4 {
			b.WriteString(" very sensitive to pollution,")
		}
		if s.UVSensitivity >= 4 {
			b.WriteString(" very sensitive to UV radiation,")
		}
		if s.HeatSensitivity >= 4 {
			b.WriteString(" very sensitive to heat,")
		}
		if s.ColdSensitivity >= 4 {
			b.WriteString(" very sensitive to cold,")
		}
		b.WriteString(" consider these sensitivities in your responses.")
	}
	return b.String()
}
