package sustainability

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

// previousTipCount is how many other tips accompany the tip of the day.
const previousTipCount = 3

// Service serves tips and community initiatives.
type Service interface {
	DailyTips(now time.Time) DailyTips
	Initiatives() []Initiative
}

type service struct {
	content  Content
	location *time.Location
}

// NewService decodes the embedded content. location picks the calendar day; nil means UTC.
func NewService(location *time.Location) (Service, error) {
	content, err := ParseContent(contentYAML)
	if err != nil {
		return nil, err
	}
	if location == nil {
		location = time.UTC
	}
	return &service{content: content, location: location}, nil
}

// ParseContent decodes a content document. At least one tip is required.
func ParseContent(data []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, fmt.Errorf("decode sustainability content: %w", err)
	}
	if len(c.Tips) == 0 {
		return Content{}, errors.New("sustainability content has no tips")
	}
	return c, nil
}

// DailyTips rotates the tip of the day by day of year.
func (s *service) DailyTips(now time.Time) DailyTips {
	tips := s.content.Tips
	daily := tips[now.In(s.location).YearDay()%len(tips)]
	previous := make([]Tip, 0, previousTipCount)
	for _, t := range tips {
		if len(previous) == previousTipCount {
			break
		}
		if t.Title != daily.Title {
			previous = append(previous, t)
		}
	}
	return DailyTips{
		DailyTip:         daily,
		PreviousTips:     previous,
		LocalInitiatives: slices.Clone(s.content.LocalInitiatives),
	}
}

func (s *service) Initiatives() []Initiative {
	return slices.Clone(s.content.Initiatives)
}
