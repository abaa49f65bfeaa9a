package advisor

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog lists the activities offered to residents.
type Catalog struct {
	Outdoor []CatalogEntry `yaml:"outdoor"`
	Indoor  []CatalogEntry `yaml:"indoor"`
}

// CatalogEntry is one activity as authored in the catalog document.
type CatalogEntry struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	Locations    []Location `yaml:"locations"`
	BestWeather  []string   `yaml:"bestWeather"`
	WorstWeather []string   `yaml:"worstWeather"`
	Note         *Note      `yaml:"note"`
}

// Note is shown to residents whose sustainability interest reaches MinInterest.
type Note struct {
	MinInterest int    `yaml:"minInterest"`
	Text        string `yaml:"text"`
}

// LoadCatalog decodes the embedded activity catalog.
func LoadCatalog() (Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog decodes a catalog document and checks entry ids.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode activity catalog: %w", err)
	}
	seen := make(map[string]struct{})
	for _, e := range slices.Concat(c.Outdoor, c.Indoor) {
		if e.ID == "" {
			return Catalog{}, fmt.Errorf("activity catalog entry %q has no id", e.Name)
		}
		if _, dup := seen[e.ID]; dup {
			return Catalog{}, fmt.Errorf("activity catalog id %q is duplicated", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return c, nil
}

func (e CatalogEntry) activity(indoor bool) Activity {
	return Activity{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Locations:    slices.Clone(e.Locations),
		BestWeather:  slices.Clone(e.BestWeather),
		WorstWeather: slices.Clone(e.WorstWeather),
		Indoor:       indoor,
	}
}
