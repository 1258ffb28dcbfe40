package survey

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Axis string

const (
	AxisGender     Axis = "gender"
	AxisRace       Axis = "race"
	AxisLGBTQ      Axis = "lgbtq"
	AxisDisability Axis = "disability"
	AxisVeteran    Axis = "veteran"
	AxisCAResident Axis = "ca_resident"
)

// DeclineMarker is the wire value a respondent sends to decline one axis.
const DeclineMarker = "decline"

// Axes lists every demographic axis in canonical order.
func Axes() []Axis {
	return []Axis{AxisGender, AxisRace, AxisLGBTQ, AxisDisability, AxisVeteran, AxisCAResident}
}

// AxisSpec maps recognized wire values on one axis to canonical categories.
// A wire value may alias a category ("none" -> "other",
// "disabled_veteran" -> "disabled").
type AxisSpec struct {
	Name   string            `yaml:"name" json:"name"`
	Values map[string]string `yaml:"values" json:"values"`
}

type Catalog struct {
	Axes []AxisSpec `yaml:"axes" json:"axes"`
}

// LoadCatalog reads an axis catalog from a YAML file. An empty path yields
// the built-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}

	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}

	if len(cat.Axes) == 0 {
		return Catalog{}, errors.New("no survey axes configured")
	}

	return cat, nil
}

// DefaultCatalog returns the axis catalog used for DFPI reporting.
func DefaultCatalog() Catalog {
	return Catalog{Axes: []AxisSpec{
		{Name: string(AxisGender), Values: map[string]string{
			"woman":       "woman",
			"man":         "man",
			"nonbinary":   "nonbinary",
			"transgender": "transgender",
			"none":        "other",
		}},
		{Name: string(AxisRace), Values: map[string]string{
			"black":            "black",
			"asian":            "asian",
			"hispanic":         "hispanic",
			"native_american":  "native_american",
			"pacific_islander": "pacific_islander",
			"white":            "white",
			"none":             "other",
		}},
		{Name: string(AxisLGBTQ), Values: map[string]string{
			"yes": "yes",
			"no":  "no",
		}},
		{Name: string(AxisDisability), Values: map[string]string{
			"yes": "yes",
			"no":  "no",
		}},
		{Name: string(AxisVeteran), Values: map[string]string{
			"veteran":          "yes",
			"disabled_veteran": "disabled",
			"no":               "no",
		}},
		{Name: string(AxisCAResident), Values: map[string]string{
			"yes": "yes",
			"no":  "no",
		}},
	}}
}

func (c Catalog) spec(axis Axis) (AxisSpec, bool) {
	for _, s := range c.Axes {
		if s.Name == string(axis) {
			return s, true
		}
	}
	return AxisSpec{}, false
}

// Resolve maps a wire value on the given axis to its canonical category.
// Unrecognized values resolve to ok=false and are dropped by the caller.
func (c Catalog) Resolve(axis Axis, value string) (string, bool) {
	s, ok := c.spec(axis)
	if !ok {
		return "", false
	}
	category, ok := s.Values[value]
	return category, ok
}
