package seeds

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// AHJFixture is one seed jurisdiction as written in the YAML fixture file.
type AHJFixture struct {
	ExternalID     string   `yaml:"external_id"`
	Name           string   `yaml:"name"`
	Classification string   `yaml:"classification"`
	County         string   `yaml:"county"`
	State          string   `yaml:"state"`
	Lat            float64  `yaml:"lat"`
	Lng            float64  `yaml:"lng"`
	Phone          string   `yaml:"phone"`
	Website        string   `yaml:"website"`
	PermitPortal   string   `yaml:"permit_portal"`
	CountiesServed []string `yaml:"counties_served"`
	Requirements   []string `yaml:"requirements"`
	TurnaroundDays int      `yaml:"turnaround_days"`
}

// UtilityFixture is one seed utility.
type UtilityFixture struct {
	ExternalID         string   `yaml:"external_id"`
	Name               string   `yaml:"name"`
	Abbreviation       string   `yaml:"abbreviation"`
	State              string   `yaml:"state"`
	Lat                float64  `yaml:"lat"`
	Lng                float64  `yaml:"lng"`
	ServiceCounties    []string `yaml:"service_counties"`
	NetMetering        bool     `yaml:"net_metering"`
	InterconnectionURL string   `yaml:"interconnection_url"`
	Phone              string   `yaml:"phone"`
}

// FixtureFile is the top-level shape of a seed YAML file.
type FixtureFile struct {
	AHJs      []AHJFixture     `yaml:"ahjs"`
	Utilities []UtilityFixture `yaml:"utilities"`
}

// LoadFixtures parses a seed YAML file.
func LoadFixtures(path string) (*FixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}

	var f FixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture file %s: %w", path, err)
	}

	for i, a := range f.AHJs {
		if a.ExternalID == "" || a.Name == "" {
			return nil, fmt.Errorf("ahj fixture %d: external_id and name are required", i)
		}
	}
	for i, u := range f.Utilities {
		if u.ExternalID == "" || u.Name == "" {
			return nil, fmt.Errorf("utility fixture %d: external_id and name are required", i)
		}
	}

	return &f, nil
}
