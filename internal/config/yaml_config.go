package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the dashboard.yaml file.
// Dataset shape settings that are awkward to express as env vars.
type YAMLConfig struct {
	Columns           ColumnsConfig `yaml:"columns"`
	EngagementMetrics []string      `yaml:"engagement_metrics"`
	DisabledViews     []string      `yaml:"disabled_views"`
}

// ColumnsConfig maps logical dataset fields to CSV header names.
type ColumnsConfig struct {
	Date      string `yaml:"date"`
	Country   string `yaml:"country"`
	Continent string `yaml:"continent"`
	Gender    string `yaml:"gender"`
	Sport     string `yaml:"sport"`
}

// DefaultEngagementMetrics are the columns offered by the Viewer Engagement view.
var DefaultEngagementMetrics = []string{"Request", "Rating", "Feedback"}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "dashboard.yaml".
// Returns defaults without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFrom(getEnv("CONFIG_FILE", "dashboard.yaml"))
}

// LoadYAMLConfigFrom loads the YAML configuration from an explicit path.
func LoadYAMLConfigFrom(path string) (*YAMLConfig, error) {
	var cfg YAMLConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// Config file is optional
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *YAMLConfig) applyDefaults() {
	if c.Columns.Date == "" {
		c.Columns.Date = "Date"
	}
	if c.Columns.Country == "" {
		c.Columns.Country = "Country"
	}
	if c.Columns.Continent == "" {
		c.Columns.Continent = "Continent"
	}
	if c.Columns.Gender == "" {
		c.Columns.Gender = "Gender"
	}
	if c.Columns.Sport == "" {
		c.Columns.Sport = "Sport Viewed"
	}
	if len(c.EngagementMetrics) == 0 {
		c.EngagementMetrics = append([]string(nil), DefaultEngagementMetrics...)
	}
}

// IsViewDisabled reports whether a view is switched off in the config.
func (c *YAMLConfig) IsViewDisabled(name string) bool {
	if c == nil {
		return false
	}
	for _, v := range c.DisabledViews {
		if v == name {
			return true
		}
	}
	return false
}
