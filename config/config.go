package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config holds the settings of a simulation run.
type Config struct {
	// Predictor is the scheme descriptor, e.g. "gshare:13". Required.
	Predictor string `json:"predictor" yaml:"predictor"`

	// Verbose prints the prediction of every branch.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// ProfileSets is the number of sets of the per-branch profile.
	// Default: 64.
	ProfileSets int `json:"profile_sets" yaml:"profile_sets"`

	// ProfileWays is the associativity of the per-branch profile.
	// Default: 4.
	ProfileWays int `json:"profile_ways" yaml:"profile_ways"`

	// ProfileTop is the number of hot branches reported. 0 disables the
	// profile. Default: 0.
	ProfileTop int `json:"profile_top" yaml:"profile_top"`

	// PerceptronBudgetKiB is the storage budget used to size a perceptron
	// given only its history length. Default: 0 (no budget).
	PerceptronBudgetKiB float64 `json:"perceptron_budget_kib" yaml:"perceptron_budget_kib"`

	// ThetaExpression derives the perceptron threshold from h and budget.
	ThetaExpression string `json:"theta_expression" yaml:"theta_expression"`

	// TableSizeExpression derives the perceptron count from h, budget and
	// theta.
	TableSizeExpression string `json:"table_size_expression" yaml:"table_size_expression"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ProfileSets:         64,
		ProfileWays:         4,
		ThetaExpression:     DefaultThetaExpression,
		TableSizeExpression: DefaultTableSizeExpression,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LoadConfig loads a Config from a JSON or YAML file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON or YAML file.
func (c *Config) SaveConfig(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the settings are usable. It resolves the scheme, so a
// bad descriptor or sizing expression is reported here.
func (c *Config) Validate() error {
	if c.ProfileSets <= 0 {
		return fmt.Errorf("profile_sets must be > 0")
	}
	if c.ProfileWays <= 0 {
		return fmt.Errorf("profile_ways must be > 0")
	}
	if c.ProfileTop < 0 {
		return fmt.Errorf("profile_top must be >= 0")
	}
	if c.PerceptronBudgetKiB < 0 {
		return fmt.Errorf("perceptron_budget_kib must be >= 0")
	}
	if _, err := c.Scheme(); err != nil {
		return err
	}
	return nil
}

// Sizing returns the perceptron sizing settings.
func (c *Config) Sizing() Sizing {
	return Sizing{
		BudgetKiB:           c.PerceptronBudgetKiB,
		ThetaExpression:     c.ThetaExpression,
		TableSizeExpression: c.TableSizeExpression,
	}
}

// Scheme parses the predictor descriptor and completes it from the storage
// budget when needed.
func (c *Config) Scheme() (Scheme, error) {
	if c.Predictor == "" {
		return Scheme{}, fmt.Errorf("predictor scheme required")
	}

	scheme, err := parseScheme(c.Predictor)
	if err != nil {
		return Scheme{}, err
	}

	scheme, err = c.Sizing().Resolve(scheme)
	if err != nil {
		return Scheme{}, err
	}

	if err := scheme.Validate(); err != nil {
		return Scheme{}, err
	}
	return scheme, nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
