package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"taskset-gen/internal/logging"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func LoadConfig(filepath string) (*Config, error) {
	config, _, err := LoadConfigWithContent(filepath)
	return config, err
}

// LoadConfigWithContent reads a config file over the defaults and also returns
// the raw file content.
func LoadConfigWithContent(filepath string) (*Config, string, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read config file")
		return nil, "", err
	}

	originalContent := string(data)
	config, err := ParseConfig(originalContent)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to load config file")
		return nil, "", err
	}
	return config, originalContent, nil
}

// ParseConfig decodes YAML content over DefaultConfig and validates the result.
func ParseConfig(content string) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expandEnvVars(content)), config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

func (c *Config) Validate() error {
	if c.TestCase.Name == "" {
		return fmt.Errorf("%w: test case name is required", ErrInvalidConfig)
	}
	if c.TestCase.Output.Dir == "" {
		return fmt.Errorf("%w: output dir is required", ErrInvalidConfig)
	}
	if db := c.TestCase.Database; db != nil {
		if db.Host == "" || db.Name == "" || db.Org == "" {
			return fmt.Errorf("%w: incomplete database configuration", ErrInvalidConfig)
		}
	}
	return c.Generator.Validate()
}

func (g *GeneratorConfig) Validate() error {
	if g.NumCores <= 0 {
		return fmt.Errorf("%w: num_cores must be greater than 0, got %d", ErrInvalidConfig, g.NumCores)
	}
	if g.NumComponents <= 0 {
		return fmt.Errorf("%w: num_components must be greater than 0, got %d", ErrInvalidConfig, g.NumComponents)
	}
	if g.NumComponents < g.NumCores {
		return fmt.Errorf("%w: num_components (%d) must be at least num_cores (%d)", ErrInvalidConfig, g.NumComponents, g.NumCores)
	}
	if g.NumTasks < 0 {
		return fmt.Errorf("%w: num_tasks must not be negative, got %d", ErrInvalidConfig, g.NumTasks)
	}
	if !(g.Utilization > 0) {
		return fmt.Errorf("%w: utilization must be greater than 0, got %v", ErrInvalidConfig, g.Utilization)
	}
	if g.SporadicRatio < 0 || g.SporadicRatio > 1 {
		return fmt.Errorf("%w: sporadic_ratio must be within [0,1], got %v", ErrInvalidConfig, g.SporadicRatio)
	}
	if g.HarmonicRatio < 0 || g.HarmonicRatio > 1 {
		return fmt.Errorf("%w: harmonic_ratio must be within [0,1], got %v", ErrInvalidConfig, g.HarmonicRatio)
	}
	if !(g.Granularity > 0) {
		return fmt.Errorf("%w: granularity must be greater than 0, got %v", ErrInvalidConfig, g.Granularity)
	}
	if !(g.InflationFactor > 1) {
		return fmt.Errorf("%w: inflation_factor must be greater than 1, got %v", ErrInvalidConfig, g.InflationFactor)
	}

	positive := []struct {
		name string
		r    Range
	}{
		{"speed_factor_range", g.SpeedFactorRange},
		{"sporadic_deadline_range", g.SporadicDeadlineRange},
		{"server_period_range", g.ServerPeriodRange},
		{"component_period_range", g.ComponentPeriodRange},
		{"task_period_range", g.TaskPeriodRange},
		{"sporadic_period_range", g.SporadicPeriodRange},
		{"server_budget_factor_range", g.ServerBudgetFactorRange},
	}
	for _, p := range positive {
		if p.r.Min > p.r.Max {
			return fmt.Errorf("%w: %s minimum %v exceeds maximum %v", ErrInvalidConfig, p.name, p.r.Min, p.r.Max)
		}
		if !(p.r.Min > 0) {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, p.name, p.r)
		}
	}
	if g.ServerBudgetFactorRange.Max > 1 {
		return fmt.Errorf("%w: server_budget_factor_range must be within (0,1], got %s", ErrInvalidConfig, g.ServerBudgetFactorRange)
	}
	return nil
}
