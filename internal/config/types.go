package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TestCase  TestCaseInfo    `yaml:"test_case"`
	Generator GeneratorConfig `yaml:"generator"`
}

type TestCaseInfo struct {
	Name     string          `yaml:"name"`
	LogLevel string          `yaml:"log_level"`
	Output   OutputConfig    `yaml:"output"`
	Database *DatabaseConfig `yaml:"database,omitempty"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Spool    bool   `yaml:"spool"`
	SpoolDir string `yaml:"spool_dir,omitempty"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Org      string `yaml:"org"`
}

// GeneratorConfig holds every parameter the generation pipeline consumes.
// Utilization is a percentage of one core's nominal capacity, summed over cores.
type GeneratorConfig struct {
	NumCores      int     `yaml:"num_cores" json:"num_cores"`
	NumComponents int     `yaml:"num_components" json:"num_components"`
	NumTasks      int     `yaml:"num_tasks" json:"num_tasks"`
	Utilization   float64 `yaml:"utilization" json:"utilization"`

	SpeedFactorRange Range  `yaml:"speed_factor_range" json:"speed_factor_range"`
	Unschedulable    bool   `yaml:"unschedulable" json:"unschedulable"`
	Seed             *int64 `yaml:"seed,omitempty" json:"-"`

	SporadicRatio           float64 `yaml:"sporadic_ratio" json:"sporadic_ratio"`
	SporadicDeadlineRange   Range   `yaml:"sporadic_deadline_range" json:"sporadic_deadline_range"`
	ServerPeriodRange       Range   `yaml:"server_period_range" json:"server_period_range"`
	ServerBudgetFactorRange Range   `yaml:"server_budget_factor_range" json:"server_budget_factor_range"`

	ComponentPeriodRange Range   `yaml:"component_period_range" json:"component_period_range"`
	TaskPeriodRange      Range   `yaml:"task_period_range" json:"task_period_range"`
	SporadicPeriodRange  Range   `yaml:"sporadic_period_range" json:"sporadic_period_range"`
	HarmonicRatio        float64 `yaml:"harmonic_ratio" json:"harmonic_ratio"`

	// Granularity is the time quantum all derived times are rounded to.
	Granularity     float64 `yaml:"granularity" json:"granularity"`
	InflationFactor float64 `yaml:"inflation_factor" json:"inflation_factor"`
}

// Range is a closed interval. It reads from YAML as [min, max] or "min,max"
// and from the command line as MIN,MAX.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) String() string {
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + "," + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

// Set implements pflag.Value.
func (r *Range) Set(s string) error {
	parsed, err := ParseRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r *Range) Type() string {
	return "MIN,MAX"
}

func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: range needs exactly two values, got %d", value.Line, len(pair))
		}
		r.Min, r.Max = pair[0], pair[1]
		return nil
	case yaml.ScalarNode:
		parsed, err := ParseRange(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*r = parsed
		return nil
	case yaml.MappingNode:
		var m struct {
			Min float64 `yaml:"min"`
			Max float64 `yaml:"max"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		r.Min, r.Max = m.Min, m.Max
		return nil
	}
	return fmt.Errorf("line %d: unsupported range value", value.Line)
}

func (r Range) MarshalYAML() (interface{}, error) {
	return []float64{r.Min, r.Max}, nil
}

// ParseRange parses "MIN,MAX".
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("invalid range %q: expected MIN,MAX", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range minimum %q: %w", parts[0], err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range maximum %q: %w", parts[1], err)
	}
	return Range{Min: lo, Max: hi}, nil
}

// Clone returns a deep copy, so decoding into the copy cannot alias the seed.
func (c GeneratorConfig) Clone() GeneratorConfig {
	out := c
	if c.Seed != nil {
		seed := *c.Seed
		out.Seed = &seed
	}
	return out
}

// TotalUtilization returns the utilization as a fraction.
func (c *GeneratorConfig) TotalUtilization() float64 {
	return c.Utilization / 100.0
}

func (c *Config) GetSpoolDir() string {
	if c.TestCase.Output.SpoolDir != "" {
		return c.TestCase.Output.SpoolDir
	}
	return c.TestCase.Output.Dir
}
