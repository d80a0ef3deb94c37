package config

import (
	"fmt"
	"os"

	"taskset-gen/internal/logging"

	"gopkg.in/yaml.v3"
)

// SuiteConfig describes a batch of named test cases generated in one run.
// Each case overlays its generator settings on the suite defaults.
type SuiteConfig struct {
	Suite    SuiteInfo
	Defaults GeneratorConfig
	Cases    []*Config
}

type SuiteInfo struct {
	Name        string          `yaml:"name"`
	Seed        *int64          `yaml:"seed,omitempty"`
	Parallelism int             `yaml:"parallelism"`
	LogLevel    string          `yaml:"log_level"`
	Output      OutputConfig    `yaml:"output"`
	Database    *DatabaseConfig `yaml:"database,omitempty"`
}

type suiteFile struct {
	Suite    SuiteInfo       `yaml:"suite"`
	Defaults GeneratorConfig `yaml:"defaults"`
	Cases    []suiteCase     `yaml:"cases"`
}

type suiteCase struct {
	Name      string    `yaml:"name"`
	Generator yaml.Node `yaml:"generator"`
}

func LoadSuite(filepath string) (*SuiteConfig, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read suite file")
		return nil, err
	}

	suite, err := ParseSuite(string(data))
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to load suite file")
		return nil, err
	}
	return suite, nil
}

func ParseSuite(content string) (*SuiteConfig, error) {
	raw := suiteFile{
		Suite: SuiteInfo{
			Name:   "suite",
			Output: OutputConfig{Dir: DefaultOutputDir},
		},
		Defaults: DefaultGeneratorConfig(),
	}
	if err := yaml.Unmarshal([]byte(expandEnvVars(content)), &raw); err != nil {
		return nil, fmt.Errorf("parse suite: %w", err)
	}
	if len(raw.Cases) == 0 {
		return nil, fmt.Errorf("%w: suite %q defines no cases", ErrInvalidConfig, raw.Suite.Name)
	}
	if raw.Suite.Parallelism < 0 {
		return nil, fmt.Errorf("%w: parallelism must not be negative, got %d", ErrInvalidConfig, raw.Suite.Parallelism)
	}

	suite := &SuiteConfig{Suite: raw.Suite, Defaults: raw.Defaults}
	seen := make(map[string]bool, len(raw.Cases))
	for i, c := range raw.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: case %d has no name", ErrInvalidConfig, i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: case name %q is already used", ErrInvalidConfig, c.Name)
		}
		seen[c.Name] = true

		gen := raw.Defaults.Clone()
		if c.Generator.Kind != 0 {
			if err := c.Generator.Decode(&gen); err != nil {
				return nil, fmt.Errorf("case %s: %w", c.Name, err)
			}
		}

		cfg := &Config{
			TestCase: TestCaseInfo{
				Name:     c.Name,
				LogLevel: raw.Suite.LogLevel,
				Output:   raw.Suite.Output,
				Database: raw.Suite.Database,
			},
			Generator: gen,
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}
		suite.Cases = append(suite.Cases, cfg)
	}
	return suite, nil
}
