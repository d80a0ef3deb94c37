package config

const (
	DefaultOutputDir    = "Test_Cases/generated"
	DefaultTestCaseName = "hierarchical-test-case"
)

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		NumCores:                4,
		NumComponents:           8,
		NumTasks:                20,
		Utilization:             70.0,
		SpeedFactorRange:        Range{Min: 0.5, Max: 1.5},
		SporadicRatio:           0.0,
		SporadicDeadlineRange:   Range{Min: 0.7, Max: 1.0},
		ServerPeriodRange:       Range{Min: 20, Max: 100},
		ServerBudgetFactorRange: Range{Min: 0.1, Max: 0.3},
		ComponentPeriodRange:    Range{Min: 20, Max: 100},
		TaskPeriodRange:         Range{Min: 20, Max: 500},
		SporadicPeriodRange:     Range{Min: 30, Max: 600},
		HarmonicRatio:           0.5,
		Granularity:             0.01,
		InflationFactor:         1.5,
	}
}

func DefaultConfig() *Config {
	return &Config{
		TestCase: TestCaseInfo{
			Name:   DefaultTestCaseName,
			Output: OutputConfig{Dir: DefaultOutputDir},
		},
		Generator: DefaultGeneratorConfig(),
	}
}
