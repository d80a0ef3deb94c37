package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig_AppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig(`
test_case:
  name: small
generator:
  num_cores: 2
  num_components: 3
`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.TestCase.Name != "small" {
		t.Fatalf("expected name small, got %q", cfg.TestCase.Name)
	}
	if cfg.TestCase.Output.Dir != DefaultOutputDir {
		t.Fatalf("expected default output dir, got %q", cfg.TestCase.Output.Dir)
	}
	g := cfg.Generator
	if g.NumCores != 2 || g.NumComponents != 3 {
		t.Fatalf("unexpected counts: cores=%d components=%d", g.NumCores, g.NumComponents)
	}
	if g.NumTasks != 20 || g.Utilization != 70 {
		t.Fatalf("expected default tasks/utilization, got %d/%v", g.NumTasks, g.Utilization)
	}
	if g.SpeedFactorRange != (Range{Min: 0.5, Max: 1.5}) {
		t.Fatalf("unexpected speed factor range %v", g.SpeedFactorRange)
	}
	if g.Seed != nil {
		t.Fatalf("expected no seed, got %d", *g.Seed)
	}
}

func TestParseConfig_RangeForms(t *testing.T) {
	cfg, err := ParseConfig(`
generator:
  speed_factor_range: [1.0, 1.0]
  server_period_range: "10, 40"
  task_period_range:
    min: 50
    max: 100
  seed: 42
`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	g := cfg.Generator
	if g.SpeedFactorRange != (Range{Min: 1, Max: 1}) {
		t.Fatalf("sequence form: got %v", g.SpeedFactorRange)
	}
	if g.ServerPeriodRange != (Range{Min: 10, Max: 40}) {
		t.Fatalf("string form: got %v", g.ServerPeriodRange)
	}
	if g.TaskPeriodRange != (Range{Min: 50, Max: 100}) {
		t.Fatalf("mapping form: got %v", g.TaskPeriodRange)
	}
	if g.Seed == nil || *g.Seed != 42 {
		t.Fatalf("expected seed 42, got %v", g.Seed)
	}
}

func TestParseConfig_RangeWrongArity(t *testing.T) {
	_, err := ParseConfig("generator:\n  speed_factor_range: [1, 2, 3]\n")
	if err == nil {
		t.Fatalf("expected error for three-element range")
	}
}

func TestParseConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("TASKSET_TEST_HOST", "http://influx:8086")
	cfg, err := ParseConfig(`
test_case:
  database:
    host: ${TASKSET_TEST_HOST}
    name: tasksets
    org: lab
`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.TestCase.Database == nil || cfg.TestCase.Database.Host != "http://influx:8086" {
		t.Fatalf("env var not expanded: %+v", cfg.TestCase.Database)
	}
}

func TestExpandEnvVars_LeavesUnsetReferences(t *testing.T) {
	got := expandEnvVars("host: ${TASKSET_TEST_SURELY_UNSET}")
	if got != "host: ${TASKSET_TEST_SURELY_UNSET}" {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	if err := os.WriteFile(path, []byte("generator:\n  num_tasks: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, content, err := LoadConfigWithContent(path)
	if err != nil {
		t.Fatalf("LoadConfigWithContent: %v", err)
	}
	if cfg.Generator.NumTasks != 7 {
		t.Fatalf("expected 7 tasks, got %d", cfg.Generator.NumTasks)
	}
	if content == "" {
		t.Fatalf("expected raw content")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(g *GeneratorConfig){
		"zero cores":             func(g *GeneratorConfig) { g.NumCores = 0 },
		"fewer components":       func(g *GeneratorConfig) { g.NumCores = 4; g.NumComponents = 3 },
		"negative tasks":         func(g *GeneratorConfig) { g.NumTasks = -1 },
		"zero utilization":       func(g *GeneratorConfig) { g.Utilization = 0 },
		"ratio above one":        func(g *GeneratorConfig) { g.SporadicRatio = 1.2 },
		"negative ratio":         func(g *GeneratorConfig) { g.SporadicRatio = -0.1 },
		"inverted speed range":   func(g *GeneratorConfig) { g.SpeedFactorRange = Range{Min: 1.5, Max: 0.5} },
		"zero speed":             func(g *GeneratorConfig) { g.SpeedFactorRange = Range{Min: 0, Max: 1} },
		"budget factor above 1":  func(g *GeneratorConfig) { g.ServerBudgetFactorRange = Range{Min: 0.5, Max: 1.5} },
		"zero deadline factor":   func(g *GeneratorConfig) { g.SporadicDeadlineRange = Range{Min: 0, Max: 1} },
		"zero granularity":       func(g *GeneratorConfig) { g.Granularity = 0 },
		"inflation not above 1":  func(g *GeneratorConfig) { g.InflationFactor = 1 },
		"harmonic ratio above 1": func(g *GeneratorConfig) { g.HarmonicRatio = 2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			g := DefaultGeneratorConfig()
			mutate(&g)
			err := g.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidate_AcceptsDefaultsAndEdges(t *testing.T) {
	g := DefaultGeneratorConfig()
	if err := g.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	g.NumTasks = 0
	g.SporadicRatio = 1
	g.SporadicDeadlineRange = Range{Min: 1.2, Max: 1.5}
	g.SpeedFactorRange = Range{Min: 1, Max: 1}
	if err := g.Validate(); err != nil {
		t.Fatalf("edge values should validate: %v", err)
	}
}

func TestValidate_IncompleteDatabase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TestCase.Database = &DatabaseConfig{Host: "http://localhost:8086"}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRange_FlagValue(t *testing.T) {
	var r Range
	if err := r.Set("0.25,0.75"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if r != (Range{Min: 0.25, Max: 0.75}) {
		t.Fatalf("unexpected range %v", r)
	}
	if r.String() != "0.25,0.75" {
		t.Fatalf("unexpected string %q", r.String())
	}
	for _, bad := range []string{"", "1", "a,b", "1,2,3"} {
		if err := r.Set(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
