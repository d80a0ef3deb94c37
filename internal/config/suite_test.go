package config

import (
	"errors"
	"testing"
)

const suiteYAML = `
suite:
  name: unschedulable
  seed: 7
  parallelism: 2
  output:
    dir: Test_Cases/suite
defaults:
  num_cores: 1
  num_components: 1
  speed_factor_range: [1.0, 1.0]
  unschedulable: true
cases:
  - name: high-task-load
    generator:
      num_tasks: 5
      utilization: 200
      seed: 789
  - name: tight-core-budget
    generator:
      num_components: 3
      num_tasks: 9
      utilization: 120
  - name: plain
`

func TestParseSuite_OverlaysDefaults(t *testing.T) {
	suite, err := ParseSuite(suiteYAML)
	if err != nil {
		t.Fatalf("ParseSuite: %v", err)
	}
	if len(suite.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(suite.Cases))
	}
	if suite.Suite.Seed == nil || *suite.Suite.Seed != 7 {
		t.Fatalf("expected suite seed 7")
	}

	first := suite.Cases[0]
	if first.TestCase.Name != "high-task-load" || first.TestCase.Output.Dir != "Test_Cases/suite" {
		t.Fatalf("unexpected test case info %+v", first.TestCase)
	}
	if first.Generator.NumTasks != 5 || first.Generator.Utilization != 200 {
		t.Fatalf("case overrides not applied: %+v", first.Generator)
	}
	if first.Generator.NumCores != 1 || !first.Generator.Unschedulable {
		t.Fatalf("suite defaults not applied: %+v", first.Generator)
	}
	if first.Generator.Seed == nil || *first.Generator.Seed != 789 {
		t.Fatalf("expected case seed 789")
	}

	second := suite.Cases[1]
	if second.Generator.NumComponents != 3 || second.Generator.Seed != nil {
		t.Fatalf("unexpected second case %+v", second.Generator)
	}
	if second.Generator.TaskPeriodRange != (Range{Min: 20, Max: 500}) {
		t.Fatalf("built-in defaults lost: %v", second.Generator.TaskPeriodRange)
	}

	plain := suite.Cases[2]
	if plain.Generator.NumTasks != 20 {
		t.Fatalf("case without generator block should use defaults, got %d tasks", plain.Generator.NumTasks)
	}
}

func TestParseSuite_Rejects(t *testing.T) {
	for name, content := range map[string]string{
		"no cases":       "suite:\n  name: x\n",
		"duplicate name": "cases:\n  - name: a\n  - name: a\n",
		"unnamed case":   "cases:\n  - generator:\n      num_tasks: 1\n",
		"invalid case":   "cases:\n  - name: a\n    generator:\n      num_cores: 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSuite(content)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
