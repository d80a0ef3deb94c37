package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskset-gen/internal/config"
	"taskset-gen/internal/database"
	"taskset-gen/internal/storage"

	"github.com/spf13/cobra"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func resolveWith(t *testing.T, args ...string) (*config.Config, string, error) {
	t.Helper()
	opts := newGenerateOptions()
	c := &cobra.Command{}
	opts.bind(c.Flags())
	if err := c.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return opts.resolve(c.Flags())
}

func TestResolve_OnlyChangedFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yml")
	writeFile(t, path, `
test_case:
  name: from-file
  output:
    dir: `+dir+`
generator:
  num_cores: 2
  num_components: 4
  num_tasks: 12
  utilization: 50
  sporadic_ratio: 0.25
  seed: 7
`)

	cfg, content, err := resolveWith(t, "-c", path, "--num-tasks", "30", "--speed-factor-range", "0.8,1.2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	g := cfg.Generator
	if g.NumTasks != 30 {
		t.Fatalf("num_tasks: got %d, want 30", g.NumTasks)
	}
	if g.SpeedFactorRange != (config.Range{Min: 0.8, Max: 1.2}) {
		t.Fatalf("speed_factor_range: got %v", g.SpeedFactorRange)
	}
	if g.NumCores != 2 || g.NumComponents != 4 || g.Utilization != 50 || g.SporadicRatio != 0.25 {
		t.Fatalf("file values were overridden by flag defaults: %+v", g)
	}
	if g.Seed == nil || *g.Seed != 7 {
		t.Fatalf("seed from file lost")
	}
	if cfg.TestCase.Name != "from-file" {
		t.Fatalf("test case name: got %q", cfg.TestCase.Name)
	}
	if !strings.Contains(content, "num_tasks: 30") {
		t.Fatalf("effective content does not reflect overrides:\n%s", content)
	}
}

func TestResolve_DefaultsWithoutFile(t *testing.T) {
	cfg, _, err := resolveWith(t, "--seed", "0")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Generator.Seed == nil || *cfg.Generator.Seed != 0 {
		t.Fatalf("explicit zero seed must be kept")
	}
	if cfg.Generator.NumCores != config.DefaultGeneratorConfig().NumCores {
		t.Fatalf("expected default core count, got %d", cfg.Generator.NumCores)
	}
	if cfg.TestCase.Name != config.DefaultTestCaseName {
		t.Fatalf("expected default test case name, got %q", cfg.TestCase.Name)
	}
}

func TestResolve_RejectsInvalidOverride(t *testing.T) {
	if _, _, err := resolveWith(t, "--num-cores", "9", "--num-components", "3"); err == nil {
		t.Fatalf("expected error for fewer components than cores")
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "generate", "--output-dir", dir, "--test-case-name", "cli-case",
		"--seed", "11", "--sporadic-ratio", "0.3", "--unschedulable", "--spool")

	caseDir := filepath.Join(dir, "cli-case")
	for _, name := range []string{storage.ArchitectureFile, storage.BudgetsFile, storage.TasksFile, storage.MetadataFile} {
		if _, err := os.Stat(filepath.Join(caseDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "inflated") {
		t.Fatalf("expected an inflated component in the summary:\n%s", out)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "instance_cli-case_*_11.json.gz"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one spool artifact, got %v (%v)", matches, err)
	}
	artifact, err := database.ReadSpoolArtifact(matches[0])
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if artifact.Report.InflatedComponent == "" {
		t.Fatalf("artifact lost the inflated component")
	}

	exportDir := t.TempDir()
	inspected := execute(t, "inspect", matches[0], "--export", exportDir)
	if !strings.Contains(inspected, artifact.Report.InflatedComponent) {
		t.Fatalf("inspect output misses %s:\n%s", artifact.Report.InflatedComponent, inspected)
	}
	original, _ := os.ReadFile(filepath.Join(caseDir, storage.TasksFile))
	exported, _ := os.ReadFile(filepath.Join(exportDir, "cli-case", storage.TasksFile))
	if !bytes.Equal(original, exported) {
		t.Fatalf("re-exported tasks differ from the generated ones")
	}
}

func TestSuiteCommand_Reproducible(t *testing.T) {
	run := func() map[string][]byte {
		dir := t.TempDir()
		path := filepath.Join(dir, "suite.yml")
		writeFile(t, path, `
suite:
  name: small
  seed: 5
  parallelism: 2
  output:
    dir: `+dir+`
defaults:
  num_cores: 2
  num_components: 4
  num_tasks: 10
cases:
  - name: light
    generator:
      utilization: 40
  - name: sporadic
    generator:
      sporadic_ratio: 0.5
  - name: broken
    generator:
      unschedulable: true
`)
		execute(t, "suite", "-c", path, "--quiet")

		files := map[string][]byte{}
		for _, name := range []string{"light", "sporadic", "broken"} {
			data, err := os.ReadFile(filepath.Join(dir, name, storage.TasksFile))
			if err != nil {
				t.Fatalf("case %s: %v", name, err)
			}
			files[name] = data
		}
		return files
	}

	first, second := run(), run()
	for name, data := range first {
		if !bytes.Equal(data, second[name]) {
			t.Fatalf("case %s differs between runs", name)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yml")
	writeFile(t, path, "test_case:\n  name: checked\ngenerator:\n  num_tasks: 5\n")

	out := execute(t, "validate", "-c", path)
	if !strings.Contains(out, "checked") {
		t.Fatalf("expected config table, got:\n%s", out)
	}

	writeFile(t, path, "generator:\n  utilization: -1\n")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"validate", "-c", path})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected validation error")
	}
}
