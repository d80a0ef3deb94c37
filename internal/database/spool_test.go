package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskset-gen/internal/config"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/randstream"
)

func generateInstance(t *testing.T, seed int64) (*config.Config, *generator.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.TestCase.Name = "spool-case"
	cfg.Generator.SporadicRatio = 0.25
	cfg.Generator.Seed = &seed

	res, err := generator.Generate(&cfg.Generator, randstream.New(seed))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return cfg, res
}

func TestWriteSpoolArtifact_RoundTrip(t *testing.T) {
	cfg, res := generateInstance(t, 42)
	artifact := BuildSpoolArtifact(cfg, "generator:\n  num_tasks: 20\n", 42, res)

	dir := t.TempDir()
	path, err := WriteSpoolArtifact(dir, artifact)
	if err != nil {
		t.Fatalf("WriteSpoolArtifact: %v", err)
	}

	checksum, err := config.Checksum(&cfg.Generator)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	want := filepath.Join(dir, "instance_spool-case_"+checksum+"_42.json.gz")
	if path != want {
		t.Fatalf("expected path %s, got %s", want, path)
	}

	got, err := ReadSpoolArtifact(path)
	if err != nil {
		t.Fatalf("ReadSpoolArtifact: %v", err)
	}
	if got.Seed != 42 || got.TestCase != "spool-case" || got.Checksum != checksum {
		t.Fatalf("unexpected identity: seed=%d test_case=%s checksum=%s", got.Seed, got.TestCase, got.Checksum)
	}
	if got.Config == nil || got.Config.SporadicRatio != 0.25 {
		t.Fatalf("config not preserved: %+v", got.Config)
	}
	if len(got.System.Tasks) != len(res.System.Tasks) {
		t.Fatalf("expected %d tasks, got %d", len(res.System.Tasks), len(got.System.Tasks))
	}
	if got.Report == nil || got.Report.Mode != generator.ModeSchedulable {
		t.Fatalf("report not preserved: %+v", got.Report)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp.") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteSpoolArtifact_Nil(t *testing.T) {
	if _, err := WriteSpoolArtifact(t.TempDir(), nil); err == nil {
		t.Fatalf("expected error for nil artifact")
	}
}

func TestDefaultSpoolDir(t *testing.T) {
	t.Setenv("TASKSET_GEN_SPOOL_DIR", "")
	if got := DefaultSpoolDir(); got != "spool" {
		t.Fatalf("expected spool, got %s", got)
	}
	t.Setenv("TASKSET_GEN_SPOOL_DIR", " /var/spool/tasksets ")
	if got := DefaultSpoolDir(); got != "/var/spool/tasksets" {
		t.Fatalf("expected env dir, got %s", got)
	}
}

func TestArtifactName_NoChecksum(t *testing.T) {
	name := ArtifactName(&SpoolArtifact{TestCase: "x", Seed: 7})
	if name != "instance_x_nocsum_7.json.gz" {
		t.Fatalf("unexpected name %s", name)
	}
}
