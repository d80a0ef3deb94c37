package database

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskset-gen/internal/config"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/model"
)

// SpoolArtifact is everything needed to inspect or replay one generated
// instance: the configuration, the seed it ran with, the system and the
// adjustment figures.
type SpoolArtifact struct {
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`

	TestCase string `json:"test_case"`
	Checksum string `json:"checksum"`
	Seed     uint64 `json:"seed"`

	ConfigContent string                  `json:"config_content,omitempty"`
	Config        *config.GeneratorConfig `json:"config"`

	System *model.System                `json:"system"`
	Report *generator.AdjustmentReport `json:"report"`
}

func DefaultSpoolDir() string {
	if v := strings.TrimSpace(os.Getenv("TASKSET_GEN_SPOOL_DIR")); v != "" {
		return v
	}
	return "spool"
}

// ArtifactName is instance_<testcase>_<checksum>_<seed>.json.gz.
func ArtifactName(artifact *SpoolArtifact) string {
	checksum := artifact.Checksum
	if checksum == "" {
		checksum = "nocsum"
	}
	return fmt.Sprintf("instance_%s_%s_%d.json.gz", artifact.TestCase, checksum, artifact.Seed)
}

// WriteSpoolArtifact writes a gzip-compressed JSON artifact to disk atomically.
// It returns the final file path.
func WriteSpoolArtifact(dir string, artifact *SpoolArtifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("spool artifact is nil")
	}
	if dir == "" {
		dir = DefaultSpoolDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := ArtifactName(artifact)
	finalPath := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, name+".tmp.*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	gz := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		_ = gz.Close()
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", err
	}
	ok = true
	return finalPath, nil
}

// ReadSpoolArtifact loads an artifact written by WriteSpoolArtifact.
func ReadSpoolArtifact(path string) (*SpoolArtifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream %s: %w", path, err)
	}
	defer gz.Close()

	var artifact SpoolArtifact
	if err := json.NewDecoder(gz).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode spool artifact %s: %w", path, err)
	}
	return &artifact, nil
}

// BuildSpoolArtifact constructs a spool artifact from a generated instance.
func BuildSpoolArtifact(cfg *config.Config, configContent string, seed uint64, result *generator.Result) *SpoolArtifact {
	artifact := &SpoolArtifact{
		Version:       1,
		CreatedAt:     time.Now(),
		Seed:          seed,
		ConfigContent: configContent,
	}
	if cfg != nil {
		gen := cfg.Generator.Clone()
		artifact.TestCase = cfg.TestCase.Name
		artifact.Config = &gen
		if cs, err := config.Checksum(&cfg.Generator); err == nil {
			artifact.Checksum = cs
		}
	}
	if result != nil {
		artifact.System = result.System
		artifact.Report = result.Report
	}
	return artifact
}
