package cmd

import (
	"context"
	"fmt"
	"strconv"

	"taskset-gen/internal/config"
	"taskset-gen/internal/database"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/randstream"
	"taskset-gen/internal/storage"

	"github.com/sirupsen/logrus"
)

// caseOutput is where a generated case went.
type caseOutput struct {
	Result    *generator.Result
	Seed      uint64
	Checksum  string
	CaseDir   string
	SpoolPath string
}

// runCase generates one test case from cfg, exports its tables and metadata,
// spools it when enabled and publishes it when db is not nil.
func runCase(ctx context.Context, cfg *config.Config, content string, s *randstream.Stream, db *database.InfluxDBClient) (*caseOutput, error) {
	logger := logging.GetLogger().WithField("test_case", cfg.TestCase.Name)

	checksum, err := config.Checksum(&cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("failed to compute config checksum: %w", err)
	}

	result, err := generator.Generate(&cfg.Generator, s)
	if err != nil {
		return nil, fmt.Errorf("test case %s: %w", cfg.TestCase.Name, err)
	}
	out := &caseOutput{Result: result, Seed: s.Seed(), Checksum: checksum}

	out.CaseDir, err = storage.ExportToCSV(cfg.TestCase.Output.Dir, cfg.TestCase.Name, result.System)
	if err != nil {
		return nil, err
	}

	metadata := [][2]string{
		{"seed", strconv.FormatUint(out.Seed, 10)},
		{"checksum", checksum},
		{"mode", result.Report.Mode},
		{"generator_version", Version},
	}
	if result.Report.InflatedComponent != "" {
		metadata = append(metadata, [2]string{"inflated_component", result.Report.InflatedComponent})
	}
	if err := storage.ExportMetadata(out.CaseDir, metadata); err != nil {
		return nil, err
	}

	if cfg.TestCase.Output.Spool {
		artifact := database.BuildSpoolArtifact(cfg, content, out.Seed, result)
		out.SpoolPath, err = database.WriteSpoolArtifact(cfg.GetSpoolDir(), artifact)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", out.SpoolPath).Info("Instance spooled")
	}

	if db != nil {
		meta, err := database.CollectInstanceMetadata(cfg, out.Seed, Version)
		if err != nil {
			return nil, err
		}
		if err := db.WriteInstance(ctx, meta, result); err != nil {
			return nil, err
		}
	}

	logger.WithFields(logrus.Fields{
		"seed":     out.Seed,
		"checksum": checksum,
		"mode":     result.Report.Mode,
		"case_dir": out.CaseDir,
	}).Info("Test case generated")
	return out, nil
}

// openPublisher connects to InfluxDB when publishing was requested.
func openPublisher(ctx context.Context, publish bool, db *config.DatabaseConfig) (*database.InfluxDBClient, error) {
	if !publish {
		return nil, nil
	}
	dbConfig, err := resolveDatabase(db)
	if err != nil {
		return nil, err
	}
	return database.NewInfluxDBClient(ctx, *dbConfig)
}
