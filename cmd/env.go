package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"taskset-gen/internal/config"
	"taskset-gen/internal/logging"

	"github.com/joho/godotenv"
)

var influxEnvVars = []string{
	"INFLUXDB_HOST",
	"INFLUXDB_USER",
	"INFLUXDB_TOKEN",
	"INFLUXDB_ORG",
	"INFLUXDB_BUCKET",
}

func loadEnvironment() {
	logger := logging.GetLogger()

	envFile := ".env"
	if _, err := os.Stat(envFile); err != nil {
		execPath, err := os.Executable()
		if err != nil {
			return
		}
		envFile = filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(envFile); err != nil {
			return
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		return
	}
	logger.WithField("file", envFile).Debug("Loaded environment variables")
}

func validateEnvironment() error {
	logger := logging.GetLogger()

	var missing []string
	for _, varName := range influxEnvVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		logger.WithField("missing_vars", missing).Error("Missing required environment variables")
		return fmt.Errorf("missing required environment variables: %v. Please ensure your .env file contains these variables", missing)
	}

	logger.Debug("All required environment variables are present")
	return nil
}

// resolveDatabase prefers the database block of the config and falls back to
// the INFLUXDB_* environment.
func resolveDatabase(db *config.DatabaseConfig) (*config.DatabaseConfig, error) {
	if db != nil {
		return db, nil
	}
	if err := validateEnvironment(); err != nil {
		return nil, err
	}
	return &config.DatabaseConfig{
		Host:     os.Getenv("INFLUXDB_HOST"),
		Name:     os.Getenv("INFLUXDB_BUCKET"),
		User:     os.Getenv("INFLUXDB_USER"),
		Password: os.Getenv("INFLUXDB_TOKEN"),
		Org:      os.Getenv("INFLUXDB_ORG"),
	}, nil
}
