package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"taskset-gen/internal/model"

	log "github.com/sirupsen/logrus"
)

const (
	ArchitectureFile = "architecture.csv"
	BudgetsFile      = "budgets.csv"
	TasksFile        = "tasks.csv"
	MetadataFile     = "metadata.csv"
)

// ExportToCSV writes architecture.csv, budgets.csv and tasks.csv under
// <exportPath>/<testCase>/ and returns that directory.
func ExportToCSV(exportPath string, testCase string, sys *model.System) (string, error) {
	caseDir := filepath.Join(exportPath, testCase)
	if err := os.MkdirAll(caseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tables := []struct {
		name string
		rows [][]string
	}{
		{ArchitectureFile, sys.ArchitectureRows()},
		{BudgetsFile, sys.BudgetRows()},
		{TasksFile, sys.TaskRows()},
	}
	for _, table := range tables {
		filename := filepath.Join(caseDir, table.name)
		if err := writeRows(filename, table.rows); err != nil {
			return "", fmt.Errorf("failed to export %s: %w", table.name, err)
		}
		log.WithFields(log.Fields{
			"filename": filename,
			"rows":     len(table.rows) - 1,
		}).Debug("Exported table to CSV")
	}

	log.WithFields(log.Fields{
		"export_path": caseDir,
		"test_case":   testCase,
		"cores":       len(sys.Cores),
		"components":  len(sys.Components),
		"tasks":       len(sys.Tasks),
	}).Info("Successfully exported test case to CSV")

	return caseDir, nil
}

// ExportMetadata writes Property,Value pairs describing how the test case was
// generated next to its tables.
func ExportMetadata(caseDir string, properties [][2]string) error {
	rows := [][]string{{"Property", "Value"}}
	for _, p := range properties {
		rows = append(rows, []string{p[0], p[1]})
	}
	if err := writeRows(filepath.Join(caseDir, MetadataFile), rows); err != nil {
		return fmt.Errorf("failed to export metadata: %w", err)
	}
	return nil
}

func writeRows(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}
