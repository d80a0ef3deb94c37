package cmd

import (
	"fmt"

	"taskset-gen/internal/database"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/report"
	"taskset-gen/internal/storage"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var exportDir string

	inspectCmd := &cobra.Command{
		Use:   "inspect <artifact>",
		Short: "Show a spooled instance",
		Long:  "Print the tables of a spooled instance and optionally export it to CSV again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := database.ReadSpoolArtifact(args[0])
			if err != nil {
				return err
			}
			if artifact.System == nil || artifact.Report == nil {
				return fmt.Errorf("spool artifact %s holds no instance", args[0])
			}
			result := &generator.Result{System: artifact.System, Report: artifact.Report}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (seed %d, checksum %s, created %s)\n",
				artifact.TestCase, artifact.Seed, artifact.Checksum, artifact.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintln(w, report.CoreTable(result))
			fmt.Fprintln(w, report.SummaryTable(result))

			if exportDir != "" {
				caseDir, err := storage.ExportToCSV(exportDir, artifact.TestCase, artifact.System)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Test case written to %s\n", caseDir)
			}
			return nil
		},
	}

	inspectCmd.Flags().StringVar(&exportDir, "export", "", "Write the instance CSVs under this directory")
	return inspectCmd
}
