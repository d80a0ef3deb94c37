package cmd

import (
	"fmt"

	"taskset-gen/internal/logging"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var logLevel string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "taskset-gen",
		Short:   "Hierarchical real-time taskset generator",
		Long:    "Generates multicore hierarchical scheduling test cases: cores, budgeted components and periodic or sporadic tasks",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				if err := logging.SetLogLevel(logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newSuiteCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newInspectCmd())
	return rootCmd
}

// Execute loads the environment and runs the command line.
func Execute() error {
	loadEnvironment()
	return newRootCmd().Execute()
}

// applyConfigLogLevel honours a config file log level unless --log-level was given.
func applyConfigLogLevel(level string) {
	if logLevel != "" || level == "" {
		return
	}
	if err := logging.SetLogLevel(level); err != nil {
		logging.GetLogger().WithField("log_level", level).Warn("Invalid log level in config, using info")
		logging.SetLogLevel("info")
	}
}
