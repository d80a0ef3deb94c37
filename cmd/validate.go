package cmd

import (
	"fmt"

	"taskset-gen/internal/config"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/report"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var configFile string
	var suite bool

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a test case or suite configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if suite {
				return validateSuite(cmd, configFile)
			}
			return validateConfig(cmd, configFile)
		},
	}

	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	validateCmd.MarkFlagRequired("config")
	validateCmd.Flags().BoolVar(&suite, "suite", false, "Treat the file as a suite")
	return validateCmd
}

func validateConfig(cmd *cobra.Command, configFile string) error {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Configuration validation failed")
		return err
	}
	logger.WithField("config_file", configFile).Info("Configuration is valid")
	fmt.Fprintln(cmd.OutOrStdout(), report.ConfigTable(cfg))
	return nil
}

func validateSuite(cmd *cobra.Command, configFile string) error {
	logger := logging.GetLogger()

	suite, err := config.LoadSuite(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Suite validation failed")
		return err
	}
	logger.WithField("config_file", configFile).WithField("cases", len(suite.Cases)).Info("Suite is valid")
	for _, c := range suite.Cases {
		fmt.Fprintln(cmd.OutOrStdout(), report.ConfigTable(c))
	}
	return nil
}
