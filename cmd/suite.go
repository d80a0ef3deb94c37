package cmd

import (
	"fmt"
	"runtime"
	"sort"

	"taskset-gen/internal/config"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/model"
	"taskset-gen/internal/randstream"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// caseStream picks the stream for one suite case: its own seed when set,
// otherwise a stream split from the suite seed by case name, otherwise an
// unseeded stream.
func caseStream(suiteSeed *int64, cfg *config.Config) (*randstream.Stream, error) {
	if cfg.Generator.Seed != nil {
		return randstream.New(*cfg.Generator.Seed), nil
	}
	if suiteSeed != nil {
		return randstream.New(*suiteSeed).Split(cfg.TestCase.Name), nil
	}
	return generator.NewStream(&cfg.Generator)
}

func newSuiteCmd() *cobra.Command {
	var suiteFile string
	var parallelism int
	var spool, publish, quiet bool

	suiteCmd := &cobra.Command{
		Use:   "suite",
		Short: "Generate every test case of a suite file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger()

			suite, err := config.LoadSuite(suiteFile)
			if err != nil {
				return err
			}
			applyConfigLogLevel(suite.Suite.LogLevel)

			limit := suite.Suite.Parallelism
			if cmd.Flags().Changed("parallelism") {
				limit = parallelism
			}
			if limit <= 0 {
				limit = runtime.NumCPU()
			}
			if cmd.Flags().Changed("spool") {
				for _, c := range suite.Cases {
					c.TestCase.Output.Spool = spool
				}
			}

			ctx := cmd.Context()
			db, err := openPublisher(ctx, publish, suite.Suite.Database)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			logger.WithFields(logrus.Fields{
				"suite":       suite.Suite.Name,
				"cases":       len(suite.Cases),
				"parallelism": limit,
			}).Info("Generating suite")

			outputs := make([]*caseOutput, len(suite.Cases))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(limit)
			for i, c := range suite.Cases {
				g.Go(func() error {
					stream, err := caseStream(suite.Suite.Seed, c)
					if err != nil {
						return err
					}
					out, err := runCase(gctx, c, "", stream, db)
					if err != nil {
						return err
					}
					outputs[i] = out
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				logger.WithField("suite", suite.Suite.Name).WithError(err).Error("Suite generation failed")
				return err
			}

			logger.WithField("suite", suite.Suite.Name).Info("Suite generated")
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), suiteTable(suite, outputs))
			}
			return nil
		},
	}

	suiteCmd.Flags().StringVarP(&suiteFile, "config", "c", "", "Path to suite file")
	suiteCmd.MarkFlagRequired("config")
	suiteCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Maximum cases generated at once (defaults to the suite file, then the CPU count)")
	suiteCmd.Flags().BoolVar(&spool, "spool", false, "Write a compressed JSON artifact per case")
	suiteCmd.Flags().BoolVar(&publish, "publish", false, "Publish every case to InfluxDB")
	suiteCmd.Flags().BoolVar(&quiet, "quiet", false, "Do not print the suite table")
	return suiteCmd
}

func suiteTable(suite *config.SuiteConfig, outputs []*caseOutput) string {
	rows := make([][]string, 0, len(outputs))
	for i, out := range outputs {
		c := suite.Cases[i]
		rows = append(rows, []string{
			c.TestCase.Name,
			fmt.Sprint(c.Generator.NumCores),
			fmt.Sprint(c.Generator.NumComponents),
			fmt.Sprint(c.Generator.NumTasks),
			model.FormatFloat(c.Generator.Utilization) + "%",
			out.Result.Report.Mode,
			fmt.Sprint(out.Seed),
			out.Checksum,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Case", "Cores", "Components", "Tasks", "Utilization", "Mode", "Seed", "Checksum").
		Rows(rows...).
		Render()
}
