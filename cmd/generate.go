package cmd

import (
	"fmt"

	"taskset-gen/internal/config"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// generateOptions holds the generate flags. Only flags set on the command
// line override the config file.
type generateOptions struct {
	configFile string
	gen        config.GeneratorConfig
	seed       int64
	outputDir  string
	name       string
	spool      bool
	spoolDir   string
	publish    bool
	quiet      bool
}

func newGenerateOptions() *generateOptions {
	return &generateOptions{
		gen:       config.DefaultGeneratorConfig(),
		outputDir: config.DefaultOutputDir,
		name:      config.DefaultTestCaseName,
	}
}

func (o *generateOptions) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configFile, "config", "c", "", "Path to test case configuration file")

	fs.IntVar(&o.gen.NumCores, "num-cores", o.gen.NumCores, "Number of cores")
	fs.IntVar(&o.gen.NumComponents, "num-components", o.gen.NumComponents, "Number of components")
	fs.IntVar(&o.gen.NumTasks, "num-tasks", o.gen.NumTasks, "Number of tasks")
	fs.Float64Var(&o.gen.Utilization, "utilization", o.gen.Utilization, "Total utilization in percent")
	fs.Var(&o.gen.SpeedFactorRange, "speed-factor-range", "Core speed factor range")
	fs.BoolVar(&o.gen.Unschedulable, "unschedulable", false, "Make exactly one component unschedulable")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed (random when unset)")

	fs.Float64Var(&o.gen.SporadicRatio, "sporadic-ratio", o.gen.SporadicRatio, "Fraction of tasks that are sporadic")
	fs.Var(&o.gen.SporadicDeadlineRange, "sporadic-deadline-range", "Sporadic deadline factor range, relative to the minimum inter-arrival time")
	fs.Var(&o.gen.ServerPeriodRange, "server-period-range", "Sporadic server period range")
	fs.Var(&o.gen.ServerBudgetFactorRange, "server-budget-factor-range", "Sporadic server budget factor range")

	fs.Var(&o.gen.ComponentPeriodRange, "component-period-range", "Component resource period range")
	fs.Var(&o.gen.TaskPeriodRange, "task-period-range", "Periodic task period range")
	fs.Var(&o.gen.SporadicPeriodRange, "sporadic-period-range", "Sporadic minimum inter-arrival time range")
	fs.Float64Var(&o.gen.HarmonicRatio, "harmonic-ratio", o.gen.HarmonicRatio, "Fraction of periods drawn from the harmonic set")
	fs.Float64Var(&o.gen.Granularity, "granularity", o.gen.Granularity, "Time quantum for derived times")
	fs.Float64Var(&o.gen.InflationFactor, "inflation-factor", o.gen.InflationFactor, "Minimum WCET inflation in unschedulable mode")

	fs.StringVar(&o.outputDir, "output-dir", o.outputDir, "Directory test cases are written to")
	fs.StringVar(&o.name, "test-case-name", o.name, "Test case name")
	fs.BoolVar(&o.spool, "spool", false, "Write a compressed JSON artifact of the instance")
	fs.StringVar(&o.spoolDir, "spool-dir", "", "Directory for spool artifacts (defaults to the output directory)")
	fs.BoolVar(&o.publish, "publish", false, "Publish the instance to InfluxDB")
	fs.BoolVar(&o.quiet, "quiet", false, "Do not print summary tables")
}

// resolve loads the config file, or the defaults, and applies every flag the
// user changed on top of it.
func (o *generateOptions) resolve(fs *pflag.FlagSet) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	content := ""
	if o.configFile != "" {
		var err error
		cfg, content, err = config.LoadConfigWithContent(o.configFile)
		if err != nil {
			return nil, "", err
		}
	}

	overridden := false
	fs.Visit(func(f *pflag.Flag) {
		overridden = overridden || f.Name != "config" && f.Name != "quiet" && f.Name != "publish" && f.Name != "log-level"
		g := &cfg.Generator
		switch f.Name {
		case "num-cores":
			g.NumCores = o.gen.NumCores
		case "num-components":
			g.NumComponents = o.gen.NumComponents
		case "num-tasks":
			g.NumTasks = o.gen.NumTasks
		case "utilization":
			g.Utilization = o.gen.Utilization
		case "speed-factor-range":
			g.SpeedFactorRange = o.gen.SpeedFactorRange
		case "unschedulable":
			g.Unschedulable = o.gen.Unschedulable
		case "seed":
			seed := o.seed
			g.Seed = &seed
		case "sporadic-ratio":
			g.SporadicRatio = o.gen.SporadicRatio
		case "sporadic-deadline-range":
			g.SporadicDeadlineRange = o.gen.SporadicDeadlineRange
		case "server-period-range":
			g.ServerPeriodRange = o.gen.ServerPeriodRange
		case "server-budget-factor-range":
			g.ServerBudgetFactorRange = o.gen.ServerBudgetFactorRange
		case "component-period-range":
			g.ComponentPeriodRange = o.gen.ComponentPeriodRange
		case "task-period-range":
			g.TaskPeriodRange = o.gen.TaskPeriodRange
		case "sporadic-period-range":
			g.SporadicPeriodRange = o.gen.SporadicPeriodRange
		case "harmonic-ratio":
			g.HarmonicRatio = o.gen.HarmonicRatio
		case "granularity":
			g.Granularity = o.gen.Granularity
		case "inflation-factor":
			g.InflationFactor = o.gen.InflationFactor
		case "output-dir":
			cfg.TestCase.Output.Dir = o.outputDir
		case "test-case-name":
			cfg.TestCase.Name = o.name
		case "spool":
			cfg.TestCase.Output.Spool = o.spool
		case "spool-dir":
			cfg.TestCase.Output.SpoolDir = o.spoolDir
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	if content == "" || overridden {
		rendered := *cfg
		rendered.TestCase.Database = nil
		data, err := yaml.Marshal(&rendered)
		if err != nil {
			return nil, "", fmt.Errorf("failed to render effective config: %w", err)
		}
		content = string(data)
	}
	return cfg, content, nil
}

func newGenerateCmd() *cobra.Command {
	opts := newGenerateOptions()

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one test case",
		Long:  "Generate one hierarchical test case and write architecture.csv, budgets.csv and tasks.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	opts.bind(generateCmd.Flags())
	return generateCmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	logger := logging.GetLogger()

	cfg, content, err := opts.resolve(cmd.Flags())
	if err != nil {
		logger.WithField("config_file", opts.configFile).WithError(err).Error("Invalid configuration")
		return err
	}
	applyConfigLogLevel(cfg.TestCase.LogLevel)

	stream, err := generator.NewStream(&cfg.Generator)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := openPublisher(ctx, opts.publish, cfg.TestCase.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	out, err := runCase(ctx, cfg, content, stream, db)
	if err != nil {
		return err
	}

	if !opts.quiet {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, report.ConfigTable(cfg))
		fmt.Fprintln(w, report.CoreTable(out.Result))
		fmt.Fprintln(w, report.SummaryTable(out.Result))
		fmt.Fprintf(w, "Test case written to %s (seed %d, checksum %s)\n", out.CaseDir, out.Seed, out.Checksum)
	}
	return nil
}
