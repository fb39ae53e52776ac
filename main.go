package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"gocohort/adapters/excel"
	"gocohort/adapters/render"
	"gocohort/domain/battery"
	"gocohort/domain/survey"
	"gocohort/internal"
	"gocohort/internal/analysis"
	runner "gocohort/internal/battery"
	"gocohort/internal/config"
	"gocohort/internal/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to an exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	v := config.New()
	root := newRootCmd(v)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return errors.ExitCode(err)
	}
	return 0
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gocohort",
		Short:         "Two-cohort questionnaire analysis: Mann-Whitney battery, age correlations, demographics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (default ./gocohort.yaml when present)")

	load := func() (*config.Config, error) {
		return config.Load(v, configPath)
	}

	root.AddCommand(
		newAnalyzeCmd(v, load),
		newBatteryCmd(load),
		newConfigCmd(load),
	)
	return root
}

func newAnalyzeCmd(v *viper.Viper, load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis on a questionnaire export and render the report",
		Long: `Run the full analysis on a questionnaire export and render the report.

Example: gocohort analyze --input data.csv --format markdown --correction holm --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Input.Path == "" {
				return errors.ConfigInvalid("input.path is required (use --input)")
			}

			logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format)
			defer func() { _ = logger.Sync() }()

			renderer, err := render.New(cfg.Output.Format)
			if err != nil {
				return errors.ConfigInvalid(err.Error())
			}

			reader := excel.NewDataReader(cfg.Input.Path, cfg.Input.Sheet, logger)
			rep, err := analysis.NewPipeline(cfg, logger).Run(cmd.Context(), reader)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Output.Path != "" && cfg.Output.Path != "-" {
				f, err := os.Create(cfg.Output.Path)
				if err != nil {
					return errors.RenderFailed(renderer.Format(), err)
				}
				defer f.Close()
				out = f
			}
			if err := renderer.Render(out, rep); err != nil {
				return errors.RenderFailed(renderer.Format(), err)
			}

			logger.Info("report %s written (%s, %d failed records)", rep.Manifest.RunID, renderer.Format(), rep.Failures())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "questionnaire export (.csv or .xlsx)")
	flags.String("sheet", "", "worksheet name for .xlsx input (default first sheet)")
	flags.String("format", "", "output format: markdown, html, json, yaml, xlsx")
	flags.String("output", "", "output file (default stdout)")
	flags.String("correction", "", "multiple-comparison correction: none, bonferroni, holm, bh")
	flags.Int("workers", 0, "parallel workers for the battery")
	flags.String("log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")

	for key, flag := range map[string]string{
		"input.path":          "input",
		"input.sheet":         "sheet",
		"output.format":       "format",
		"output.path":         "output",
		"analysis.correction": "correction",
		"analysis.workers":    "workers",
		"log.level":           "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

func newBatteryCmd(load func() (*config.Config, error)) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "battery",
		Short: "Print the comparison and correlation battery for the configured cohorts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			cohorts := [2]survey.Cohort{survey.Cohort(cfg.Study.Cohorts[0]), survey.Cohort(cfg.Study.Cohorts[1])}
			plan, err := runner.Build(cohorts, survey.Cohort(cfg.Study.ExpectedHigher))
			if err != nil {
				return errors.Wrap(err, "failed to build battery")
			}

			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(plan); err != nil {
					return err
				}
				return enc.Close()
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDIRECTION\tLEFT\tRIGHT")
			for _, c := range plan.Comparisons {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Direction, c.Left, c.Right)
			}
			for _, c := range plan.Correlations {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, battery.TwoSided, "age", c.Score)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d comparisons, %d correlations, battery %s\n",
				len(plan.Comparisons), len(plan.Correlations), plan.Hash())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the plan as YAML")
	return cmd
}

func newConfigCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
