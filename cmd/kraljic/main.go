// Package main provides the kraljic binary entry point.
// It classifies suppliers and products into the four Kraljic purchasing
// categories from price, supplier, shipment and product quality CSV files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mimir-aip/kraljic-go/pkg/config"
	"github.com/mimir-aip/kraljic-go/pkg/logging"
	"github.com/mimir-aip/kraljic-go/pkg/metrics"
	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/pipeline"
	"github.com/mimir-aip/kraljic-go/pkg/scheduler"
)

const (
	Version = "0.1.0"
	appName = "kraljic"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Kraljic matrix procurement classifier",
		Long: `Kraljic derives per-supplier and per-product risk and revenue
features from procurement data and assigns each entity to one of the
Strategic, Leverage, Bottleneck or Non-Critical categories.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(runCmd(&configPath))
	cmd.AddCommand(scheduleCmd(&configPath))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func runCmd(configPath *string) *cobra.Command {
	var dataDir, outputDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify once and print the category tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, dataDir, outputDir)
			if err != nil {
				return err
			}
			a := newApp(cfg)

			in, err := cfg.Loader().Load(cmd.Context(), cfg.Inputs.Files)
			if err != nil {
				return err
			}
			result, err := a.service.Run(in)
			if err != nil {
				return err
			}
			return a.publish(cmd.Context(), cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", "", "Directory holding the input CSV files")
	cmd.Flags().StringVar(&outputDir, "out", "", "Directory for CSV, scatter and metrics output")
	return cmd
}

func scheduleCmd(configPath *string) *cobra.Command {
	var spec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Re-run the classification on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, "", "")
			if err != nil {
				return err
			}
			if spec != "" {
				cfg.Schedule = spec
			}
			if cfg.Schedule == "" {
				return fmt.Errorf("a schedule is required (--cron or KRALJIC_SCHEDULE)")
			}
			a := newApp(cfg)

			sched := scheduler.NewService(cfg.Loader(), cfg.Inputs.Files, a.service, func(r *pipeline.Result) error {
				return a.publish(cmd.Context(), cmd.OutOrStdout(), r)
			}, a.logger.Child("component", "scheduler"))

			if err := sched.Start(cfg.Schedule); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			a.logger.Info().Msg("Shutting down scheduler")
			<-sched.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "Cron expression overriding the configured schedule")
	return cmd
}

func loadConfig(path, dataDir, outputDir string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.Inputs.DataDir = dataDir
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	logging.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// app bundles the services shared by the run and schedule commands
type app struct {
	cfg     *config.Config
	logger  *logging.ComponentLogger
	metrics *metrics.Recorder
	service *pipeline.Service
}

func newApp(cfg *config.Config) *app {
	logger := logging.NewComponentLogger(appName, Version)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("data_dir", cfg.Inputs.DataDir).
		Str("encoding", cfg.Encoding.Strategy).
		Msg("Starting Kraljic classifier")

	recorder := metrics.NewRecorder()
	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: recorder,
		service: pipeline.NewService(cfg.PipelineOptions(), logger.Child("component", "pipeline"), recorder),
	}
}

func (a *app) publish(ctx context.Context, w io.Writer, result *pipeline.Result) error {
	printResult(w, result)
	if err := writeOutputs(ctx, a.cfg.Output, a.cfg.Thresholds, result); err != nil {
		return err
	}
	if a.cfg.Output.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Output.MetricsFile); err != nil {
			return err
		}
	}
	for _, entity := range models.EntityTypes {
		a.logger.Debug().Str("entity", string(entity)).Int("count", len(result.Classified(entity))).Msg("Published results")
	}
	return nil
}
