package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simaogato/priorityflow-backend/internal/adapter/repository"
	"github.com/simaogato/priorityflow-backend/internal/config"
)

// app carries what every subcommand needs once configuration is resolved
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	factory *repository.Factory
}

var (
	configPath string
	logLevel   string

	portfolioSource string
	portfolioSink   string
	eventsSource    string
	capacity        int
	pace            string
	interval        string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "priorityflow",
		Short:         "Applies priority-adjustment events to an asset portfolio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "priorityflow.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd(), newServeCmd(), newImportCmd())
	return rootCmd
}

// addPipelineFlags registers the flags shared by run and serve
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&portfolioSource, "portfolio", "", "portfolio source spec (file:<path>, json:<path>, memory, postgres)")
	cmd.Flags().StringVar(&portfolioSink, "sink", "", "portfolio sink spec; defaults to the configured sink")
	cmd.Flags().StringVar(&eventsSource, "events", "", "event source spec")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "queue capacity, 0 for unbounded")
	cmd.Flags().StringVar(&pace, "pace", "", "spacing between emitted events, e.g. 500ms")
	cmd.Flags().StringVar(&interval, "interval", "", "monitor refresh interval, e.g. 2s")
}

// newApp loads the config, applies changed flags on top and builds the logger
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		factory: repository.NewFactory(cfg.Database.ConnStr),
	}, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("portfolio") {
		cfg.Portfolio.Source = portfolioSource
	}
	if flags.Changed("sink") {
		cfg.Portfolio.Sink = portfolioSink
	}
	if flags.Changed("events") {
		cfg.Events.Source = eventsSource
	}
	if flags.Changed("capacity") {
		cfg.Pipeline.Capacity = capacity
	}
	if flags.Changed("pace") {
		d, err := parseDuration("pace", pace)
		if err != nil {
			return err
		}
		cfg.Pipeline.Pace = d
	}
	if flags.Changed("interval") {
		d, err := parseDuration("interval", interval)
		if err != nil {
			return err
		}
		cfg.Monitor.Interval = d
	}
	return nil
}
