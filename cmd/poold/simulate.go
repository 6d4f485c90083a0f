package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolEngine/internal/config"
	"poolEngine/internal/sim"
	"poolEngine/internal/storage"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a randomized pool simulation with invariant checks",
		RunE:  runSimulate,
	}

	cmd.Flags().Int64("seed", 1, "random seed")
	cmd.Flags().Int("steps", 1000, "number of operations")
	cmd.Flags().Int("actors", 4, "number of simulated identities")
	cmd.Flags().Int64("max-base", 1000, "maximum base amount per operation")
	cmd.Flags().Int64("max-quote", 10000, "maximum quote amount per operation")
	cmd.Flags().String("journal", "", "optional event journal JSONL path")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSimulate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var sink storage.EventSink = storage.NopSink{}
	if cfg.Journal != "" {
		sink = storage.NewJsonlSink(cfg.Journal)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := sim.NewRunner(sim.RunConfig{
		Seed:     cfg.Seed,
		Steps:    cfg.Steps,
		Actors:   cfg.Actors,
		MaxBase:  cfg.MaxBase,
		MaxQuote: cfg.MaxQuote,
	}, sink, logger)

	logger.Info("simulate start",
		zap.Int64("seed", cfg.Seed),
		zap.Int("steps", cfg.Steps),
		zap.Int("actors", cfg.Actors),
		zap.String("journal", cfg.Journal),
	)

	_, err = runner.Run(ctx)
	return err
}
