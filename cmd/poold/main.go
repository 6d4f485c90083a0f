package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolEngine/internal/config"
	"poolEngine/internal/engine"
	"poolEngine/internal/guard"
	"poolEngine/internal/ledger"
	"poolEngine/internal/metrics"
	"poolEngine/internal/server"
	"poolEngine/internal/storage"
	"poolEngine/internal/storage/postgres"
	"poolEngine/internal/transfer"
)

func main() {
	root := &cobra.Command{
		Use:          "poold",
		Short:        "Constant-product pool service",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pool HTTP service",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("base-symbol", "BASE", "base asset symbol")
	serveCmd.Flags().String("quote-symbol", "QUOTE", "quote asset symbol")
	serveCmd.Flags().StringSlice("admin", nil, "admin identities (comma-separated)")
	serveCmd.Flags().StringSlice("pauser", nil, "pauser identities (comma-separated)")
	serveCmd.Flags().StringSlice("fund", nil, "funded accounts, identity=base:quote (comma-separated)")
	serveCmd.Flags().String("journal", "./data/journal.jsonl", "event journal JSONL path")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN for the event journal (overrides journal file)")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newStatsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	admins, err := config.ParseIdentities(cfg.Admins)
	if err != nil {
		return err
	}
	pausers, err := config.ParseIdentities(cfg.Pausers)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		return fmt.Errorf("at least one admin identity is required")
	}

	perms := guard.NewStaticPermissions()
	for _, identity := range admins {
		perms.Grant(identity, guard.RoleAdmin)
	}
	for _, identity := range pausers {
		perms.Grant(identity, guard.RolePauser)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink storage.EventSink
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sink = store
	} else {
		sink = storage.NewJsonlSink(cfg.Journal)
	}

	genesis, err := config.ParseGenesis(cfg.Fund)
	if err != nil {
		return err
	}

	base := transfer.NewBook(cfg.BaseSymbol)
	quote := transfer.NewBook(cfg.QuoteSymbol)
	for _, account := range genesis {
		base.Fund(account.Identity, account.Base)
		quote.Fund(account.Identity, account.Quote)
	}
	eng := engine.New(guard.New(perms), ledger.New(), base, quote, sink, logger)

	srv := server.New(eng, metrics.New(), logger)

	logger.Info("serve start",
		zap.String("listen", cfg.ListenAddr),
		zap.String("base", cfg.BaseSymbol),
		zap.String("quote", cfg.QuoteSymbol),
		zap.Int("admins", len(admins)),
		zap.Int("pausers", len(pausers)),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("journal", cfg.Journal),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
