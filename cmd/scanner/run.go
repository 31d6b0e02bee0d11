package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"arbScope/internal/chain"
	"arbScope/internal/config"
	"arbScope/internal/engine"
	"arbScope/internal/feed"
	"arbScope/internal/model"
	"arbScope/internal/notify"
	"arbScope/internal/storage"
	"arbScope/internal/storage/postgres"
)

func runLive(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRun(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.PairsFile == "" {
		return fmt.Errorf("pairs file is required")
	}
	if len(cfg.Amounts) == 0 {
		return fmt.Errorf("at least one candidate amount is required")
	}
	if cfg.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive")
	}

	pairs, err := feed.LoadPairs(cfg.PairsFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	registry := engine.NewRegistry()
	scanner := engine.NewScanner(registry, logger)

	runner, err := feed.NewRunner(feed.RunConfig{
		Pairs:        pairs,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, registry, logger)
	if err != nil {
		return err
	}

	sinks, closeSinks, err := buildSinks(ctx, cfg.Out, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer closeSinks()

	var notifier *notify.Telegram
	if cfg.TelegramToken != "" && cfg.TelegramChat != "" {
		notifier = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChat)
	}

	if err := runner.Seed(ctx); err != nil {
		return fmt.Errorf("seed reserves: %w", err)
	}

	logger.Info("scanner start",
		zap.String("rpc", cfg.RPCURL),
		zap.Int("pairs", len(pairs)),
		zap.Float64s("amounts", cfg.Amounts),
		zap.Duration("scan_interval", cfg.ScanInterval),
		zap.String("stats", scanner.Stats()),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(ctx)
	})
	g.Go(func() error {
		return scanLoop(ctx, scanner, cfg.Amounts, cfg.ScanInterval, sinks, notifier, logger)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func scanLoop(
	ctx context.Context,
	scanner *engine.Scanner,
	amounts []float64,
	interval time.Duration,
	sinks []storage.Sink,
	notifier *notify.Telegram,
	logger *zap.Logger,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		opps := scanner.Scan(amounts)
		if len(opps) > 0 {
			top := opps[0]
			logger.Info("opportunities found",
				zap.Int("count", len(opps)),
				zap.String("top_route", top.RouteID),
				zap.Float64("top_profit", top.ProfitUSD),
			)
		}

		publish(ctx, opps, sinks, notifier, logger)
	}
}

// publish fans one scan's results out to the sinks and the notifier. A sink
// outage is logged and skipped; it must never stop the scan loop.
func publish(
	ctx context.Context,
	opps []model.ArbitrageOpportunity,
	sinks []storage.Sink,
	notifier *notify.Telegram,
	logger *zap.Logger,
) {
	if len(opps) == 0 {
		return
	}

	for _, sink := range sinks {
		if err := sink.PutOpportunities(ctx, opps); err != nil {
			logger.Warn("store opportunities failed", zap.Error(err))
		}
	}

	if notifier != nil {
		if err := notifier.NotifyTop(ctx, opps); err != nil {
			logger.Warn("notify failed", zap.Error(err))
		}
	}
}

// buildSinks assembles the configured result sinks. The returned close
// function is safe to call even when no sink needs closing.
func buildSinks(ctx context.Context, outPath, pgDSN string) ([]storage.Sink, func(), error) {
	var sinks []storage.Sink
	closeFn := func() {}

	if outPath != "" {
		sinks = append(sinks, storage.NewJsonlSink(outPath))
	}
	if pgDSN != "" {
		store, err := postgres.NewStore(ctx, pgDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		sinks = append(sinks, store)
		closeFn = store.Close
	}

	return sinks, closeFn, nil
}
