package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"arbScope/internal/config"
	"arbScope/internal/engine"
	"arbScope/internal/model"
)

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScan(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PoolsFile == "" {
		return fmt.Errorf("pools file is required")
	}
	if len(cfg.Amounts) == 0 {
		return fmt.Errorf("at least one candidate amount is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := engine.NewRegistry()
	loaded, err := loadPools(cfg.PoolsFile, registry)
	if err != nil {
		return err
	}

	scanner := engine.NewScanner(registry, logger)
	logger.Info("scan start",
		zap.Int("pools", loaded),
		zap.Float64s("amounts", cfg.Amounts),
		zap.String("stats", scanner.Stats()),
	)

	opps := scanner.Scan(cfg.Amounts)
	logger.Info("scan done", zap.Int("opportunities", len(opps)))

	for i, opp := range opps {
		if i >= 10 {
			break
		}
		logger.Info("opportunity",
			zap.String("route", opp.RouteID),
			zap.Strings("tokens", opp.Tokens),
			zap.Strings("dexes", opp.Dexes),
			zap.Float64("input", opp.InputAmount),
			zap.Float64("output", opp.ExpectedOutput),
			zap.Float64("profit", opp.ProfitUSD),
			zap.Float64("confidence", opp.ConfidenceScore),
		)
	}

	sinks, closeSinks, err := buildSinks(ctx, cfg.Out, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer closeSinks()

	for _, sink := range sinks {
		if err := sink.PutOpportunities(ctx, opps); err != nil {
			return fmt.Errorf("store opportunities: %w", err)
		}
	}

	return nil
}

// loadPools reads PoolState JSON lines into the registry and returns the
// number of entries loaded.
func loadPools(path string, registry *engine.Registry) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pools file: %w", err)
	}
	defer file.Close()

	count := 0
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var pool model.PoolState
		if err := json.Unmarshal(line, &pool); err != nil {
			return count, fmt.Errorf("parse pool at line %d: %w", count+1, err)
		}
		registry.Upsert(pool)
		count++
	}
	if err := sc.Err(); err != nil {
		return count, fmt.Errorf("read pools file: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("pools file %s is empty", path)
	}

	return count, nil
}
