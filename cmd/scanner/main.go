package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "scanner",
		Short:        "AMM arbitrage route scanner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Follow live reserves and scan continuously",
		RunE:  runLive,
	}

	runCmd.Flags().String("rpc", "", "chain RPC URL (websocket for live subscriptions)")
	runCmd.Flags().String("pairs", "", "pairs descriptor JSON path")
	runCmd.Flags().String("amounts", "100,500,1000,5000", "candidate input amounts (comma-separated)")
	runCmd.Flags().Duration("scan-interval", 5*time.Second, "time between scans")
	runCmd.Flags().String("out", "", "opportunities JSONL output path")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN for the opportunity journal")
	runCmd.Flags().Uint64("batch-size", 2000, "blocks per backfill batch")
	runCmd.Flags().Int("max-retries", 5, "maximum RPC retry attempts")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().String("telegram-token", "", "Telegram bot token")
	runCmd.Flags().String("telegram-chat", "", "Telegram chat ID")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan over a pool snapshot file",
		RunE:  runScan,
	}

	scanCmd.Flags().String("pools", "", "pool states JSONL path")
	scanCmd.Flags().String("amounts", "100,500,1000,5000", "candidate input amounts (comma-separated)")
	scanCmd.Flags().String("out", "", "opportunities JSONL output path")
	scanCmd.Flags().String("pg-dsn", "", "Postgres DSN for the opportunity journal")
	scanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scanCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
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
