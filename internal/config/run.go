package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// RunConfig holds configuration for the live scanner.
type RunConfig struct {
	RPCURL        string
	PairsFile     string
	Amounts       []float64
	ScanInterval  time.Duration
	Out           string
	PGDSN         string
	BatchSize     uint64
	MaxRetries    int
	RetryBackoff  time.Duration
	TelegramToken string
	TelegramChat  string
	LogLevel      string
}

// LoadRun merges config file, environment variables, and flags into RunConfig.
func LoadRun(cfgFile string, flags *pflag.FlagSet) (RunConfig, error) {
	v, err := newViper(cfgFile)
	if err != nil {
		return RunConfig{}, err
	}

	v.SetDefault("amounts", "100,500,1000,5000")
	v.SetDefault("scan-interval", 5*time.Second)
	v.SetDefault("batch-size", uint64(2000))
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return RunConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	amounts, err := getFloatSlice(v, "amounts")
	if err != nil {
		return RunConfig{}, err
	}

	cfg := RunConfig{
		RPCURL:        v.GetString("rpc"),
		PairsFile:     v.GetString("pairs"),
		Amounts:       amounts,
		ScanInterval:  v.GetDuration("scan-interval"),
		Out:           v.GetString("out"),
		PGDSN:         v.GetString("pg-dsn"),
		BatchSize:     v.GetUint64("batch-size"),
		MaxRetries:    v.GetInt("max-retries"),
		RetryBackoff:  v.GetDuration("retry-backoff"),
		TelegramToken: v.GetString("telegram-token"),
		TelegramChat:  v.GetString("telegram-chat"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}
