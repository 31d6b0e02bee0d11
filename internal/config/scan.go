package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ScanConfig holds configuration for the offline scan command.
type ScanConfig struct {
	PoolsFile string
	Amounts   []float64
	Out       string
	PGDSN     string
	LogLevel  string
}

// LoadScan merges config file, environment variables, and flags into ScanConfig.
func LoadScan(cfgFile string, flags *pflag.FlagSet) (ScanConfig, error) {
	v, err := newViper(cfgFile)
	if err != nil {
		return ScanConfig{}, err
	}

	v.SetDefault("amounts", "100,500,1000,5000")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ScanConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	amounts, err := getFloatSlice(v, "amounts")
	if err != nil {
		return ScanConfig{}, err
	}

	cfg := ScanConfig{
		PoolsFile: v.GetString("pools"),
		Amounts:   amounts,
		Out:       v.GetString("out"),
		PGDSN:     v.GetString("pg-dsn"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
