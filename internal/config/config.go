package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "ARBSCOPE"

// newViper builds a viper instance with env binding and optional config file.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// getFloatSlice reads a key that may arrive as a comma-separated string (flag
// or env) or a list (config file) and parses every entry as float64.
func getFloatSlice(v *viper.Viper, key string) ([]float64, error) {
	if !v.IsSet(key) {
		return nil, nil
	}

	var items []string
	switch typed := v.Get(key).(type) {
	case []string:
		items = typed
	case string:
		items = strings.Split(typed, ",")
	case []interface{}:
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
	default:
		items = []string{fmt.Sprintf("%v", typed)}
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		val, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", item, err)
		}
		out = append(out, val)
	}
	return out, nil
}
