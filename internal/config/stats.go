package config

import (
	"github.com/spf13/pflag"
)

// StatsConfig holds configuration for journal aggregation.
type StatsConfig struct {
	Input         string
	Window        string
	PGDSN         string
	BatchSize     int
	StateFile     string
	StateName     string
	RecomputeFrom string
	LogLevel      string
}

// LoadStats merges config file, environment variables, and flags into StatsConfig.
func LoadStats(cfgFile string, flags *pflag.FlagSet) (StatsConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return StatsConfig{}, err
	}

	v.SetDefault("batch-size", 1000)
	v.SetDefault("window", "5m")
	v.SetDefault("state-name", "stats")
	v.SetDefault("log-level", "info")

	cfg := StatsConfig{
		Input:         v.GetString("in"),
		Window:        v.GetString("window"),
		PGDSN:         v.GetString("pg-dsn"),
		BatchSize:     v.GetInt("batch-size"),
		StateFile:     v.GetString("state-file"),
		StateName:     v.GetString("state-name"),
		RecomputeFrom: v.GetString("recompute-from"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}
