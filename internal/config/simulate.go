package config

import (
	"github.com/spf13/pflag"
)

// SimulateConfig holds configuration for the simulation command.
type SimulateConfig struct {
	Seed     int64
	Steps    int
	Actors   int
	MaxBase  int64
	MaxQuote int64
	Journal  string
	LogLevel string
}

// LoadSimulate merges config file, environment variables, and flags into SimulateConfig.
func LoadSimulate(cfgFile string, flags *pflag.FlagSet) (SimulateConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return SimulateConfig{}, err
	}

	v.SetDefault("seed", int64(1))
	v.SetDefault("steps", 1000)
	v.SetDefault("actors", 4)
	v.SetDefault("max-base", int64(1000))
	v.SetDefault("max-quote", int64(10000))
	v.SetDefault("log-level", "info")

	cfg := SimulateConfig{
		Seed:     v.GetInt64("seed"),
		Steps:    v.GetInt("steps"),
		Actors:   v.GetInt("actors"),
		MaxBase:  v.GetInt64("max-base"),
		MaxQuote: v.GetInt64("max-quote"),
		Journal:  v.GetString("journal"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}
