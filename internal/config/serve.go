package config

import (
	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the HTTP pool service.
type ServeConfig struct {
	ListenAddr  string
	BaseSymbol  string
	QuoteSymbol string
	Admins      []string
	Pausers     []string
	Fund        []string
	Journal     string
	PGDSN       string
	LogLevel    string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ServeConfig{}, err
	}

	v.SetDefault("listen", ":8080")
	v.SetDefault("base-symbol", "BASE")
	v.SetDefault("quote-symbol", "QUOTE")
	v.SetDefault("journal", "./data/journal.jsonl")
	v.SetDefault("log-level", "info")

	cfg := ServeConfig{
		ListenAddr:  v.GetString("listen"),
		BaseSymbol:  v.GetString("base-symbol"),
		QuoteSymbol: v.GetString("quote-symbol"),
		Admins:      getStringSlice(v, "admin"),
		Pausers:     getStringSlice(v, "pauser"),
		Fund:        getStringSlice(v, "fund"),
		Journal:     v.GetString("journal"),
		PGDSN:       v.GetString("pg-dsn"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}
