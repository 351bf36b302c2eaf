package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config holds the settings shared by all commands. Values come from, in
// increasing priority: defaults, the config file, APETAG_* environment
// variables, and flags.
type config struct {
	LogLevel      string
	Output        string
	Separator     string
	StrictVersion bool
	Props         string
	Out           string
	Backup        string
	Validate      bool
}

// addCommonFlags registers the flags every command accepts.
func addCommonFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML config file")
	fs.String("log-level", "warn", "log level: debug, info, warn, error")
	fs.Bool("strict-version", false, "ignore tags whose version is not 2000")
	fs.String("separator", " ", "separator for multi-value text fields")
}

// loadConfig resolves the configuration for a parsed flag set.
func loadConfig(fs *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix("APETAG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &config{
		LogLevel:      v.GetString("log-level"),
		Output:        v.GetString("output"),
		Separator:     v.GetString("separator"),
		StrictVersion: v.GetBool("strict-version"),
		Props:         v.GetString("props"),
		Out:           v.GetString("out"),
		Backup:        v.GetString("backup"),
		Validate:      v.GetBool("validate"),
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
