package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the regiontrim configuration file
// (~/.config/regiontrim/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	World            string `yaml:"world"`
	MinInhabitedTime *int64 `yaml:"min_inhabited_time"`
	Workers          *int   `yaml:"workers"`
	StrictBounds     *bool  `yaml:"strict_bounds"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "regiontrim", "config.yaml")
}

// LoadConfig reads the config file at path. A missing or unreadable file
// yields a zero Config.
func LoadConfig(path string) Config {
	if path == "" {
		return Config{}
	}
	cfg, err := readConfig(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// loadConfigFor honours --config strictly and the default location loosely.
func loadConfigFor(cmd *cli.Command) (Config, error) {
	if cmd.IsSet("config") {
		return readConfig(configFile)
	}
	return LoadConfig(configPath()), nil
}

type configKey struct{}

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyTrimConfig applies config file defaults to trim command variables
// when the corresponding CLI flag was not explicitly set.
func applyTrimConfig(c *cli.Command, cfg Config, world *string, minTime *int64, workers *int, strict *bool) {
	if cfg.World != "" && !c.IsSet("world") {
		*world = cfg.World
	}
	if cfg.MinInhabitedTime != nil && !c.IsSet("min-inhabited-time") {
		*minTime = *cfg.MinInhabitedTime
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
	if cfg.StrictBounds != nil && !c.IsSet("strict-bounds") {
		*strict = *cfg.StrictBounds
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, world, addr *string, strict *bool) {
	if cfg.World != "" && !c.IsSet("world") {
		*world = cfg.World
	}
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.StrictBounds != nil && !c.IsSet("strict-bounds") {
		*strict = *cfg.StrictBounds
	}
}
