package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/secdash/internal/model"
)

const (
	defaultMaxUploadBytes = model.DefaultMaxUploadBytes
	defaultTimezone       = model.DefaultTimezone
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	Timezone        string         `mapstructure:"timezone"`
	SeverityAliases string         `mapstructure:"severity-aliases"`
	MaxUploadBytes  int64          `mapstructure:"max-upload-bytes"`
	ExportDir       string         `mapstructure:"export-dir"`
	Location        *time.Location `mapstructure:"-"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SECDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("timezone", defaultTimezone)
	v.SetDefault("severity-aliases", "")
	v.SetDefault("max-upload-bytes", defaultMaxUploadBytes)
	v.SetDefault("export-dir", ".")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "secdash", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if cfg.MaxUploadBytes <= 0 {
		return cfg, fmt.Errorf("invalid max-upload-bytes: %d", cfg.MaxUploadBytes)
	}
	if cfg.Timezone == "" || strings.EqualFold(cfg.Timezone, "local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return cfg, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
		cfg.Location = loc
	}
	if strings.HasPrefix(cfg.SeverityAliases, "~/") {
		cfg.SeverityAliases = filepath.Join(home, cfg.SeverityAliases[2:])
	}
	if strings.HasPrefix(cfg.ExportDir, "~/") {
		cfg.ExportDir = filepath.Join(home, cfg.ExportDir[2:])
	}

	return cfg, nil
}
