package main

import (
	"time"

	"github.com/tinytelemetry/secdash/internal/model"
)

const (
	defaultBindHost       = "127.0.0.1"
	defaultAPIPort        = 3000
	defaultQueryTimeout   = model.DefaultQueryTimeout
	defaultMaxUploadBytes = model.DefaultMaxUploadBytes
	defaultTimezone       = model.DefaultTimezone
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Host            string         `mapstructure:"host"`
	APIEnabled      bool           `mapstructure:"api-enabled"`
	APIPort         int            `mapstructure:"api-port"`
	APIAddr         string         `mapstructure:"api-addr"`
	SQLEnabled      bool           `mapstructure:"sql-enabled"`
	QueryTimeout    time.Duration  `mapstructure:"query-timeout"`
	MaxUploadBytes  int64          `mapstructure:"max-upload-bytes"`
	Timezone        string         `mapstructure:"timezone"`
	SeverityAliases string         `mapstructure:"severity-aliases"`
	PreloadFile     string         `mapstructure:"preload-file"`
	ConfigPath      string         `mapstructure:"-"` // not from config file
	Location        *time.Location `mapstructure:"-"`
}
