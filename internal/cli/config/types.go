// Package config provides configuration management for the uomc CLI.
//
// Values are layered, highest priority last: defaults, uomc.yaml,
// UOMC_* environment variables, explicit command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/uomc/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	Namespace    string      `koanf:"namespace"`
	Inputs       []string    `koanf:"inputs"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	LogLevel     string      `koanf:"log_level"`
	UnitFormat   string      `koanf:"unit_format"`
	ScaleFormat  string      `koanf:"scale_format"`
	Strict       bool        `koanf:"strict"`
	Watch        WatchConfig `koanf:"watch"`
	REPL         REPLConfig  `koanf:"repl"`

	// BaseDir is the directory relative inputs are resolved against: the
	// config file's directory, or the working directory.
	BaseDir string `koanf:"-"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// REPLConfig configures the interactive shell.
type REPLConfig struct {
	HistoryFile string `koanf:"history_file"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultFormat      = core.DefaultFormat
	DefaultDebounce    = 100 * time.Millisecond
	DefaultHistoryFile = ".uomc_history"
)

// ConfigFileNames are searched, in order, when no config file is given.
var ConfigFileNames = []string{"uomc.yaml", "uomc.yml"}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		UnitFormat:   DefaultFormat,
		ScaleFormat:  DefaultFormat,
		Watch:        WatchConfig{Debounce: DefaultDebounce},
		REPL:         REPLConfig{HistoryFile: DefaultHistoryFile},
	}
}
