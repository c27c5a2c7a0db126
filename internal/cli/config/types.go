// Package config provides configuration management for the metadir CLI.
//
// It layers CLI-specific fields (verbosity, output format) on top of the
// shared project configuration in internal/config.
package config

import (
	"log/slog"

	intconfig "github.com/leapstack-labs/metadir/internal/config"
	"github.com/leapstack-labs/metadir/pkg/metadata"
)

// Config holds all CLI configuration options.
type Config struct {
	Source       string `koanf:"source"`
	Directory    any    `koanf:"directory"`
	ParserSchema string `koanf:"parser_schema"`
	Concurrency  int    `koanf:"concurrency"`
	Seed         string `koanf:"seed"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory relative paths from the config file are
	// anchored at. Not read from configuration.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultSource       = intconfig.DefaultSource
	DefaultDirectory    = intconfig.DefaultDirectory
	DefaultParserSchema = intconfig.DefaultParserSchema
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// MetadataOptions returns the loader options described by the config.
func (c *Config) MetadataOptions(logger *slog.Logger) (metadata.Options, error) {
	return intconfig.MetadataOptions(c.Directory, c.ParserSchema, c.Concurrency, logger)
}
