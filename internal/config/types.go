// Package config provides shared project configuration for metadir.
// This package is decoupled from CLI concerns so other hosts embedding the
// metadata step can read the same metadir.yaml.
package config

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/metadir/pkg/metadata"
	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

// ProjectConfig is the metadata step configuration found in metadir.yaml.
type ProjectConfig struct {
	// Source is the base directory keys are derived from.
	Source string `koanf:"source"`

	// Directory is the directory or glob spec. It is kept untyped so that a
	// list in the config file reaches the resolver and is rejected there.
	Directory any `koanf:"directory"`

	// ParserSchema names the YAML schema: core, failsafe or json.
	ParserSchema string `koanf:"parser_schema"`

	Concurrency int `koanf:"concurrency"`

	// Seed is an optional JSON/YAML/TOML file whose top-level entries are
	// placed in the store before loading.
	Seed string `koanf:"seed"`
}

// MetadataOptions converts the configuration into loader options.
func MetadataOptions(directory any, schemaName string, concurrency int, logger *slog.Logger) (metadata.Options, error) {
	opts := metadata.Options{
		Directory:   directory,
		Concurrency: concurrency,
		Logger:      logger,
	}
	if schemaName != "" {
		schema, err := parsers.SchemaByName(schemaName)
		if err != nil {
			return metadata.Options{}, fmt.Errorf("invalid parser_schema: %w", err)
		}
		opts.Schema = schema
	}
	return opts, nil
}

// Options converts the project configuration into loader options.
func (c *ProjectConfig) Options(logger *slog.Logger) (metadata.Options, error) {
	return MetadataOptions(c.Directory, c.ParserSchema, c.Concurrency, logger)
}
