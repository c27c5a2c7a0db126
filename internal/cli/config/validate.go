package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

// OutputFormats lists the accepted values of the output option.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	if c.ParserSchema != "" {
		if _, err := parsers.SchemaByName(c.ParserSchema); err != nil {
			return err
		}
	}
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, OutputFormats)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// ValidateDirectories checks if the source directory exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.Source)
	if os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s\nHint: Create the directory or use --source to specify a different path", c.Source)
	}
	if err != nil {
		return fmt.Errorf("failed to access source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", c.Source)
	}
	return nil
}
