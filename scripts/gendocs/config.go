package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/metadir/internal/cli/config"
	intconfig "github.com/leapstack-labs/metadir/internal/config"
	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

// ConfigField describes one key of metadir.yaml.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "source", Type: "string", Default: config.DefaultSource, Description: "Source directory keys are relative to"},
		{Name: "directory", Type: "string", Default: config.DefaultDirectory, Description: "Directory or glob spec relative to source; lists are rejected"},
		{Name: "parser_schema", Type: "string", Default: config.DefaultParserSchema, Description: "YAML schema: " + fmt.Sprint(parsers.SchemaNames())},
		{Name: "concurrency", Type: "int", Default: "0", Description: "Maximum files processed at once, 0 means GOMAXPROCS"},
		{Name: "seed", Type: "string", Description: "JSON/YAML/TOML mapping placed in the store before loading"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: " + fmt.Sprint(config.OutputFormats)},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Debug logging on stderr"},
	}
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "metadir configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("metadir reads %s (or %s) from the project root. Relative paths in the file are anchored at the directory containing it.",
		InlineCode(intconfig.ConfigFileName), InlineCode(intconfig.ConfigFileNameAlt)))

	w.Header(2, "Fields")
	var rows [][]string
	for _, f := range getConfigSchema() {
		defVal := "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
	}
	w.Table([]string{"Field", "Type", "Default", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `source: src
directory: ./**/*.{json,yaml,yml,toml}
parser_schema: core
seed: build/previous.json`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
