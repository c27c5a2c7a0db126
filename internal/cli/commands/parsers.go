package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/metadir/internal/cli/output"
	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

// NewParsersCommand creates the parsers command.
func NewParsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parsers",
		Short: "List supported metadata file types and YAML schemas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParsers(cmd)
		},
	}

	return cmd
}

func runParsers(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	exts := parsers.Default().Extensions()
	schemas := parsers.SchemaNames()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string]any{"extensions": exts, "schemas": schemas, "schema": cmdCtx.Cfg.ParserSchema})
	case output.ModeYAML:
		return r.YAML(map[string]any{"extensions": exts, "schemas": schemas, "schema": cmdCtx.Cfg.ParserSchema})
	}

	rows := make([][]string, len(exts))
	for i, ext := range exts {
		rows[i] = []string{ext, parsers.FormatName(ext)}
	}
	r.Table([]string{"Extension", "Format"}, rows)
	r.Println("")
	r.Println(output.FormatKeyValue("YAML schemas", strings.Join(schemas, ", ")))
	r.Println(output.FormatKeyValue("Active schema", cmdCtx.Cfg.ParserSchema))
	return nil
}
