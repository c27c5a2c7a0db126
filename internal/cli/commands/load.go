package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/metadir/internal/cli/output"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load metadata files and print the merged store",
		Long: `Resolve the directory spec against the source directory, parse every
matching JSON, YAML and TOML file and print the merged metadata.

Keys are file paths relative to the source directory without their extension.
Empty files are skipped. Duplicate keys and malformed files fail the load.

Output adapts to environment:
  - Terminal: Styled summary and entries
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # Load everything under the source directory
  metadir load

  # Load only YAML files below data/
  metadir load --directory "./data/**/*.yaml"

  # Emit the merged store as JSON
  metadir load -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd)
		},
	}

	return cmd
}

func runLoad(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	loaded, err := cmdCtx.Load(cmd.Context())
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(loaded.Store.Snapshot())
	case output.ModeYAML:
		return r.YAML(loaded.Store.Snapshot())
	case output.ModeMarkdown:
		return loadMarkdown(r, loaded)
	default:
		return loadText(r, loaded)
	}
}

func loadText(r *output.Renderer, loaded *Loaded) error {
	res := loaded.Result

	r.Success(fmt.Sprintf("Loaded %d metadata files (%d matched, %d empty) in %s",
		len(res.Loaded), res.Matched, len(res.Skipped), res.Duration.Round(time.Millisecond)))
	r.Muted("pattern: " + res.Pattern)
	if len(res.Skipped) > 0 {
		r.Muted("skipped: " + strings.Join(res.Skipped, ", "))
	}
	r.Println("")

	for _, key := range loaded.Store.Keys() {
		value, _ := loaded.Store.Get(key)
		r.Header(2, key)
		if err := r.YAML(value); err != nil {
			return err
		}
	}
	return nil
}

func loadMarkdown(r *output.Renderer, loaded *Loaded) error {
	res := loaded.Result

	r.Println(output.FormatHeader(1, "Metadata"))
	r.Println("")
	r.Println(output.FormatKeyValue("Pattern", res.Pattern))
	r.Println(output.FormatKeyValue("Matched", fmt.Sprintf("%d", res.Matched)))
	r.Println(output.FormatKeyValue("Loaded", fmt.Sprintf("%d", len(res.Loaded))))
	if len(res.Skipped) > 0 {
		r.Println(output.FormatKeyValue("Skipped", strings.Join(res.Skipped, ", ")))
	}
	r.Println("")

	for _, key := range loaded.Store.Keys() {
		value, _ := loaded.Store.Get(key)
		r.Println(output.FormatHeader(2, key))
		r.Println("")
		r.Println("```yaml")
		if err := r.YAML(value); err != nil {
			return err
		}
		r.Println("```")
		r.Println("")
	}
	return nil
}
