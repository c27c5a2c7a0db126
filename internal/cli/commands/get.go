package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/metadir/internal/cli/output"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a single metadata entry",
		Long: `Load metadata and print the value stored under key. Keys are slash
separated paths relative to the source directory without extension.`,
		Example: `  metadir get site
  metadir get subdirectory/site -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0])
		},
	}

	return cmd
}

func runGet(cmd *cobra.Command, key string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	loaded, err := cmdCtx.Load(cmd.Context())
	if err != nil {
		return err
	}

	value, ok := loaded.Store.Get(key)
	if !ok {
		return fmt.Errorf("key not found: %s", key)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(value)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, key))
		r.Println("")
		r.Println(output.FormatKeyValue("Source", loaded.Sources[key]))
		r.Println("")
		r.Println("```yaml")
		if err := r.YAML(value); err != nil {
			return err
		}
		r.Println("```")
		return nil
	default:
		return r.YAML(value)
	}
}
