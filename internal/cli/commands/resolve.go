package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/metadir/internal/cli/output"
	"github.com/leapstack-labs/metadir/pkg/metadata/resolve"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [spec]",
		Short: "Print the absolute glob pattern for a directory spec",
		Long: `Resolve a directory spec against the source directory without reading any
files. Without an argument the configured directory spec is resolved.

The spec is split into a literal prefix and a glob pattern at the first
segment containing a character outside [a-zA-Z0-9._-].`,
		Example: `  # Resolve the configured spec
  metadir resolve

  # Resolve an explicit spec
  metadir resolve "./data/**/*.json"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args)
		},
	}

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	spec := cmdCtx.Cfg.Directory
	if len(args) == 1 {
		spec = args[0]
	}

	pattern, err := resolve.Resolve(cmdCtx.Cfg.Source, spec)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("resolved directory spec", "spec", spec, "pattern", pattern)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string]any{"spec": spec, "pattern": pattern})
	case output.ModeYAML:
		return r.YAML(map[string]any{"spec": spec, "pattern": pattern})
	default:
		r.Println(pattern)
		return nil
	}
}
