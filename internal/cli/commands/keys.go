package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/metadir/internal/cli/output"
)

// keyInfo describes one store entry for listing.
type keyInfo struct {
	Key    string `json:"key" yaml:"key"`
	Source string `json:"source" yaml:"source"`
	Type   string `json:"type" yaml:"type"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List metadata keys with their source file and type",
		Long: `Load metadata and list every key in the merged store together with the
file it was read from and the shape of its value.`,
		Example: `  metadir keys
  metadir keys -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeys(cmd)
		},
	}

	return cmd
}

func runKeys(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	loaded, err := cmdCtx.Load(cmd.Context())
	if err != nil {
		return err
	}

	keys := loaded.Store.Keys()
	infos := make([]keyInfo, 0, len(keys))
	for _, key := range keys {
		value, _ := loaded.Store.Get(key)
		infos = append(infos, keyInfo{Key: key, Source: loaded.Sources[key], Type: valueType(value)})
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeYAML:
		return r.YAML(infos)
	}

	if len(infos) == 0 {
		r.Muted("(0 keys)")
		return nil
	}
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Key, info.Source, info.Type}
	}
	r.Table([]string{"Key", "Source", "Type"}, rows)
	return nil
}
