package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/metadir/internal/cli/config"
	"github.com/leapstack-labs/metadir/internal/cli/output"
	intconfig "github.com/leapstack-labs/metadir/internal/config"
	"github.com/leapstack-labs/metadir/pkg/metadata"
)

// seedSource is shown as the source of keys that came from the seed file.
const seedSource = "(seed)"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Loaded is the outcome of running the metadata step from the CLI.
type Loaded struct {
	Store  *metadata.MapStore
	Result *metadata.Result
	// Sources maps every key in Store to the file it came from, relative to
	// the source directory, or to "(seed)".
	Sources map[string]string
}

// Load seeds a store and runs the metadata step against the configured
// source directory.
func (c *CommandContext) Load(ctx context.Context) (*Loaded, error) {
	if err := c.Cfg.ValidateDirectories(); err != nil {
		return nil, err
	}

	opts, err := c.Cfg.MetadataOptions(c.Logger)
	if err != nil {
		return nil, err
	}

	store, err := intconfig.LoadSeed(c.Cfg.Seed, opts.Schema)
	if err != nil {
		return nil, err
	}
	sources := make(map[string]string, store.Len())
	for _, key := range store.Keys() {
		sources[key] = seedSource
	}
	if store.Len() > 0 {
		c.Logger.Debug("seeded store", "path", c.Cfg.Seed, "keys", store.Len())
	}

	res, err := metadata.Run(ctx, c.Cfg.Source, store, opts)
	if err != nil {
		return nil, err
	}

	for key, file := range res.Sources {
		if rel, err := filepath.Rel(c.Cfg.Source, file); err == nil {
			file = filepath.ToSlash(rel)
		}
		sources[key] = file
	}

	return &Loaded{Store: store, Result: res, Sources: sources}, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	concurrency, _ := strconv.Atoi(os.Getenv("METADIR_CONCURRENCY"))
	return &config.Config{
		Source:       getEnvOrDefault("METADIR_SOURCE", config.DefaultSource),
		Directory:    getEnvOrDefault("METADIR_DIRECTORY", config.DefaultDirectory),
		ParserSchema: getEnvOrDefault("METADIR_PARSER_SCHEMA", config.DefaultParserSchema),
		Concurrency:  concurrency,
		Seed:         os.Getenv("METADIR_SEED"),
		Verbose:      os.Getenv("METADIR_VERBOSE") == "true",
		OutputFormat: os.Getenv("METADIR_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// valueType names the shape of a parsed metadata value.
func valueType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "map"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
