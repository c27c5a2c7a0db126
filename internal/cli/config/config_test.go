package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/metadir/pkg/metadata"
	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("source", "", "source directory")
	flags.String("directory", "", "directory spec")
	flags.String("schema", "", "YAML schema")
	flags.String("seed", "", "seed file")
	flags.Int("concurrency", 0, "concurrency")
	flags.Bool("verbose", false, "verbose")
	flags.String("output", "", "output format")
	return flags
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "metadir.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return cfgPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, cfg.ProjectRoot)
	assert.Equal(t, cwd, cfg.Source)
	assert.Equal(t, DefaultDirectory, cfg.Directory)
	assert.Equal(t, "core", cfg.ParserSchema)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `source: site/src
directory: ./data/**/*.yaml
parser_schema: failsafe
concurrency: 4
seed: seed.json
`)
	root := filepath.Dir(cfgPath)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(root, "site", "src"), cfg.Source)
	assert.Equal(t, "./data/**/*.yaml", cfg.Directory)
	assert.Equal(t, "failsafe", cfg.ParserSchema)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, filepath.Join(root, "seed.json"), cfg.Seed)
}

func TestLoadConfig_DiscoversFileUpward(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "source: src\n")
	root := filepath.Dir(cfgPath)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	resolvedRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	resolvedProject, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, resolvedRoot, resolvedProject)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "src"), cfg.Source)
}

func TestLoadConfig_DirectoryListIsKept(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `directory:
  - a/*.json
  - b/*.json
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	// The resolver, not the config layer, rejects lists.
	opts, err := cfg.MetadataOptions(nil)
	require.NoError(t, err)
	_, err = metadata.Run(t.Context(), cfg.Source, metadata.NewMapStore(nil), opts)
	require.ErrorIs(t, err, metadata.ErrInvalidInputKind)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "parser_schema: failsafe\ndirectory: from_file/*.json\n")

	t.Setenv("METADIR_PARSER_SCHEMA", "json")
	t.Setenv("METADIR_DIRECTORY", "from_env/*.json")

	flags := newFlags()
	require.NoError(t, flags.Set("schema", "core"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "core", cfg.ParserSchema, "flag value should override config file and env var")
	assert.Equal(t, "from_env/*.json", cfg.Directory, "env var should override config file")
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "concurrency: 2\n")
	t.Setenv("METADIR_CONCURRENCY", "6")

	cfg, err := LoadConfig(cfgPath, newFlags())
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Concurrency, "env var should be used when flag is not set")
}

func TestLoadConfig_FlagPathsRelativeToCwd(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "source: from_file\n")
	cwd := t.TempDir()
	t.Chdir(cwd)

	flags := newFlags()
	require.NoError(t, flags.Set("source", "content"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "content"), cfg.Source)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "unknown schema", content: "parser_schema: extended\n", errSubstr: "unknown YAML schema"},
		{name: "unknown output", content: "output: html\n", errSubstr: "invalid output format"},
		{name: "negative concurrency", content: "concurrency: -1\n", errSubstr: "must not be negative"},
		{name: "broken yaml", content: "source: [\n", errSubstr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_MetadataOptions(t *testing.T) {
	cfg := &Config{Directory: "**/*.yaml", ParserSchema: "json", Concurrency: 3}

	opts, err := cfg.MetadataOptions(nil)
	require.NoError(t, err)

	assert.Equal(t, "**/*.yaml", opts.Directory)
	assert.Equal(t, parsers.JSONSchema, opts.Schema)
	assert.Equal(t, 3, opts.Concurrency)
}

func TestConfig_ValidateDirectories(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))

	assert.NoError(t, (&Config{Source: dir}).ValidateDirectories())

	err := (&Config{Source: filepath.Join(dir, "missing")}).ValidateDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	err = (&Config{Source: file}).ValidateDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(t.Context()))

	logger := NewLogger(os.Stderr, true)
	ctx := WithLogger(t.Context(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
