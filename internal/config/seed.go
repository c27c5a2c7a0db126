package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/metadir/pkg/metadata"
	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

// LoadSeed reads a seed file and returns a store pre-populated with its
// top-level entries. An empty path returns an empty store.
//
// The file is parsed by the parser registered for its extension; YAML seeds
// use schema. The document must be a mapping.
func LoadSeed(path string, schema parsers.Schema) (*metadata.MapStore, error) {
	if path == "" {
		return metadata.NewMapStore(nil), nil
	}

	ext := filepath.Ext(path)
	parse, ok := parsers.Default().Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("unsupported seed file type %q (supported: %v)", ext, parsers.Default().Extensions())
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: seed path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	if len(data) == 0 {
		return metadata.NewMapStore(nil), nil
	}

	doc, err := parse(parsers.ParseOptions{Schema: schema}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if doc == nil {
		return metadata.NewMapStore(nil), nil
	}

	entries, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("seed file %s must contain a mapping at the top level, got %T", path, doc)
	}
	return metadata.NewMapStore(entries), nil
}
