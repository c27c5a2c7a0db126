// Package parsers turns raw metadata file content into Go values.
//
// Each supported file extension maps to a Parser. The mapping lives in an
// immutable Registry; Default returns the process-wide registry holding the
// built-in JSON, YAML and TOML parsers. Callers that need another format build
// a new registry with With instead of mutating the shared one.
package parsers

import (
	"maps"
	"slices"
	"strings"
)

// ParseOptions are passed through to every parser call.
type ParseOptions struct {
	// Schema controls how YAML nodes become values. Nil means CoreSchema.
	// Parsers for other formats ignore it.
	Schema Schema
}

// Parser converts raw document bytes into a value made of maps, slices and
// scalars. Parsers must not retain data.
type Parser func(opts ParseOptions, data []byte) (any, error)

// Registry maps a file extension (with its leading dot, case-sensitive) to a
// Parser. A Registry is never modified after construction.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry builds a registry from the given extension/parser pairs.
func NewRegistry(entries map[string]Parser) *Registry {
	return &Registry{parsers: maps.Clone(entries)}
}

// Lookup returns the parser registered for ext.
func (r *Registry) Lookup(ext string) (Parser, bool) {
	p, ok := r.parsers[ext]
	return p, ok
}

// Extensions returns the registered extensions (sorted).
func (r *Registry) Extensions() []string {
	return slices.Sorted(maps.Keys(r.parsers))
}

// With returns a copy of the registry with ext bound to p.
func (r *Registry) With(ext string, p Parser) *Registry {
	next := maps.Clone(r.parsers)
	if next == nil {
		next = make(map[string]Parser, 1)
	}
	next[ext] = p
	return &Registry{parsers: next}
}

var defaultRegistry = NewRegistry(map[string]Parser{
	".json": ParseJSON,
	".yaml": ParseYAML,
	".yml":  ParseYAML,
	".toml": ParseTOML,
})

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}

var formatNames = map[string]string{
	".json": "JSON",
	".yaml": "YAML",
	".yml":  "YAML",
	".toml": "TOML",
}

// FormatName returns a readable format name for ext. Extensions without a
// built-in parser are named after the extension itself.
func FormatName(ext string) string {
	if name, ok := formatNames[ext]; ok {
		return name
	}
	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}
