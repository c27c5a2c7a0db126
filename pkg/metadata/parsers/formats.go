package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseJSON parses a single strict JSON value. Options are ignored.
func ParseJSON(_ ParseOptions, data []byte) (any, error) {
	if !json.Valid(data) {
		// Unmarshal reports a positioned syntax error.
		var discard any
		if err := json.Unmarshal(data, &discard); err != nil {
			return nil, err
		}
		return nil, errors.New("invalid JSON document")
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseYAML parses a single YAML document and builds its value with
// opts.Schema, falling back to CoreSchema.
func ParseYAML(opts ParseOptions, data []byte) (any, error) {
	schema := opts.Schema
	if schema == nil {
		schema = CoreSchema
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			// Only comments or whitespace.
			return nil, nil
		}
		return nil, err
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("expected a single document in the stream, found more (line %d)", extra.Line)
	}

	return schema.Construct(&doc)
}

// ParseTOML parses a TOML document into a map. Options are ignored.
func ParseTOML(_ ParseOptions, data []byte) (any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
