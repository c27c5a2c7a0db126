package parsers

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Schema builds a Go value from a decoded YAML document node.
type Schema interface {
	Name() string
	Construct(node *yaml.Node) (any, error)
}

var (
	// CoreSchema resolves tags the way yaml.v3 does natively (YAML 1.2 core
	// plus timestamps and binary). It is the default.
	CoreSchema Schema = coreSchema{}

	// FailsafeSchema keeps every scalar as a string.
	FailsafeSchema Schema = failsafeSchema{}

	// JSONSchema only accepts values representable in JSON and rejects
	// documents using any other tag.
	JSONSchema Schema = jsonSchema{}
)

var schemas = []Schema{CoreSchema, FailsafeSchema, JSONSchema}

// SchemaByName returns the built-in schema with the given name.
func SchemaByName(name string) (Schema, error) {
	for _, s := range schemas {
		if strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return nil, &UnknownSchemaError{Name: name, Available: SchemaNames()}
}

// SchemaNames lists the built-in schema names.
func SchemaNames() []string {
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name())
	}
	slices.Sort(names)
	return names
}

// UnknownSchemaError is returned by SchemaByName for an unregistered name.
type UnknownSchemaError struct {
	Name      string
	Available []string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("unknown YAML schema %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

type coreSchema struct{}

func (coreSchema) Name() string { return "core" }

func (coreSchema) Construct(node *yaml.Node) (any, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return stringKeys(v), nil
}

// stringKeys rewrites mappings decoded with non-string keys (for example
// "1: one") into string-keyed maps, recursively.
func stringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = stringKeys(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[keyString(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = stringKeys(item)
		}
		return v
	default:
		return v
	}
}

func keyString(k any) string {
	switch k := k.(type) {
	case nil:
		return "null"
	case string:
		return k
	case time.Time:
		return k.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(k)
	}
}

type failsafeSchema struct{}

func (failsafeSchema) Name() string { return "failsafe" }

func (failsafeSchema) Construct(node *yaml.Node) (any, error) {
	return newWalker(func(n *yaml.Node) (any, error) {
		return n.Value, nil
	}).walk(node)
}

type jsonSchema struct{}

func (jsonSchema) Name() string { return "json" }

func (jsonSchema) Construct(node *yaml.Node) (any, error) {
	return newWalker(func(n *yaml.Node) (any, error) {
		switch tag := n.ShortTag(); tag {
		case "!!null":
			return nil, nil
		case "!!str":
			return n.Value, nil
		case "!!bool", "!!int", "!!float":
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, err
			}
			return v, nil
		default:
			return nil, fmt.Errorf("line %d: tag %s is not allowed by the json schema", n.Line, tag)
		}
	}).walk(node)
}

// Alias expansion limits, matching the yaml.v3 decoder: once a document is
// large, the share of nodes reached through aliases must shrink.
const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
)

func allowedAliasRatio(visited int) float64 {
	switch {
	case visited <= aliasRatioRangeLow:
		return 0.99
	case visited >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(visited-aliasRatioRangeLow)/float64(aliasRatioRangeHigh-aliasRatioRangeLow))
	}
}

// walker rebuilds the document tree, delegating scalars to scalar. Mapping
// keys are always rendered as strings.
type walker struct {
	scalar func(*yaml.Node) (any, error)

	expanding  map[*yaml.Node]bool
	aliasDepth int
	visited    int
	aliased    int
}

func newWalker(scalar func(*yaml.Node) (any, error)) *walker {
	return &walker{scalar: scalar, expanding: make(map[*yaml.Node]bool)}
}

func (w *walker) walk(node *yaml.Node) (any, error) {
	w.visited++
	if w.aliasDepth > 0 {
		w.aliased++
	}
	if w.aliased > 100 && w.visited > 1000 && float64(w.aliased)/float64(w.visited) > allowedAliasRatio(w.visited) {
		return nil, errors.New("document contains excessive aliasing")
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return w.walk(node.Content[0])
	case yaml.AliasNode:
		if w.expanding[node] {
			return nil, fmt.Errorf("line %d: anchor '%s' value contains itself", node.Line, node.Value)
		}
		w.expanding[node] = true
		w.aliasDepth++
		v, err := w.walk(node.Alias)
		w.aliasDepth--
		delete(w.expanding, node)
		return v, err
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := w.walk(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			val, err := w.walk(v)
			if err != nil {
				return nil, err
			}
			out[k.Value] = val
		}
		return out, nil
	case yaml.ScalarNode:
		return w.scalar(node)
	default:
		return nil, fmt.Errorf("line %d: unexpected YAML node kind %d", node.Line, node.Kind)
	}
}
