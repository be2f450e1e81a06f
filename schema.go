package dodo

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a compiled JSON Schema used to validate tool parameters and
// structured task output.
type Schema struct {
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

// NewSchema compiles a JSON Schema document.
func NewSchema(raw json.RawMessage) (*Schema, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{raw: append(json.RawMessage(nil), raw...), compiled: compiled}, nil
}

// MustSchema compiles a JSON Schema document and panics on error. For
// tool declarations known valid at build time.
func MustSchema(raw string) *Schema {
	s, err := NewSchema(json.RawMessage(raw))
	if err != nil {
		panic(err)
	}
	return s
}

// ObjectSchema builds and compiles an object schema from property
// fragments and required property names. Fragments are schema documents
// decoded as generic JSON (map[string]any or json.RawMessage).
func ObjectSchema(properties map[string]any, required ...string) (*Schema, error) {
	props := make(map[string]any, len(properties))
	for name, frag := range properties {
		if raw, ok := frag.(json.RawMessage); ok {
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			frag = decoded
		}
		props[name] = frag
	}
	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return NewSchema(raw)
}

// JSON returns the schema document as written.
func (s *Schema) JSON() json.RawMessage { return s.raw }

// Validate checks a decoded JSON value against the schema. The value is
// round-tripped through encoding/json so plain Go maps, slices, and
// scalars validate with correct number semantics.
func (s *Schema) Validate(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return s.compiled.Validate(doc)
}
