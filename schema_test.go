package dodo

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewSchemaInvalidJSON(t *testing.T) {
	if _, err := NewSchema(json.RawMessage(`{not json`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSchemaValidate(t *testing.T) {
	s := MustSchema(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"count": {"type": "integer"}
		},
		"required": ["name"]
	}`)

	if err := s.Validate(map[string]any{"name": "x", "count": 3}); err != nil {
		t.Errorf("valid value rejected: %v", err)
	}
	if err := s.Validate(map[string]any{"count": 3}); err == nil {
		t.Error("missing required accepted")
	}
	if err := s.Validate(map[string]any{"name": "x", "count": "three"}); err == nil {
		t.Error("wrong type accepted")
	}
}

func TestSchemaValidateNumberSemantics(t *testing.T) {
	s := MustSchema(`{"type": "object", "properties": {"n": {"type": "integer"}}}`)
	// Plain Go ints validate as integers after the round trip.
	if err := s.Validate(map[string]any{"n": 42}); err != nil {
		t.Errorf("int rejected: %v", err)
	}
	if err := s.Validate(map[string]any{"n": 1.5}); err == nil {
		t.Error("fraction accepted as integer")
	}
}

func TestObjectSchema(t *testing.T) {
	s, err := ObjectSchema(map[string]any{
		"feedback": map[string]any{"type": "string"},
		"output":   json.RawMessage(`{"type": "object", "properties": {"v": {"type": "number"}}}`),
	}, "feedback")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(s.JSON()), `"required"`) {
		t.Error("required missing from document")
	}
	if err := s.Validate(map[string]any{"feedback": "hi", "output": map[string]any{"v": 1}}); err != nil {
		t.Errorf("valid value rejected: %v", err)
	}
	if err := s.Validate(map[string]any{"output": map[string]any{"v": 1}}); err == nil {
		t.Error("missing feedback accepted")
	}
	if err := s.Validate(map[string]any{"feedback": "hi", "output": map[string]any{"v": "nope"}}); err == nil {
		t.Error("nested type violation accepted")
	}
}

func TestObjectSchemaBadFragment(t *testing.T) {
	if _, err := ObjectSchema(map[string]any{"x": json.RawMessage(`{bad`)}); err == nil {
		t.Fatal("expected error for unparsable fragment")
	}
}

func TestMustSchemaPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustSchema(`{broken`)
}

func TestSchemaJSONPreserved(t *testing.T) {
	raw := `{"type":"object","properties":{"a":{"type":"string","description":"keep me"}}}`
	s := MustSchema(raw)
	if string(s.JSON()) != raw {
		t.Errorf("JSON() = %s", s.JSON())
	}
}
