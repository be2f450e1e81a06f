package gemini

// Gemini accepts only a subset of JSON Schema and rejects documents
// containing $ref. cleanSchema rewrites a full schema into that subset:
// references are resolved inline, unsupported keywords are dropped, and
// anyOf unions containing null collapse to the non-null branch with
// nullable set.

// allowedFields is the keyword subset the Gemini API accepts.
var allowedFields = map[string]bool{
	"type":        true,
	"description": true,
	"enum":        true,
	"items":       true,
	"properties":  true,
	"required":    true,
	"nullable":    true,
	"format":      true,
}

// cleanSchema converts a JSON Schema document to Gemini's subset.
func cleanSchema(schema map[string]any) map[string]any {
	schema = resolveRefs(schema)

	cleaned := make(map[string]any)
	for key, value := range schema {
		switch {
		case key == "properties":
			if props, ok := value.(map[string]any); ok {
				out := make(map[string]any, len(props))
				for name, prop := range props {
					if m, ok := prop.(map[string]any); ok {
						out[name] = cleanSchema(m)
					} else {
						out[name] = prop
					}
				}
				cleaned[key] = out
			}
		case key == "items":
			if m, ok := value.(map[string]any); ok {
				cleaned[key] = cleanSchema(m)
			} else {
				cleaned[key] = value
			}
		case key == "anyOf":
			// Optional fields surface as anyOf with a null branch:
			// collapse to the first non-null branch and mark nullable.
			branches, ok := value.([]any)
			if !ok {
				continue
			}
			var nonNull []map[string]any
			for _, b := range branches {
				m, ok := b.(map[string]any)
				if !ok {
					continue
				}
				if t, _ := m["type"].(string); t != "null" {
					nonNull = append(nonNull, m)
				}
			}
			if len(nonNull) > 0 {
				for k, v := range cleanSchema(nonNull[0]) {
					cleaned[k] = v
				}
				if len(nonNull) < len(branches) {
					cleaned["nullable"] = true
				}
			}
		case allowedFields[key]:
			cleaned[key] = value
		}
	}
	return cleaned
}

// resolveRefs inlines all $ref references against the document's $defs
// or definitions section.
func resolveRefs(schema map[string]any) map[string]any {
	defs, ok := schema["$defs"].(map[string]any)
	if !ok {
		defs, ok = schema["definitions"].(map[string]any)
	}
	if !ok {
		return schema
	}

	var resolve func(obj any) any
	resolve = func(obj any) any {
		switch v := obj.(type) {
		case map[string]any:
			if ref, ok := v["$ref"].(string); ok {
				var name string
				switch {
				case len(ref) > 8 && ref[:8] == "#/$defs/":
					name = ref[8:]
				case len(ref) > 14 && ref[:14] == "#/definitions/":
					name = ref[14:]
				default:
					return v
				}
				if def, ok := defs[name]; ok {
					return resolve(def)
				}
				return v
			}
			out := make(map[string]any, len(v))
			for k, val := range v {
				if k == "$defs" || k == "definitions" {
					continue
				}
				out[k] = resolve(val)
			}
			return out
		case []any:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = resolve(item)
			}
			return out
		}
		return obj
	}

	resolved, _ := resolve(schema).(map[string]any)
	if resolved == nil {
		return schema
	}
	return resolved
}
