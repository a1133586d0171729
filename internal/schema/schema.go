// Package schema validates tool-call inputs against the minimal JSON-Schema
// subset the tool registry declares: an object with typed properties, a
// required list, and optional enum constraints. Validation is strict on
// purpose — a malformed input must never reach a handler and cause a partial
// mutation.
package schema

import "fmt"

// ValidationError reports which field of a tool input failed validation.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// Validate checks params against a schema of the shape
//
//	{"type": "object", "properties": {...}, "required": [...]}
//
// where each property declares a "type" (string, integer, number, boolean,
// array, object) and optionally an "enum" of allowed string values.
func Validate(params map[string]any, schema map[string]any) error {
	for _, field := range requiredFields(schema) {
		v, ok := params[field]
		if !ok {
			return &ValidationError{Field: field, Message: "required field is missing"}
		}
		if v == nil {
			return &ValidationError{Field: field, Message: "required field is null"}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for field, value := range params {
		prop, ok := properties[field].(map[string]any)
		if !ok {
			continue // extra fields are tolerated; handlers ignore them
		}
		expected, _ := prop["type"].(string)
		if !typeMatches(value, expected) {
			return &ValidationError{
				Field:   field,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", expected, value),
			}
		}
		if err := enumMatches(field, value, prop); err != nil {
			return err
		}
	}
	return nil
}

// requiredFields normalizes both []string and the []any shape a JSON-decoded
// schema produces.
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		fields := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	}
	return nil
}

func enumMatches(field string, value any, prop map[string]any) error {
	allowed := enumValues(prop)
	if len(allowed) == 0 {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return &ValidationError{Field: field, Value: value, Message: "enum fields must be strings"}
	}
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("value %q is not one of %v", s, allowed),
	}
}

func enumValues(prop map[string]any) []string {
	switch enum := prop["enum"].(type) {
	case []string:
		return enum
	case []any:
		values := make([]string, 0, len(enum))
		for _, e := range enum {
			if s, ok := e.(string); ok {
				values = append(values, s)
			}
		}
		return values
	}
	return nil
}

func typeMatches(value any, expected string) bool {
	if value == nil {
		return true
	}
	switch expected {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64: // JSON decoding produces float64 for all numbers
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int32, int64, float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	}
	return true
}
