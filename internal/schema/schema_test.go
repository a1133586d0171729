package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objectSchema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func TestValidateSuccess(t *testing.T) {
	s := objectSchema(map[string]any{
		"content":  map[string]any{"type": "string"},
		"position": map[string]any{"type": "integer"},
	}, "content")

	assert.NoError(t, Validate(map[string]any{"content": "hello"}, s))
	assert.NoError(t, Validate(map[string]any{"content": "hello", "position": 3.0}, s))
}

func TestValidateMissingRequired(t *testing.T) {
	s := objectSchema(map[string]any{"content": map[string]any{"type": "string"}}, "content")

	err := Validate(map[string]any{}, s)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "content", vErr.Field)
	assert.Contains(t, vErr.Message, "missing")
}

func TestValidateRequiredAsAnySlice(t *testing.T) {
	// JSON-decoded schemas carry required as []any.
	s := map[string]any{
		"type":       "object",
		"properties": map[string]any{"x": map[string]any{"type": "string"}},
		"required":   []any{"x"},
	}
	assert.Error(t, Validate(map[string]any{}, s))
	assert.NoError(t, Validate(map[string]any{"x": "y"}, s))
}

func TestValidateTypeMismatch(t *testing.T) {
	s := objectSchema(map[string]any{"position": map[string]any{"type": "integer"}})

	err := Validate(map[string]any{"position": "three"}, s)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")

	// Fractional numbers are not integers.
	assert.Error(t, Validate(map[string]any{"position": 1.5}, s))
}

func TestValidateEnum(t *testing.T) {
	s := objectSchema(map[string]any{
		"mode": map[string]any{"type": "string", "enum": []string{"replace", "insert", "append"}},
	})

	assert.NoError(t, Validate(map[string]any{"mode": "insert"}, s))

	err := Validate(map[string]any{"mode": "prepend"}, s)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "mode", vErr.Field)
}

func TestValidateExtraFieldsTolerated(t *testing.T) {
	s := objectSchema(map[string]any{"content": map[string]any{"type": "string"}})
	assert.NoError(t, Validate(map[string]any{"content": "x", "unknown": 42}, s))
}
