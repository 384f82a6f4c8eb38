package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stepSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"step": map[string]any{"type": "integer"},
		"note": map[string]any{"type": "string"},
	},
	"required":             []any{"step"},
	"additionalProperties": false,
}

func TestSchema_Validate(t *testing.T) {
	s, err := Compile("advance_onboarding", stepSchema)
	require.NoError(t, err)

	assert.NoError(t, s.Validate([]byte(`{"step": 3}`)))

	err = s.Validate([]byte(`{"step": "three"}`))
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "step", ve.Errors[0].Field)
	assert.Contains(t, err.Error(), "advance_onboarding")
}

func TestSchema_Validate_MissingRequired(t *testing.T) {
	s := MustCompile("advance_onboarding", stepSchema)

	err := s.Validate(nil)
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "(root)", ve.Errors[0].Field)
}

func TestSchema_Validate_UnknownProperty(t *testing.T) {
	s := MustCompile("advance_onboarding", stepSchema)

	err := s.Validate([]byte(`{"step": 1, "extra": true}`))
	assert.Error(t, err)
}

func TestSchema_Validate_MalformedJSON(t *testing.T) {
	s := MustCompile("advance_onboarding", stepSchema)

	err := s.Validate([]byte(`{not json`))
	require.Error(t, err)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", map[string]any{"type": 12})
	require.Error(t, err)
	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))

	assert.Panics(t, func() { MustCompile("broken", map[string]any{"type": 12}) })
}
