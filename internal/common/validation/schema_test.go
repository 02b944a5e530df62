package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["name", "slots"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"slots": {
			"type": "object",
			"additionalProperties": {"type": ["string", "null"]}
		}
	}
}`

func TestSchema_ValidateDocument(t *testing.T) {
	schema := MustCompileSchema(testSchema)

	tests := []struct {
		name     string
		document string
		valid    bool
		validate func(t *testing.T, result *ValidationResult)
	}{
		{
			name:     "valid document",
			document: `{"name": "RecommendPortfolio", "slots": {"age": "30", "riskLevel": null}}`,
			valid:    true,
		},
		{
			name:     "missing required field",
			document: `{"name": "RecommendPortfolio"}`,
			validate: func(t *testing.T, result *ValidationResult) {
				assert.True(t, result.HasErrors("(root)"))
				assert.Contains(t, result.GetErrorMessages()[0], "slots")
			},
		},
		{
			name:     "nested type violation",
			document: `{"name": "RecommendPortfolio", "slots": {"age": 30}}`,
			validate: func(t *testing.T, result *ValidationResult) {
				assert.True(t, result.HasErrors("slots.age"))
				assert.Len(t, result.GetErrorsForField("slots"), 1)
				assert.Equal(t, "INVALID_TYPE", result.Errors[0].Code)
			},
		},
		{
			name:     "empty name",
			document: `{"name": "", "slots": {}}`,
			validate: func(t *testing.T, result *ValidationResult) {
				assert.True(t, result.HasErrors("name"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.ValidateDocument([]byte(tt.document))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Empty(t, result.Errors)
			}
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestSchema_ValidateDocument_NotJSON(t *testing.T) {
	schema := MustCompileSchema(testSchema)

	_, err := schema.ValidateDocument([]byte(`{"name": `))
	require.Error(t, err)
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema(`{"type": 12}`)
	require.Error(t, err)

	assert.Panics(t, func() { MustCompileSchema(`not json`) })
}
