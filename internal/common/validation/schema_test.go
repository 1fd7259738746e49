package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

var standSchema = EntitySchema{
	Properties: map[string]Property{
		"stand":    {Type: "string", Pattern: `^[A-Za-z0-9-]+$`, MaxLength: intPtr(10)},
		"terminal": {Type: "string", MinLength: intPtr(1)},
		"size":     {Type: "string", Enum: []string{"A", "B", "C", "D", "E", "F"}},
		"limit":    {Type: "integer"},
	},
	Required: []string{"stand"},
}

func TestValidateEntities(t *testing.T) {
	require.NoError(t, Precompile(standSchema))

	tests := []struct {
		name     string
		entities map[string]interface{}
		wantCode string
	}{
		{"valid", map[string]interface{}{"stand": "A12", "size": "c"}, ""},
		{"missing required", map[string]interface{}{"terminal": "T1"}, CodeRequiredFieldMissing},
		{"nil counts as missing", map[string]interface{}{"stand": nil}, CodeRequiredFieldMissing},
		{"pattern", map[string]interface{}{"stand": "A 12"}, CodePatternMismatch},
		{"too long", map[string]interface{}{"stand": "ABCDEFGHIJK"}, CodeMaxLength},
		{"bad enum", map[string]interface{}{"stand": "A1", "size": "Z"}, CodeInvalidEnum},
		{"wrong type", map[string]interface{}{"stand": 12}, CodeInvalidType},
		{"float integer ok", map[string]interface{}{"stand": "A1", "limit": float64(5)}, ""},
		{"fractional integer", map[string]interface{}{"stand": "A1", "limit": 2.5}, CodeInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateEntities(tt.entities, standSchema)
			if tt.wantCode == "" {
				assert.True(t, res.Valid, res.GetErrorMessages())
				return
			}
			assert.False(t, res.Valid)
			_, ok := res.FirstWithCode(tt.wantCode)
			assert.True(t, ok, res.GetErrorMessages())
		})
	}
}

func TestValidateEntities_Strict(t *testing.T) {
	schema := EntitySchema{Properties: map[string]Property{"airline": {Type: "string"}}, Strict: true}

	res := ValidateEntities(map[string]interface{}{"airline": "BA", "colour": "red"}, schema)
	require.False(t, res.Valid)
	assert.Equal(t, "colour", res.Errors[0].Field)
	assert.Equal(t, CodeExtraField, res.Errors[0].Code)

	loose := ValidateEntities(map[string]interface{}{"airline": "BA", "colour": "red"}, EntitySchema{Properties: schema.Properties})
	assert.True(t, loose.Valid)
}

func TestPrecompile_RejectsBadPattern(t *testing.T) {
	err := Precompile(EntitySchema{Properties: map[string]Property{"x": {Type: "string", Pattern: "("}}})
	assert.Error(t, err)
}
