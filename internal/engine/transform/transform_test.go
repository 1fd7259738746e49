package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Terminal string  `json:"terminal"`
	Wingspan float64 `json:"wingspan"`
}

var fields = FieldSet{Simple: []string{"id", "name"}, Summary: []string{"terminal"}}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, FormatSimple, NormalizeFormat("SIMPLE"))
	assert.Equal(t, FormatSummary, NormalizeFormat("summary"))
	assert.Equal(t, FormatDetailed, NormalizeFormat("fancy"))
	assert.Equal(t, FormatDetailed, NormalizeFormat(""))
}

func TestShape(t *testing.T) {
	tr := New()
	r := record{ID: 1, Name: "A12", Terminal: "T1", Wingspan: 65}

	tests := []struct {
		format string
		keys   []string
	}{
		{FormatSimple, []string{"id", "name"}},
		{FormatSummary, []string{"id", "name", "terminal"}},
		{FormatDetailed, []string{"id", "name", "terminal", "wingspan"}},
		{"unknown", []string{"id", "name", "terminal", "wingspan"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := tr.Shape(r, fields, tt.format)
			require.NoError(t, err)
			assert.Len(t, got, len(tt.keys))
			for _, k := range tt.keys {
				assert.Contains(t, got, k)
			}
		})
	}
}

func TestShapeAll(t *testing.T) {
	out, err := ShapeAll(New(), []record{{ID: 1, Name: "A1"}, {ID: 2, Name: "A2"}}, fields, FormatSimple)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A2", out[1].(map[string]interface{})["name"])
}

func TestToMap_RejectsNonObjects(t *testing.T) {
	_, err := New().ToMap([]int{1, 2})
	assert.Error(t, err)
}
