package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"map shapes", map[string]interface{}{
			"stands":   []interface{}{1, 2, 3},
			"airline":  map[string]interface{}{"name": "x"},
			"count":    3,
			"raw":      "dropped",
			"detailed": map[string]interface{}{},
		}, "airline: {...}, count: 3, stands: [3 items]"},
		{"slice", []interface{}{"a", "b"}, "[2 items]"},
		{"scalar", 42.5, "42.5"},
		{"null value", map[string]interface{}{"x": nil}, "x: null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.input))
		})
	}
}

func TestSummarize_TruncatesLongValues(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	got := Summarize(string(long))
	assert.Len(t, got, maxSummaryValue+3)
}
