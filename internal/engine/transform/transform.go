// Package transform shapes domain records into the maps handlers return.
package transform

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	FormatSimple   = "simple"
	FormatSummary  = "summary"
	FormatDetailed = "detailed"
)

// NormalizeFormat maps unknown or empty names to detailed.
func NormalizeFormat(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatSimple:
		return FormatSimple
	case FormatSummary:
		return FormatSummary
	default:
		return FormatDetailed
	}
}

// FieldSet lists the fields exposed at each format level. Summary fields are
// added on top of Simple; detailed exposes every field.
type FieldSet struct {
	Simple  []string
	Summary []string
}

// Transformer converts typed records into generic maps.
type Transformer struct{}

func New() *Transformer {
	return &Transformer{}
}

// ToMap converts a struct (or map) to map[string]interface{} using its JSON tags.
func (t *Transformer) ToMap(v interface{}) (map[string]interface{}, error) {
	if m, ok := v.(map[string]interface{}); ok {
		return m, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("transform: marshal %T: %w", v, err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("transform: %T is not an object: %w", v, err)
	}
	return out, nil
}

// Pick copies the named keys that exist in m.
func (t *Transformer) Pick(m map[string]interface{}, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Shape renders v at the requested format level.
func (t *Transformer) Shape(v interface{}, fields FieldSet, format string) (map[string]interface{}, error) {
	m, err := t.ToMap(v)
	if err != nil {
		return nil, err
	}
	switch NormalizeFormat(format) {
	case FormatSimple:
		return t.Pick(m, fields.Simple...), nil
	case FormatSummary:
		return t.Pick(m, append(append([]string{}, fields.Simple...), fields.Summary...)...), nil
	default:
		return m, nil
	}
}

// ShapeAll applies Shape to every element of a slice of records.
func ShapeAll[T any](t *Transformer, items []T, fields FieldSet, format string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		m, err := t.Shape(item, fields, format)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
