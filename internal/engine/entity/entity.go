// Package entity pulls values out of entity maps.
package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"airport-query-engine/internal/models"
)

// Resolve returns the value of the first key (primary, then alternates in order)
// whose value is present. Only missing keys and nil values count as absent.
func Resolve(entities map[string]interface{}, primary string, alternates []string, def interface{}) interface{} {
	if v, ok := lookup(entities, primary, alternates); ok {
		return v
	}
	return def
}

// ResolveNonEmpty is Resolve with empty and whitespace-only strings also treated as absent.
func ResolveNonEmpty(entities map[string]interface{}, primary string, alternates []string, def interface{}) interface{} {
	for _, key := range append([]string{primary}, alternates...) {
		v, ok := entities[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return def
}

// FromQuery resolves against the query entities first and the conversation
// context entities second, so follow-up questions can omit an entity.
func FromQuery(q *models.ParsedQuery, qctx *models.Context, primary string, alternates ...string) (interface{}, bool) {
	if q != nil {
		if v, ok := lookup(q.Entities, primary, alternates); ok {
			return v, true
		}
	}
	if qctx != nil {
		if v, ok := lookup(qctx.Entities, primary, alternates); ok {
			return v, true
		}
	}
	return nil, false
}

// Merged returns the entities FromQuery can see: context entities with the
// query entities laid over them. The query map is returned as is when the
// context adds nothing.
func Merged(q *models.ParsedQuery, qctx *models.Context) map[string]interface{} {
	var own map[string]interface{}
	if q != nil {
		own = q.Entities
	}
	if qctx == nil || len(qctx.Entities) == 0 {
		return own
	}
	out := make(map[string]interface{}, len(qctx.Entities)+len(own))
	for k, v := range qctx.Entities {
		out[k] = v
	}
	for k, v := range own {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func lookup(entities map[string]interface{}, primary string, alternates []string) (interface{}, bool) {
	if entities == nil {
		return nil, false
	}
	if v, ok := entities[primary]; ok && v != nil {
		return v, true
	}
	for _, key := range alternates {
		if v, ok := entities[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String renders scalar entity values as trimmed text.
func String(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Bool interprets yes/no style answers. ok is false when v is not recognisable.
func Bool(v interface{}) (value bool, ok bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "y", "true", "1", "available", "free":
			return true, true
		case "no", "n", "false", "0", "unavailable", "occupied":
			return false, true
		}
	}
	return false, false
}

// Int parses integral values, including numeric strings.
func Int(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}
