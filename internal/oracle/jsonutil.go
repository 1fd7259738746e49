package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var (
	// fenced ```json { ... } ``` block
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// greedy fallback for a bare object
	jsonObjectPattern    = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON pulls a JSON object out of model output that may wrap it in
// prose or a markdown fence. Trailing commas are removed. Returns "" when no
// object is present.
func ExtractJSON(content string) string {
	raw := ""
	if m := jsonBlockPattern.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else if m := jsonObjectPattern.FindString(content); m != "" {
		raw = m
	}
	if raw == "" {
		return ""
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}

// DecodeObject extracts and decodes a JSON object from model output.
func DecodeObject(content string) (map[string]interface{}, error) {
	raw := ExtractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in oracle output")
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("invalid JSON in oracle output: %w", err)
	}
	return out, nil
}
