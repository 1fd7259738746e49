package reasoning

import (
	"fmt"
	"sort"
	"strings"
)

// omitted from summaries to keep transcripts small
var summaryExcluded = map[string]bool{"raw": true, "detailed": true}

const maxSummaryValue = 80

// Summarize renders a step result as one line. Maps list their keys in
// lexical order with the value shape; raw and detailed keys are left out.
func Summarize(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			if !summaryExcluded[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+shape(val[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return shape(v)
	}
}

func shape(v interface{}) string {
	switch val := v.(type) {
	case []interface{}:
		return fmt.Sprintf("[%d items]", len(val))
	case []map[string]interface{}:
		return fmt.Sprintf("[%d items]", len(val))
	case map[string]interface{}:
		return "{...}"
	case nil:
		return "null"
	default:
		s := fmt.Sprintf("%v", val)
		if len(s) > maxSummaryValue {
			s = s[:maxSummaryValue] + "..."
		}
		return s
	}
}
