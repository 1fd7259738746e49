// internal/models/query.go
package models

// ParsedQuery is the NLP layer's output. It is not modified once dispatched.
type ParsedQuery struct {
	Intent     string                 `json:"intent"`
	Entities   map[string]interface{} `json:"entities"`
	RawText    string                 `json:"rawText,omitempty"`
	Confidence float64                `json:"confidence,omitempty"`
	Complex    bool                   `json:"complex,omitempty"`
}

// Entity returns the raw entity value, nil when absent.
func (q *ParsedQuery) Entity(key string) interface{} {
	if q == nil || q.Entities == nil {
		return nil
	}
	return q.Entities[key]
}

// Context carries conversation state. The engine only reads it.
type Context struct {
	ID       string                 `json:"id"`
	UserID   string                 `json:"userId,omitempty"`
	Messages []Message              `json:"messages,omitempty"`
	Entities map[string]interface{} `json:"entities,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContextID returns the id or "" for a nil context.
func (c *Context) ContextID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
