// internal/oracle/models.go
package oracle

// Completion is the reasoning oracle's answer to a prompt.
type Completion struct {
	Text  string `json:"text"`
	Usage *Usage `json:"usage,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// Extraction is the parameter-extraction oracle's answer.
type Extraction struct {
	Parameters map[string]interface{} `json:"parameters"`
	Confidence float64                `json:"confidence"`
	Reasoning  string                 `json:"reasoning"`
}

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type extractRequest struct {
	Text string `json:"text"`
}
