// pkg/catalog/schema.go
package catalog

// Catalog lists the intents a running engine answers and the handlers that
// claim each one, in registration order.
type Catalog struct {
	Version     string   `json:"version" yaml:"version"`
	GeneratedAt string   `json:"generatedAt" yaml:"generatedAt"`
	Intents     []Intent `json:"intents" yaml:"intents"`
}

type Intent struct {
	Intent   string   `json:"intent" yaml:"intent"`
	Handlers []string `json:"handlers" yaml:"handlers"`
}
