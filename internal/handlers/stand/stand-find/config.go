// internal/handlers/stand/stand-find/config.go
package standfind

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/engine/transform"
)

const Name = "stand-find"

const (
	IntentFind      = "stand.find"
	IntentSearch    = "stand.search"
	IntentAvailable = "stand.available"
)

var Intents = []string{IntentFind, IntentSearch, IntentAvailable}

type Config struct {
	CacheTTL      time.Duration
	DefaultFormat string
	MaxResults    int
	// DefaultRadiusM applies to proximity searches that give no radius.
	DefaultRadiusM float64
}

func LoadConfig(hc config.HandlerConfig) *Config {
	return &Config{
		CacheTTL:       time.Duration(hc.CacheTTLSeconds) * time.Second,
		DefaultFormat:  transform.FormatSummary,
		MaxResults:     50,
		DefaultRadiusM: 500,
	}
}
