// internal/handlers/aircraft/aircraft-stands/config.go
package aircraftstands

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/engine/transform"
)

const Name = "aircraft-stands"

var Intents = []string{"aircraft.stands", "aircraft.compatible_stands"}

type Config struct {
	CacheTTL      time.Duration
	DefaultFormat string
	MaxResults    int
}

func LoadConfig(hc config.HandlerConfig) *Config {
	return &Config{
		CacheTTL:      time.Duration(hc.CacheTTLSeconds) * time.Second,
		DefaultFormat: transform.FormatSummary,
		MaxResults:    50,
	}
}
