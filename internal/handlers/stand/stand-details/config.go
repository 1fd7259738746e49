// internal/handlers/stand/stand-details/config.go
package standdetails

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/engine/transform"
)

const Name = "stand-details"

var Intents = []string{"stand.details", "stand.info"}

type Config struct {
	CacheTTL      time.Duration
	DefaultFormat string
}

func LoadConfig(hc config.HandlerConfig) *Config {
	return &Config{
		CacheTTL:      time.Duration(hc.CacheTTLSeconds) * time.Second,
		DefaultFormat: transform.FormatDetailed,
	}
}
