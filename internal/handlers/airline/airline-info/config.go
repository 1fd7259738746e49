// internal/handlers/airline/airline-info/config.go
package airlineinfo

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/engine/transform"
)

const Name = "airline-info"

var Intents = []string{"airline.info", "airline.details"}

type Config struct {
	CacheTTL      time.Duration
	DefaultFormat string
}

func LoadConfig(hc config.HandlerConfig) *Config {
	ttl := time.Duration(hc.CacheTTLSeconds) * time.Second
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Config{
		CacheTTL:      ttl,
		DefaultFormat: transform.FormatDetailed,
	}
}
