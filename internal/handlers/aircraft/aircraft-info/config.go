// internal/handlers/aircraft/aircraft-info/config.go
package aircraftinfo

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/engine/transform"
)

const Name = "aircraft-info"

var Intents = []string{"aircraft.info", "aircraft.details"}

type Config struct {
	CacheTTL      time.Duration
	DefaultFormat string
}

// LoadConfig defaults to an hour of caching; reference data rarely changes.
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
