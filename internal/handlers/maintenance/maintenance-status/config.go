// internal/handlers/maintenance/maintenance-status/config.go
package maintenancestatus

import (
	"time"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/engine/transform"
)

const Name = "maintenance-status"

const (
	IntentStatus  = "maintenance.status"
	IntentOpen    = "maintenance.open"
	IntentHistory = "maintenance.history"
)

var Intents = []string{IntentStatus, IntentOpen, IntentHistory}

type Config struct {
	CacheTTL      time.Duration
	DefaultFormat string
}

// LoadConfig keeps maintenance answers fresh: one minute unless configured.
func LoadConfig(hc config.HandlerConfig) *Config {
	ttl := time.Duration(hc.CacheTTLSeconds) * time.Second
	if ttl == 0 {
		ttl = time.Minute
	}
	return &Config{
		CacheTTL:      ttl,
		DefaultFormat: transform.FormatSummary,
	}
}
