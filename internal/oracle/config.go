// internal/oracle/config.go
package oracle

import (
	"time"

	"airport-query-engine/internal/common/config"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

func LoadConfig(cfg config.OracleConfig) *Config {
	return &Config{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Timeout:     config.GetDuration(cfg.Timeout),
		MaxRetries:  cfg.MaxRetries,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}
