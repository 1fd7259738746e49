// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig                `mapstructure:"app"`
	Server   ServerConfig             `mapstructure:"server"`
	Database DatabaseConfig           `mapstructure:"database"`
	Engine   EngineConfig             `mapstructure:"engine"`
	Oracle   OracleConfig             `mapstructure:"oracle"`
	Events   EventsConfig             `mapstructure:"events"`
	Handlers map[string]HandlerConfig `mapstructure:"handlers"`
	Logging  LoggingConfig            `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// Address returns the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	StandIndex string   `mapstructure:"stand_index"`
}

// Enabled reports whether free-text stand search is configured.
func (e ElasticsearchConfig) Enabled() bool {
	return len(e.Addresses) > 0
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix namespaces every cache key, e.g. "airport-query-engine:".
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Enabled reports whether the response cache has a backing store.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// EngineConfig holds the registry options.
type EngineConfig struct {
	EnableQueryCache       *bool `mapstructure:"enable_query_cache"`
	MaxPlanSteps           int   `mapstructure:"max_plan_steps"` // 0 = unbounded
	DefaultCacheTTLSeconds int   `mapstructure:"default_cache_ttl_seconds"`
	QueryTimeout           int   `mapstructure:"query_timeout"` // milliseconds
}

// QueryCacheEnabled returns the effective write-through setting (default true).
func (e EngineConfig) QueryCacheEnabled() bool {
	if e.EnableQueryCache == nil {
		return true
	}
	return *e.EnableQueryCache
}

// OracleConfig points at the reasoning / parameter-extraction service.
type OracleConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// Enabled reports whether complex queries can be planned.
func (o OracleConfig) Enabled() bool {
	return o.BaseURL != ""
}

// EventsConfig points at the NATS server receiving query events.
type EventsConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
	ConnectName   string `mapstructure:"connect_name"`
}

// Enabled reports whether query events are published.
func (e EventsConfig) Enabled() bool {
	return e.URL != ""
}

// HandlerConfig holds the settings applicable to every query handler.
type HandlerConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	CacheTTLSeconds int  `mapstructure:"cache_ttl_seconds"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
