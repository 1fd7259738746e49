package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: airport
    user: planner
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 300, cfg.Engine.DefaultCacheTTLSeconds)
	assert.Equal(t, 0, cfg.Engine.MaxPlanSteps)
	assert.True(t, cfg.Engine.QueryCacheEnabled())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Database.Redis.Enabled())
	assert.False(t, cfg.Oracle.Enabled())
	assert.Equal(t, "stands", cfg.Database.Elasticsearch.StandIndex)
	assert.Equal(t, "airport-query-engine:", cfg.Database.Redis.KeyPrefix)
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, "queryengine.queries", cfg.Events.SubjectPrefix)
	assert.Equal(t, "airport-query-engine", cfg.Events.ConnectName)
}

func TestLoadFromFile_EngineAndHandlers(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: db
    database: airport
    user: planner
  redis:
    address: localhost:6379
engine:
  enable_query_cache: false
  max_plan_steps: 8
  default_cache_ttl_seconds: 120
handlers:
  stand-details:
    enabled: true
    cache_ttl_seconds: 60
  maintenance-status:
    enabled: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.False(t, cfg.Engine.QueryCacheEnabled())
	assert.Equal(t, 8, cfg.Engine.MaxPlanSteps)
	assert.Equal(t, 120, cfg.Engine.DefaultCacheTTLSeconds)
	assert.True(t, cfg.Database.Redis.Enabled())

	assert.True(t, IsHandlerEnabled(cfg, "stand-details"))
	assert.False(t, IsHandlerEnabled(cfg, "maintenance-status"))
	assert.True(t, IsHandlerEnabled(cfg, "airline-info"))
	assert.Equal(t, 60, GetHandlerConfig(cfg, "stand-details").CacheTTLSeconds)
	assert.Equal(t, HandlerConfig{Enabled: true}, GetHandlerConfig(cfg, "unknown"))
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_ORACLE_URL", "http://oracle.internal")
	path := writeConfig(t, `
database:
  postgres:
    host: db
    database: airport
    user: planner
oracle:
  base_url: ${TEST_ORACLE_URL}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://oracle.internal", cfg.Oracle.BaseURL)
	assert.True(t, cfg.Oracle.Enabled())
}

func TestLoadFromFile_UnsetPlaceholderDisablesBackend(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: db
    database: airport
    user: planner
  redis:
    address: ${TEST_UNSET_REDIS_ADDRESS}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Database.Redis.Address)
	assert.False(t, cfg.Database.Redis.Enabled())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing host", func(c *Config) { c.Database.Postgres.Host = "" }, "database.postgres.host"},
		{"missing database", func(c *Config) { c.Database.Postgres.Database = "" }, "database.postgres.database"},
		{"negative plan steps", func(c *Config) { c.Engine.MaxPlanSteps = -1 }, "max_plan_steps"},
		{"negative handler ttl", func(c *Config) {
			c.Handlers = map[string]HandlerConfig{"stand-find": {CacheTTLSeconds: -5}}
		}, "handlers.stand-find"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Database.Postgres = PostgresConfig{Host: "db", Database: "airport", User: "planner"}
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "airport", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=airport sslmode=disable", p.GetDSN())
}
