// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"airport-query-engine/internal/common/config"

	_ "github.com/lib/pq"
)

// KnowledgeTables are the tables the stand, reference and maintenance stores read.
var KnowledgeTables = []string{"stands", "aircraft_types", "airlines", "maintenance_requests"}

// PostgresClient owns the pool backing the knowledge stores.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// CheckTables reports the first knowledge table missing from the search path.
func (c *PostgresClient) CheckTables(ctx context.Context) error {
	for _, table := range KnowledgeTables {
		var present bool
		if err := c.DB.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&present); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if !present {
			return fmt.Errorf("table %s does not exist", table)
		}
	}
	return nil
}

// Ready is the readiness probe: the pool answers and the schema is in place.
func (c *PostgresClient) Ready(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return err
	}
	return c.CheckTables(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
