// Package handler defines the contract query handlers satisfy and the helper
// struct they embed.
package handler

import (
	"context"
	"time"

	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/models"
)

// Handler answers the intents it claims. Implementations hold no per-query
// state and must return the same envelope for the same inputs.
type Handler interface {
	Name() string
	Intents() []string
	CanHandle(q *models.ParsedQuery, qctx *models.Context) bool
	Handle(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response
	CacheKey(q *models.ParsedQuery, qctx *models.Context) string
	Format(result interface{}, format string) interface{}
}

// CacheTTLer is implemented by handlers that choose their own cache lifetime.
// A zero duration defers to the registry default.
type CacheTTLer interface {
	CacheTTL() time.Duration
}

// Factory builds a handler from the shared service bundle. Returning an error
// rejects the handler at registration, typically because a service it cannot
// work without is missing.
type Factory func(b *services.Bundle) (Handler, error)
