package airlineinfo

import (
	"context"
	"fmt"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/handlers"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/models"
)

// Handler describes an airline.
type Handler struct {
	handler.Base
	config *Config
	lookup handler.Lookup[models.Airline]
}

func Factory(cfg *Config) handler.Factory {
	return func(b *services.Bundle) (handler.Handler, error) {
		if b.Reference == nil {
			return nil, fmt.Errorf("%s: reference service is required", Name)
		}
		base, err := handler.NewBase(Name, Intents, b,
			handler.WithFields(airlineFields),
			handler.WithDefaultFormat(cfg.DefaultFormat),
			handler.WithSchema(entitySchema),
			handler.WithCacheTTL(cfg.CacheTTL),
		)
		if err != nil {
			return nil, err
		}
		return &Handler{Base: base, config: cfg, lookup: handlers.AirlineLookup(b.Reference)}, nil
	}
}

func (h *Handler) Handle(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	return h.Guard(func() *response.Response {
		if resp := h.ValidateEntities(q); resp != nil {
			return resp
		}
		ident, resp := h.RequireEntity(q, qctx, "airline", "airlineCode", "carrier")
		if resp != nil {
			return resp
		}

		airline, matchedBy, err := handler.LookupIdentifier(ctx, ident, h.lookup)
		if err != nil {
			if knowledge.IsNotFound(err) {
				return h.Fail(apperrors.NewNotFoundError("Airline", ident))
			}
			return h.ServiceFailure(ctx, "reference", err)
		}

		format := h.FormatName(q)
		return h.Succeed(h.Format(airline, format), format, map[string]interface{}{
			"matchedBy": matchedBy,
		})
	})
}
