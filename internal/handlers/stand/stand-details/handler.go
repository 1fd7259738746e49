package standdetails

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

// Handler answers questions about one stand.
type Handler struct {
	handler.Base
	config *Config
	lookup handler.Lookup[models.Stand]
}

// Factory returns a handler.Factory. The stand service is required.
func Factory(cfg *Config) handler.Factory {
	return func(b *services.Bundle) (handler.Handler, error) {
		if b.Stands == nil {
			return nil, fmt.Errorf("%s: stand service is required", Name)
		}
		base, err := handler.NewBase(Name, Intents, b,
			handler.WithFields(standFields),
			handler.WithDefaultFormat(cfg.DefaultFormat),
			handler.WithSchema(entitySchema),
			handler.WithCacheTTL(cfg.CacheTTL),
		)
		if err != nil {
			return nil, err
		}
		return &Handler{
			Base:   base,
			config: cfg,
			lookup: handlers.StandLookup(b.Stands),
		}, nil
	}
}

func (h *Handler) Handle(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	return h.Guard(func() *response.Response {
		if resp := h.ValidateEntities(q); resp != nil {
			return resp
		}
		ident, resp := h.RequireEntity(q, qctx, "stand", "standId", "standName")
		if resp != nil {
			return resp
		}

		stand, matchedBy, err := handler.LookupIdentifier(ctx, ident, h.lookup)
		if err != nil {
			if knowledge.IsNotFound(err) {
				return h.Fail(apperrors.NewNotFoundError("Stand", ident))
			}
			return h.ServiceFailure(ctx, "stands", err)
		}

		format := h.FormatName(q)
		h.Logger.Debug("stand resolved", map[string]interface{}{
			"identifier": ident,
			"matchedBy":  matchedBy,
		})
		return h.Succeed(h.Format(stand, format), format, map[string]interface{}{
			"matchedBy": matchedBy,
		})
	})
}
