package aircraftstands

import (
	"context"
	"fmt"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/engine/transform"
	"airport-query-engine/internal/handlers"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/models"
)

// Handler lists the stands that can take a given aircraft type.
type Handler struct {
	handler.Base
	config *Config
	stands knowledge.StandService
	ref    knowledge.ReferenceService
}

// Factory requires the stand service. The reference service is optional at
// construction; without it every query fails with service_unavailable.
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
		return &Handler{Base: base, config: cfg, stands: b.Stands, ref: b.Reference}, nil
	}
}

func (h *Handler) Handle(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	return h.Guard(func() *response.Response {
		if resp := h.ValidateEntities(q); resp != nil {
			return resp
		}
		ident, resp := h.RequireEntity(q, qctx, "aircraftType", "aircraft", "type")
		if resp != nil {
			return resp
		}
		if h.ref == nil {
			return h.Fail(apperrors.NewServiceUnavailableError("reference"))
		}

		aircraft, _, err := handler.LookupIdentifier(ctx, ident, handlers.AircraftLookup(h.ref))
		if err != nil {
			if knowledge.IsNotFound(err) {
				return h.Fail(apperrors.NewNotFoundError("Aircraft type", ident))
			}
			return h.ServiceFailure(ctx, "reference", err)
		}
		if models.SizeRank(aircraft.SizeCategory) < 0 {
			return h.Fail(apperrors.NewProcessingError(
				fmt.Errorf("aircraft type %s has unknown size category %q", ident, aircraft.SizeCategory)))
		}

		filter := knowledge.FilterFromParams(q.Entities)
		filter.SizeCategory = ""
		if filter.Limit == 0 || filter.Limit > h.config.MaxResults {
			filter.Limit = h.config.MaxResults
		}
		list, err := knowledge.CompatibleStands(ctx, h.stands, aircraft.SizeCategory, filter)
		if err != nil {
			return h.ServiceFailure(ctx, "stands", err)
		}

		criteria := map[string]interface{}{
			"aircraftType": ident,
			"sizeCategory": aircraft.SizeCategory,
		}
		if filter.Terminal != "" {
			criteria["terminal"] = filter.Terminal
		}
		if filter.Available != nil {
			criteria["available"] = *filter.Available
		}
		if len(list) == 0 {
			return h.Fail(apperrors.NewNoResultsError("compatible stands", criteria))
		}

		format := h.FormatName(q)
		stands, err := transform.ShapeAll(h.Transformer, list, standFields, format)
		if err != nil {
			return h.Fail(apperrors.NewProcessingError(err))
		}
		ac, err := h.Transformer.Shape(aircraft, aircraftFields, transform.FormatSimple)
		if err != nil {
			return h.Fail(apperrors.NewProcessingError(err))
		}

		return h.Succeed(Result{Aircraft: ac, SizeCategory: aircraft.SizeCategory, Stands: stands}, format,
			map[string]interface{}{
				"count":   len(list),
				"filters": criteria,
			})
	})
}
