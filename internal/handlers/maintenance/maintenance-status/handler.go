package maintenancestatus

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

// Handler reports stand maintenance.
type Handler struct {
	handler.Base
	config      *Config
	maintenance knowledge.MaintenanceService
	stands      knowledge.StandService
}

// Factory requires the maintenance service. Without a stand service
// maintenance.status fails with service_unavailable.
func Factory(cfg *Config) handler.Factory {
	return func(b *services.Bundle) (handler.Handler, error) {
		if b.Maintenance == nil {
			return nil, fmt.Errorf("%s: maintenance service is required", Name)
		}
		base, err := handler.NewBase(Name, Intents, b,
			handler.WithFields(requestFields),
			handler.WithDefaultFormat(cfg.DefaultFormat),
			handler.WithSchema(entitySchema),
			handler.WithCacheTTL(cfg.CacheTTL),
		)
		if err != nil {
			return nil, err
		}
		return &Handler{Base: base, config: cfg, maintenance: b.Maintenance, stands: b.Stands}, nil
	}
}

func (h *Handler) Handle(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	return h.Guard(func() *response.Response {
		if resp := h.ValidateEntities(q); resp != nil {
			return resp
		}
		switch q.Intent {
		case IntentStatus:
			return h.status(ctx, q, qctx)
		case IntentOpen:
			return h.open(ctx, q)
		default:
			return h.Fail(apperrors.NewUnsupportedIntentError(q.Intent))
		}
	})
}

func (h *Handler) status(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	ident, resp := h.RequireEntity(q, qctx, "stand", "standId")
	if resp != nil {
		return resp
	}
	if h.stands == nil {
		return h.Fail(apperrors.NewServiceUnavailableError("stands"))
	}

	stand, _, err := handler.LookupIdentifier(ctx, ident, handlers.StandLookup(h.stands))
	if err != nil {
		if knowledge.IsNotFound(err) {
			return h.Fail(apperrors.NewNotFoundError("Stand", ident))
		}
		return h.ServiceFailure(ctx, "stands", err)
	}

	list, err := h.maintenance.RequestsForStand(ctx, stand.ID)
	if err != nil {
		return h.ServiceFailure(ctx, "maintenance", err)
	}

	open := 0
	for _, r := range list {
		if r.Status.IsOpen() {
			open++
		}
	}

	format := h.FormatName(q)
	requests, err := transform.ShapeAll(h.Transformer, list, requestFields, format)
	if err != nil {
		return h.Fail(apperrors.NewProcessingError(err))
	}
	standMap, err := h.Transformer.Shape(stand, standFields, transform.FormatSimple)
	if err != nil {
		return h.Fail(apperrors.NewProcessingError(err))
	}

	return h.Succeed(StandStatus{
		Stand:            standMap,
		UnderMaintenance: open > 0,
		OpenCount:        open,
		Requests:         requests,
	}, format, map[string]interface{}{"count": len(list)})
}

func (h *Handler) open(ctx context.Context, q *models.ParsedQuery) *response.Response {
	list, err := h.maintenance.OpenRequests(ctx)
	if err != nil {
		return h.ServiceFailure(ctx, "maintenance", err)
	}
	if len(list) == 0 {
		return h.Fail(apperrors.NewNoResultsError("maintenance requests", map[string]interface{}{"status": "open"}))
	}

	format := h.FormatName(q)
	requests, err := transform.ShapeAll(h.Transformer, list, requestFields, format)
	if err != nil {
		return h.Fail(apperrors.NewProcessingError(err))
	}
	return h.Succeed(requests, format, map[string]interface{}{"count": len(list)})
}
