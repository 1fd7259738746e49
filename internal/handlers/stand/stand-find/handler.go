package standfind

import (
	"context"
	"fmt"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/engine/entity"
	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/engine/transform"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/models"
)

// Handler finds stands matching criteria, free text or a location.
type Handler struct {
	handler.Base
	config *Config
	stands knowledge.StandService
}

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
		return &Handler{Base: base, config: cfg, stands: b.Stands}, nil
	}
}

func (h *Handler) Handle(ctx context.Context, q *models.ParsedQuery, qctx *models.Context) *response.Response {
	return h.Guard(func() *response.Response {
		if resp := h.ValidateEntities(q); resp != nil {
			return resp
		}

		filter, criteria := h.criteria(q)
		var (
			list []models.Stand
			err  error
			mode string
		)

		if near, ok := q.Entities["near"]; ok && near != nil {
			pt, ok := parsePoint(near)
			if !ok {
				// a place name would need geocoding
				return h.Fail(apperrors.NewUnsupportedFeatureError("geocoding"))
			}
			criteria["near"] = map[string]interface{}{"latitude": pt.Lat, "longitude": pt.Lon}
			mode = "proximity"
			list, err = h.nearby(ctx, pt, q, filter)
		} else if pt, ok := pointFromEntities(q.Entities); ok {
			criteria["near"] = map[string]interface{}{"latitude": pt.Lat, "longitude": pt.Lon}
			mode = "proximity"
			list, err = h.nearby(ctx, pt, q, filter)
		} else if text := entity.String(entity.Resolve(q.Entities, "query", []string{"text"}, nil)); text != "" {
			criteria["query"] = text
			mode = "text"
			list, err = h.search(ctx, text, filter)
		} else {
			mode = "filter"
			list, err = h.stands.ListStands(ctx, filter)
		}

		if err != nil {
			return h.ServiceFailure(ctx, "stands", err)
		}
		if len(list) == 0 {
			return h.Fail(apperrors.NewNoResultsError("stands", criteria))
		}

		format := h.FormatName(q)
		shaped, err := transform.ShapeAll(h.Transformer, list, standFields, format)
		if err != nil {
			return h.Fail(apperrors.NewProcessingError(err))
		}
		return h.Succeed(shaped, format, map[string]interface{}{
			"count":   len(list),
			"filters": criteria,
			"mode":    mode,
		})
	})
}

// criteria builds the stand filter and its echo for metadata. stand.available
// implies available=true unless the query says otherwise.
func (h *Handler) criteria(q *models.ParsedQuery) (models.StandFilter, map[string]interface{}) {
	filter := knowledge.FilterFromParams(q.Entities)
	if filter.Available == nil && q.Intent == IntentAvailable {
		yes := true
		filter.Available = &yes
	}
	if filter.Limit == 0 || filter.Limit > h.config.MaxResults {
		filter.Limit = h.config.MaxResults
	}

	criteria := map[string]interface{}{}
	if filter.Terminal != "" {
		criteria["terminal"] = filter.Terminal
	}
	if filter.Pier != "" {
		criteria["pier"] = filter.Pier
	}
	if filter.SizeCategory != "" {
		criteria["sizeCategory"] = filter.SizeCategory
	}
	if filter.Available != nil {
		criteria["available"] = *filter.Available
	}
	if filter.JetBridge != nil {
		criteria["jetBridge"] = *filter.JetBridge
	}
	return filter, criteria
}

// search prefers the service's free-text index and falls back to ranking the
// filtered listing by name.
func (h *Handler) search(ctx context.Context, text string, filter models.StandFilter) ([]models.Stand, error) {
	if searcher, ok := h.stands.(knowledge.StandSearcher); ok {
		found, err := searcher.SearchStands(ctx, text, filter.Limit)
		if err != nil {
			return nil, err
		}
		return applyFilter(found, filter), nil
	}
	limit := filter.Limit
	filter.Limit = 0
	all, err := h.stands.ListStands(ctx, filter)
	if err != nil {
		return nil, err
	}
	return knowledge.RankByName(all, func(s models.Stand) string { return s.Name }, text, limit), nil
}

func (h *Handler) nearby(ctx context.Context, pt point, q *models.ParsedQuery, filter models.StandFilter) ([]models.Stand, error) {
	prox, ok := h.stands.(knowledge.ProximitySearcher)
	if !ok {
		return nil, apperrors.NewUnsupportedFeatureError("proximity search")
	}
	radius := h.config.DefaultRadiusM
	if r, ok := q.Entities["radius"].(float64); ok && r > 0 {
		radius = r
	}
	found, err := prox.StandsNear(ctx, pt.Lat, pt.Lon, radius, filter.Limit)
	if err != nil {
		return nil, err
	}
	return applyFilter(found, filter), nil
}

func applyFilter(list []models.Stand, filter models.StandFilter) []models.Stand {
	out := make([]models.Stand, 0, len(list))
	for _, s := range list {
		if filter.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

func parsePoint(v interface{}) (point, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return point{}, false
	}
	return pointFromEntities(m)
}

func pointFromEntities(m map[string]interface{}) (point, bool) {
	lat, okLat := entity.Resolve(m, "latitude", []string{"lat"}, nil).(float64)
	lon, okLon := entity.Resolve(m, "longitude", []string{"lon", "lng"}, nil).(float64)
	if !okLat || !okLon {
		return point{}, false
	}
	return point{Lat: lat, Lon: lon}, true
}
