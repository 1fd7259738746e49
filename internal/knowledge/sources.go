package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"airport-query-engine/internal/engine/entity"
	"airport-query-engine/internal/models"
)

// Source is a named data source callable from a reasoning plan step.
type Source func(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error)

// SourceRegistry maps source names to callables. It is built once and read concurrently.
type SourceRegistry struct {
	sources map[string]Source
}

func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{sources: make(map[string]Source)}
}

func (r *SourceRegistry) Register(name string, src Source) {
	r.sources[name] = src
}

func (r *SourceRegistry) Lookup(name string) (Source, bool) {
	if r == nil {
		return nil, false
	}
	src, ok := r.sources[name]
	return src, ok
}

// Names lists registered sources in lexical order.
func (r *SourceRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultSources exposes the wired services as plan data sources. Nil services
// are skipped.
func DefaultSources(stands StandService, ref ReferenceService, maint MaintenanceService) *SourceRegistry {
	r := NewSourceRegistry()

	if stands != nil {
		r.Register("stands.get", func(ctx context.Context, p map[string]interface{}) (map[string]interface{}, error) {
			if id, ok := entity.Int(entity.Resolve(p, "standId", []string{"id"}, nil)); ok {
				return single(stands.GetStandByID(ctx, id))
			}
			name := entity.String(entity.Resolve(p, "stand", []string{"name", "standName"}, nil))
			if name == "" {
				return nil, fmt.Errorf("stands.get: parameter 'stand' is required")
			}
			return single(stands.GetStandByName(ctx, name))
		})

		r.Register("stands.list", func(ctx context.Context, p map[string]interface{}) (map[string]interface{}, error) {
			list, err := stands.ListStands(ctx, FilterFromParams(p))
			if err != nil {
				return nil, err
			}
			return collection("stands", list)
		})

		r.Register("stands.compatible", func(ctx context.Context, p map[string]interface{}) (map[string]interface{}, error) {
			category := entity.String(entity.Resolve(p, "sizeCategory", []string{"category"}, nil))
			if category == "" && ref != nil {
				code := entity.String(entity.Resolve(p, "aircraftType", []string{"aircraft"}, nil))
				if code != "" {
					ac, err := ref.AircraftByCode(ctx, code)
					if err != nil {
						return nil, err
					}
					category = ac.SizeCategory
				}
			}
			if category == "" {
				return nil, fmt.Errorf("stands.compatible: parameter 'sizeCategory' is required")
			}
			list, err := CompatibleStands(ctx, stands, category, FilterFromParams(p))
			if err != nil {
				return nil, err
			}
			return collection("stands", list)
		})
	}

	if ref != nil {
		r.Register("aircraft.lookup", func(ctx context.Context, p map[string]interface{}) (map[string]interface{}, error) {
			code := entity.String(entity.Resolve(p, "aircraftType", []string{"code", "aircraft"}, nil))
			if code == "" {
				return nil, fmt.Errorf("aircraft.lookup: parameter 'aircraftType' is required")
			}
			return single(ref.AircraftByCode(ctx, code))
		})

		r.Register("airline.lookup", func(ctx context.Context, p map[string]interface{}) (map[string]interface{}, error) {
			code := entity.String(entity.Resolve(p, "airline", []string{"code", "airlineCode"}, nil))
			if code == "" {
				return nil, fmt.Errorf("airline.lookup: parameter 'airline' is required")
			}
			return single(ref.AirlineByCode(ctx, code))
		})
	}

	if maint != nil {
		r.Register("maintenance.forStand", func(ctx context.Context, p map[string]interface{}) (map[string]interface{}, error) {
			id, ok := entity.Int(entity.Resolve(p, "standId", []string{"id"}, nil))
			if !ok && stands != nil {
				name := entity.String(entity.Resolve(p, "stand", []string{"name"}, nil))
				stand, err := stands.GetStandByName(ctx, name)
				if err != nil {
					return nil, err
				}
				id, ok = stand.ID, true
			}
			if !ok {
				return nil, fmt.Errorf("maintenance.forStand: parameter 'standId' is required")
			}
			list, err := maint.RequestsForStand(ctx, id)
			if err != nil {
				return nil, err
			}
			return collection("requests", list)
		})
	}

	return r
}

// CompatibleStands uses the server-side finder when the service has one and
// otherwise lists stands and filters by size category.
func CompatibleStands(ctx context.Context, stands StandService, sizeCategory string, filter models.StandFilter) ([]models.Stand, error) {
	if finder, ok := stands.(CompatibleStandFinder); ok {
		return finder.CompatibleStands(ctx, sizeCategory, filter)
	}
	limit := filter.Limit
	filter.Limit = 0
	all, err := stands.ListStands(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]models.Stand, 0, len(all))
	for _, s := range all {
		if s.Accommodates(sizeCategory) {
			out = append(out, s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// FilterFromParams reads the common stand criteria out of an entity or parameter map.
func FilterFromParams(p map[string]interface{}) models.StandFilter {
	f := models.StandFilter{
		Terminal:     entity.String(entity.Resolve(p, "terminal", nil, nil)),
		Pier:         entity.String(entity.Resolve(p, "pier", nil, nil)),
		SizeCategory: entity.String(entity.Resolve(p, "sizeCategory", []string{"size"}, nil)),
	}
	if v, ok := entity.Bool(entity.Resolve(p, "available", nil, nil)); ok {
		f.Available = &v
	}
	if v, ok := entity.Bool(entity.Resolve(p, "jetBridge", []string{"contactStand"}, nil)); ok {
		f.JetBridge = &v
	}
	if n, ok := entity.Int(entity.Resolve(p, "limit", nil, nil)); ok && n > 0 {
		f.Limit = int(n)
	}
	return f
}

func single[T any](v *T, err error) (map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	return toMap(v)
}

func collection[T any](key string, items []T) (map[string]interface{}, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var list []interface{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []interface{}{}
	}
	return map[string]interface{}{key: list, "count": len(list)}, nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
