// Package services assembles the bundle handed to every handler.
package services

import (
	"fmt"
	"sort"

	"airport-query-engine/internal/cache"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/engine/transform"
	"airport-query-engine/internal/knowledge"
)

// Well-known keys accepted by Locate.
const (
	KeyStands      = "stands"
	KeyReference   = "reference"
	KeyMaintenance = "maintenance"
	KeySources     = "sources"
	KeyCache       = "cache"
	KeyTransformer = "transformer"
	KeyLogger      = "logger"
)

// Bundle is resolved once when the registry is built and never changes
// afterwards. Domain services may be nil when they are not wired in.
type Bundle struct {
	Stands      knowledge.StandService
	Reference   knowledge.ReferenceService
	Maintenance knowledge.MaintenanceService
	Sources     *knowledge.SourceRegistry
	Cache       cache.Port
	Transformer *transform.Transformer
	Logger      logger.Logger

	extra map[string]interface{}
}

// Defaults returns a bundle with no domain services, a no-op cache, a fresh
// transformer and a discarding logger.
func Defaults() Bundle {
	return Bundle{
		Cache:       cache.Noop{},
		Transformer: transform.New(),
		Logger:      logger.NewNoOpLogger(),
	}
}

// Locate merges additional over defaults. Well-known keys must carry the
// matching type; other keys are kept and reachable through Extra.
func Locate(defaults Bundle, additional map[string]interface{}) (*Bundle, error) {
	b := defaults
	b.extra = make(map[string]interface{}, len(defaults.extra))
	for k, v := range defaults.extra {
		b.extra[k] = v
	}

	keys := make([]string, 0, len(additional))
	for k := range additional {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := additional[key]
		if v == nil {
			continue
		}
		var ok bool
		switch key {
		case KeyStands:
			b.Stands, ok = v.(knowledge.StandService)
		case KeyReference:
			b.Reference, ok = v.(knowledge.ReferenceService)
		case KeyMaintenance:
			b.Maintenance, ok = v.(knowledge.MaintenanceService)
		case KeySources:
			b.Sources, ok = v.(*knowledge.SourceRegistry)
		case KeyCache:
			b.Cache, ok = v.(cache.Port)
		case KeyTransformer:
			b.Transformer, ok = v.(*transform.Transformer)
		case KeyLogger:
			b.Logger, ok = v.(logger.Logger)
		default:
			b.extra[key], ok = v, true
		}
		if !ok {
			return nil, fmt.Errorf("service %q has unexpected type %T", key, v)
		}
	}

	b.Cache = cache.OrNoop(b.Cache)
	if b.Transformer == nil {
		b.Transformer = transform.New()
	}
	if b.Logger == nil {
		b.Logger = logger.NewNoOpLogger()
	}
	if b.Sources == nil {
		b.Sources = knowledge.DefaultSources(b.Stands, b.Reference, b.Maintenance)
	}
	return &b, nil
}

// Extra returns a non-standard service registered under name.
func (b *Bundle) Extra(name string) (interface{}, bool) {
	v, ok := b.extra[name]
	return v, ok
}
