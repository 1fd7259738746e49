package knowledge

import (
	"context"

	"airport-query-engine/internal/models"
)

// Index is a secondary stand index offering text and geo search.
type Index interface {
	StandSearcher
	ProximitySearcher
}

type searchableStands struct {
	StandService
	index Index
}

func (s *searchableStands) SearchStands(ctx context.Context, text string, limit int) ([]models.Stand, error) {
	return s.index.SearchStands(ctx, text, limit)
}

func (s *searchableStands) StandsNear(ctx context.Context, lat, lon, radiusM float64, limit int) ([]models.Stand, error) {
	return s.index.StandsNear(ctx, lat, lon, radiusM, limit)
}

type searchableCompatible struct {
	searchableStands
	finder CompatibleStandFinder
}

func (s *searchableCompatible) CompatibleStands(ctx context.Context, sizeCategory string, filter models.StandFilter) ([]models.Stand, error) {
	return s.finder.CompatibleStands(ctx, sizeCategory, filter)
}

// WithIndex augments a stand service with search capabilities. The optional
// capabilities of base are preserved. A nil index returns base unchanged.
func WithIndex(base StandService, index Index) StandService {
	if index == nil || base == nil {
		return base
	}
	s := searchableStands{StandService: base, index: index}
	if finder, ok := base.(CompatibleStandFinder); ok {
		return &searchableCompatible{searchableStands: s, finder: finder}
	}
	return &s
}
