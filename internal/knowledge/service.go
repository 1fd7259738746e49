// Package knowledge defines the domain data services consulted by handlers.
package knowledge

import (
	"context"
	"errors"

	"airport-query-engine/internal/models"
)

// ErrNotFound is returned by single-record lookups that match nothing.
var ErrNotFound = errors.New("knowledge: not found")

type StandService interface {
	GetStandByName(ctx context.Context, name string) (*models.Stand, error)
	GetStandByID(ctx context.Context, id int64) (*models.Stand, error)
	ListStands(ctx context.Context, filter models.StandFilter) ([]models.Stand, error)
}

// CompatibleStandFinder is implemented by stand services that can filter by
// aircraft size category on the server side.
type CompatibleStandFinder interface {
	CompatibleStands(ctx context.Context, sizeCategory string, filter models.StandFilter) ([]models.Stand, error)
}

// StandSearcher offers free-text search over stands.
type StandSearcher interface {
	SearchStands(ctx context.Context, text string, limit int) ([]models.Stand, error)
}

// ProximitySearcher finds stands around a coordinate.
type ProximitySearcher interface {
	StandsNear(ctx context.Context, lat, lon, radiusM float64, limit int) ([]models.Stand, error)
}

type ReferenceService interface {
	AircraftByCode(ctx context.Context, code string) (*models.AircraftType, error)
	AircraftByID(ctx context.Context, id int64) (*models.AircraftType, error)
	SearchAircraft(ctx context.Context, name string, limit int) ([]models.AircraftType, error)
	AirlineByCode(ctx context.Context, code string) (*models.Airline, error)
	AirlineByID(ctx context.Context, id int64) (*models.Airline, error)
	SearchAirlines(ctx context.Context, name string, limit int) ([]models.Airline, error)
}

type MaintenanceService interface {
	RequestsForStand(ctx context.Context, standID int64) ([]models.MaintenanceRequest, error)
	OpenRequests(ctx context.Context) ([]models.MaintenanceRequest, error)
}

// IsNotFound reports whether err means "no such record".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
