// Package handlers holds the query handlers and the lookups they share.
package handlers

import (
	"context"

	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/models"
)

var (
	// IATA aircraft codes have 3 characters, ICAO designators 2 to 4.
	AircraftCodeLengths = []int{2, 3, 4}
	// IATA airline codes have 2 characters, ICAO 3.
	AirlineCodeLengths = []int{2, 3}
)

// StandLookup resolves stands by id, then by exact name, then by free-text
// search when the service supports it.
func StandLookup(stands knowledge.StandService) handler.Lookup[models.Stand] {
	return handler.Lookup[models.Stand]{
		ByID: stands.GetStandByID,
		ByName: func(ctx context.Context, name string) ([]models.Stand, error) {
			s, err := stands.GetStandByName(ctx, name)
			if err == nil {
				return []models.Stand{*s}, nil
			}
			if !knowledge.IsNotFound(err) {
				return nil, err
			}
			if searcher, ok := stands.(knowledge.StandSearcher); ok {
				return searcher.SearchStands(ctx, name, 1)
			}
			return nil, knowledge.ErrNotFound
		},
	}
}

func AircraftLookup(ref knowledge.ReferenceService) handler.Lookup[models.AircraftType] {
	return handler.Lookup[models.AircraftType]{
		CodeLengths: AircraftCodeLengths,
		ByCode:      ref.AircraftByCode,
		ByID:        ref.AircraftByID,
		ByName: func(ctx context.Context, name string) ([]models.AircraftType, error) {
			return ref.SearchAircraft(ctx, name, 1)
		},
	}
}

func AirlineLookup(ref knowledge.ReferenceService) handler.Lookup[models.Airline] {
	return handler.Lookup[models.Airline]{
		CodeLengths: AirlineCodeLengths,
		ByCode:      ref.AirlineByCode,
		ByID:        ref.AirlineByID,
		ByName: func(ctx context.Context, name string) ([]models.Airline, error) {
			return ref.SearchAirlines(ctx, name, 1)
		},
	}
}
