package handlertest

import (
	"context"

	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/knowledge/memory"
	"airport-query-engine/internal/models"
)

// StandsStub answers every call with Err.
type StandsStub struct {
	Err error
}

func (s *StandsStub) GetStandByName(context.Context, string) (*models.Stand, error) {
	return nil, s.Err
}

func (s *StandsStub) GetStandByID(context.Context, int64) (*models.Stand, error) {
	return nil, s.Err
}

func (s *StandsStub) ListStands(context.Context, models.StandFilter) ([]models.Stand, error) {
	return nil, s.Err
}

// ReferenceStub answers every call with Err.
type ReferenceStub struct {
	Err error
}

func (r *ReferenceStub) AircraftByCode(context.Context, string) (*models.AircraftType, error) {
	return nil, r.Err
}

func (r *ReferenceStub) AircraftByID(context.Context, int64) (*models.AircraftType, error) {
	return nil, r.Err
}

func (r *ReferenceStub) SearchAircraft(context.Context, string, int) ([]models.AircraftType, error) {
	return nil, r.Err
}

func (r *ReferenceStub) AirlineByCode(context.Context, string) (*models.Airline, error) {
	return nil, r.Err
}

func (r *ReferenceStub) AirlineByID(context.Context, int64) (*models.Airline, error) {
	return nil, r.Err
}

func (r *ReferenceStub) SearchAirlines(context.Context, string, int) ([]models.Airline, error) {
	return nil, r.Err
}

// SearchableStands adds free-text and proximity search over Stands.
type SearchableStands struct {
	*memory.Stands
	Searches  []string
	NearCalls int
}

func (s *SearchableStands) SearchStands(_ context.Context, text string, limit int) ([]models.Stand, error) {
	s.Searches = append(s.Searches, text)
	return knowledge.RankByName(s.Items, func(st models.Stand) string { return st.Name }, text, limit), nil
}

// StandsNear returns the active stands in fixture order.
func (s *SearchableStands) StandsNear(_ context.Context, _, _, _ float64, limit int) ([]models.Stand, error) {
	s.NearCalls++
	var out []models.Stand
	for _, st := range s.Items {
		if st.IsActive {
			out = append(out, st)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
