// Package memory provides in-process knowledge services backed by slices.
package memory

import (
	"context"
	"strings"

	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/models"
)

type Stands struct {
	Items []models.Stand
}

func (s *Stands) GetStandByName(_ context.Context, name string) (*models.Stand, error) {
	for i := range s.Items {
		if strings.EqualFold(s.Items[i].Name, strings.TrimSpace(name)) {
			st := s.Items[i]
			return &st, nil
		}
	}
	return nil, knowledge.ErrNotFound
}

func (s *Stands) GetStandByID(_ context.Context, id int64) (*models.Stand, error) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			st := s.Items[i]
			return &st, nil
		}
	}
	return nil, knowledge.ErrNotFound
}

func (s *Stands) ListStands(_ context.Context, filter models.StandFilter) ([]models.Stand, error) {
	var out []models.Stand
	for _, st := range s.Items {
		if !filter.Matches(st) {
			continue
		}
		out = append(out, st)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

type Reference struct {
	Aircraft []models.AircraftType
	Airlines []models.Airline
}

func (r *Reference) AircraftByCode(_ context.Context, code string) (*models.AircraftType, error) {
	for i := range r.Aircraft {
		a := r.Aircraft[i]
		if strings.EqualFold(a.IATACode, code) || strings.EqualFold(a.ICAOCode, code) {
			return &a, nil
		}
	}
	return nil, knowledge.ErrNotFound
}

func (r *Reference) AircraftByID(_ context.Context, id int64) (*models.AircraftType, error) {
	for i := range r.Aircraft {
		if r.Aircraft[i].ID == id {
			a := r.Aircraft[i]
			return &a, nil
		}
	}
	return nil, knowledge.ErrNotFound
}

func (r *Reference) SearchAircraft(_ context.Context, name string, limit int) ([]models.AircraftType, error) {
	return knowledge.RankByName(r.Aircraft, func(a models.AircraftType) string { return a.Name }, name, limit), nil
}

func (r *Reference) AirlineByCode(_ context.Context, code string) (*models.Airline, error) {
	for i := range r.Airlines {
		a := r.Airlines[i]
		if strings.EqualFold(a.IATACode, code) || strings.EqualFold(a.ICAOCode, code) {
			return &a, nil
		}
	}
	return nil, knowledge.ErrNotFound
}

func (r *Reference) AirlineByID(_ context.Context, id int64) (*models.Airline, error) {
	for i := range r.Airlines {
		if r.Airlines[i].ID == id {
			a := r.Airlines[i]
			return &a, nil
		}
	}
	return nil, knowledge.ErrNotFound
}

func (r *Reference) SearchAirlines(_ context.Context, name string, limit int) ([]models.Airline, error) {
	return knowledge.RankByName(r.Airlines, func(a models.Airline) string { return a.Name }, name, limit), nil
}

type Maintenance struct {
	Requests []models.MaintenanceRequest
}

func (m *Maintenance) RequestsForStand(_ context.Context, standID int64) ([]models.MaintenanceRequest, error) {
	var out []models.MaintenanceRequest
	for _, r := range m.Requests {
		if r.StandID == standID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Maintenance) OpenRequests(_ context.Context) ([]models.MaintenanceRequest, error) {
	var out []models.MaintenanceRequest
	for _, r := range m.Requests {
		if r.Status.IsOpen() {
			out = append(out, r)
		}
	}
	return out, nil
}
