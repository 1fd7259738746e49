// Package handlertest provides fixtures shared by handler tests.
package handlertest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/knowledge/memory"
	"airport-query-engine/internal/models"
)

func Stands() *memory.Stands {
	return &memory.Stands{Items: []models.Stand{
		{ID: 1, Name: "A12", Terminal: "T1", Pier: "A", SizeCategory: "E", MaxWingspanM: 65, HasJetBridge: true, IsActive: true, IsAvailable: true},
		{ID: 2, Name: "A14", Terminal: "T1", Pier: "A", SizeCategory: "C", MaxWingspanM: 36, HasJetBridge: true, IsActive: true, IsAvailable: false},
		{ID: 3, Name: "B3", Terminal: "T2", Pier: "B", SizeCategory: "F", MaxWingspanM: 80, HasJetBridge: false, IsActive: true, IsAvailable: false},
		// named like an id to exercise identifier ordering
		{ID: 4, Name: "1", Terminal: "T3", SizeCategory: "B", IsActive: true, IsAvailable: true},
	}}
}

func Reference() *memory.Reference {
	return &memory.Reference{
		Aircraft: []models.AircraftType{
			{ID: 10, IATACode: "77W", ICAOCode: "B77W", Name: "Boeing 777-300ER", Manufacturer: "Boeing", SizeCategory: "E", WingspanM: 64.8, LengthM: 73.9},
			{ID: 11, IATACode: "320", ICAOCode: "A320", Name: "Airbus A320", Manufacturer: "Airbus", SizeCategory: "C", WingspanM: 35.8, LengthM: 37.6},
			{ID: 12, IATACode: "388", ICAOCode: "A388", Name: "Airbus A380-800", Manufacturer: "Airbus", SizeCategory: "F", WingspanM: 79.8, LengthM: 72.7},
		},
		Airlines: []models.Airline{
			{ID: 7, IATACode: "BA", ICAOCode: "BAW", Name: "British Airways", Country: "United Kingdom"},
			{ID: 8, IATACode: "LH", ICAOCode: "DLH", Name: "Lufthansa", Country: "Germany"},
		},
	}
}

func Maintenance() *memory.Maintenance {
	start := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	return &memory.Maintenance{Requests: []models.MaintenanceRequest{
		{ID: 100, StandID: 2, Title: "Jet bridge hydraulics", Status: models.MaintenanceInProgress, Priority: "high", StartsAt: start},
		{ID: 101, StandID: 2, Title: "Repaint markings", Status: models.MaintenanceCompleted, Priority: "low", StartsAt: start.Add(-48 * time.Hour), EndsAt: &end},
		{ID: 102, StandID: 3, Title: "Ground power unit", Status: models.MaintenanceScheduled, Priority: "medium", StartsAt: start.Add(24 * time.Hour)},
	}}
}

// Bundle locates a service bundle over the given services.
func Bundle(t testing.TB, svc map[string]interface{}) *services.Bundle {
	t.Helper()
	b, err := services.Locate(services.Defaults(), svc)
	require.NoError(t, err)
	return b
}

// FullBundle wires every in-memory service.
func FullBundle(t testing.TB) *services.Bundle {
	return Bundle(t, map[string]interface{}{
		services.KeyStands:      Stands(),
		services.KeyReference:   Reference(),
		services.KeyMaintenance: Maintenance(),
	})
}
