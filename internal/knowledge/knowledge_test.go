package knowledge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/knowledge/memory"
	"airport-query-engine/internal/models"
)

func fixtures() (*memory.Stands, *memory.Reference, *memory.Maintenance) {
	stands := &memory.Stands{Items: []models.Stand{
		{ID: 1, Name: "A12", Terminal: "T1", SizeCategory: "E", IsAvailable: true},
		{ID: 2, Name: "B3", Terminal: "T2", SizeCategory: "C", IsAvailable: false},
		{ID: 3, Name: "B4", Terminal: "T2", SizeCategory: "F", IsAvailable: true},
	}}
	ref := &memory.Reference{
		Aircraft: []models.AircraftType{{ID: 10, IATACode: "77W", ICAOCode: "B77W", Name: "Boeing 777-300ER", SizeCategory: "E"}},
		Airlines: []models.Airline{
			{ID: 7, IATACode: "BA", ICAOCode: "BAW", Name: "British Airways"},
			{ID: 8, IATACode: "BR", ICAOCode: "EVA", Name: "EVA Air"},
		},
	}
	maint := &memory.Maintenance{Requests: []models.MaintenanceRequest{
		{ID: 100, StandID: 1, Title: "Jet bridge repair", Status: models.MaintenanceInProgress},
		{ID: 101, StandID: 2, Title: "Repaint", Status: models.MaintenanceCompleted},
	}}
	return stands, ref, maint
}

func TestRankByName(t *testing.T) {
	_, ref, _ := fixtures()

	got := knowledge.RankByName(ref.Airlines, func(a models.Airline) string { return a.Name }, "british airway", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "BA", got[0].IATACode)

	typo := knowledge.RankByName(ref.Airlines, func(a models.Airline) string { return a.Name }, "Britsh Airways", 5)
	require.Len(t, typo, 1)
	assert.Equal(t, int64(7), typo[0].ID)

	assert.Empty(t, knowledge.RankByName(ref.Airlines, func(a models.Airline) string { return a.Name }, "Lufthansa", 5))
	assert.Nil(t, knowledge.RankByName(ref.Airlines, func(a models.Airline) string { return a.Name }, " ", 5))
}

func TestCompatibleStands_FallsBackToListing(t *testing.T) {
	stands, _, _ := fixtures()

	got, err := knowledge.CompatibleStands(context.Background(), stands, "E", models.StandFilter{})
	require.NoError(t, err)
	names := []string{}
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"A12", "B4"}, names)
}

func TestFilterFromParams(t *testing.T) {
	f := knowledge.FilterFromParams(map[string]interface{}{"terminal": "T2", "available": "yes", "limit": float64(3)})
	assert.Equal(t, "T2", f.Terminal)
	require.NotNil(t, f.Available)
	assert.True(t, *f.Available)
	assert.Equal(t, 3, f.Limit)
	assert.Nil(t, f.JetBridge)
}

func TestDefaultSources(t *testing.T) {
	stands, ref, maint := fixtures()
	reg := knowledge.DefaultSources(stands, ref, maint)
	ctx := context.Background()

	assert.Equal(t, []string{
		"aircraft.lookup", "airline.lookup", "maintenance.forStand",
		"stands.compatible", "stands.get", "stands.list",
	}, reg.Names())

	get, ok := reg.Lookup("stands.get")
	require.True(t, ok)
	stand, err := get(ctx, map[string]interface{}{"stand": "a12"})
	require.NoError(t, err)
	assert.Equal(t, "T1", stand["terminal"])

	compatible, _ := reg.Lookup("stands.compatible")
	res, err := compatible(ctx, map[string]interface{}{"aircraftType": "B77W"})
	require.NoError(t, err)
	assert.Equal(t, 2, res["count"])

	forStand, _ := reg.Lookup("maintenance.forStand")
	res, err = forStand(ctx, map[string]interface{}{"stand": "A12"})
	require.NoError(t, err)
	assert.Equal(t, 1, res["count"])

	_, err = get(ctx, map[string]interface{}{"stand": "Z9"})
	assert.True(t, knowledge.IsNotFound(err))
}

func TestDefaultSources_SkipsMissingServices(t *testing.T) {
	stands, _, _ := fixtures()
	reg := knowledge.DefaultSources(stands, nil, nil)
	_, ok := reg.Lookup("aircraft.lookup")
	assert.False(t, ok)
	assert.Len(t, reg.Names(), 3)
}

type fakeIndex struct{}

func (fakeIndex) SearchStands(context.Context, string, int) ([]models.Stand, error) {
	return []models.Stand{{Name: "C1"}}, nil
}

func (fakeIndex) StandsNear(context.Context, float64, float64, float64, int) ([]models.Stand, error) {
	return nil, nil
}

func TestWithIndex(t *testing.T) {
	stands, _, _ := fixtures()

	plain := knowledge.WithIndex(stands, nil)
	_, ok := plain.(knowledge.StandSearcher)
	assert.False(t, ok)

	wrapped := knowledge.WithIndex(stands, fakeIndex{})
	searcher, ok := wrapped.(knowledge.StandSearcher)
	require.True(t, ok)
	_, ok = wrapped.(knowledge.CompatibleStandFinder)
	assert.False(t, ok)

	got, err := searcher.SearchStands(context.Background(), "c", 1)
	require.NoError(t, err)
	assert.Equal(t, "C1", got[0].Name)
}
