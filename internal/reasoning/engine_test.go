package reasoning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/knowledge"
	"airport-query-engine/internal/knowledge/memory"
	"airport-query-engine/internal/models"
	"airport-query-engine/internal/oracle"
)

func TestEngine_Reason(t *testing.T) {
	stands := &memory.Stands{Items: []models.Stand{{ID: 1, Name: "A12", Terminal: "T1", SizeCategory: "E", IsActive: true}}}
	sources := knowledge.DefaultSources(stands, nil, nil)

	o := &mockOracle{}
	o.On("Process", mock.Anything, mock.Anything).Return(&oracle.Completion{
		Text: `{"steps": [{"description": "Retrieve the stand", "parameters": {"source": "stands.get", "stand": "$stand"}}]}`,
	}, nil).Once()

	engine := NewEngine(
		NewPlanner(o, 4, nil, WithSourceNames(sources.Names())),
		NewExecutor(o, sources, nil),
		nil,
	)

	q := &models.ParsedQuery{Intent: "reasoning.complex", RawText: "Can a B77W park at my stand?", Complex: true}
	qctx := &models.Context{ID: "conv-1", Entities: map[string]interface{}{"stand": "A12"}}

	resp := engine.Reason(context.Background(), q, qctx)
	require.True(t, resp.Success, "%+v", resp.Error)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "A12", data["name"])
	assert.Equal(t, "T1", data["terminal"])
	o.AssertExpectations(t)
}

func TestEngine_Reason_InvalidPlan(t *testing.T) {
	o := &mockOracle{}
	o.On("Process", mock.Anything, mock.Anything).Return(&oracle.Completion{
		Text: `{"steps": [{"description": "Retrieve", "parameters": {"source": "stands.get", "stand": "$stand"}}]}`,
	}, nil)

	engine := NewEngine(NewPlanner(o, 0, nil), NewExecutor(o, nil, nil), nil)
	resp := engine.Reason(context.Background(), &models.ParsedQuery{RawText: "which stand?"}, nil)

	assert.Equal(t, apperrors.KindInvalidPlan, resp.Kind())
	assert.Contains(t, resp.Error.Details["suggestedAlternative"], "stand")
}

func TestEngine_Reason_RequiresText(t *testing.T) {
	engine := NewEngine(NewPlanner(nil, 0, nil), NewExecutor(nil, nil, nil), nil)

	resp := engine.Reason(context.Background(), &models.ParsedQuery{Intent: "reasoning.complex"}, nil)
	assert.Equal(t, apperrors.KindMissingEntity, resp.Kind())
}

func TestPlanningContext(t *testing.T) {
	q := &models.ParsedQuery{Intent: "x", RawText: "text", Entities: map[string]interface{}{"terminal": "T2"}}
	qctx := &models.Context{ID: "c1", Entities: map[string]interface{}{"terminal": "T1", "stand": "A1"}}

	pctx := PlanningContext(q, qctx)
	assert.Equal(t, map[string]interface{}{"terminal": "T2", "stand": "A1"}, pctx["parameters"])
	assert.Equal(t, "text", pctx["rawText"])
	assert.Equal(t, "c1", pctx["contextId"])

	_, hasID := PlanningContext(q, nil)["contextId"]
	assert.False(t, hasID)
}
