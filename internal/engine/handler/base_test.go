package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/response"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/engine/transform"
	"airport-query-engine/internal/models"
)

func newBase(t *testing.T, opts ...Option) Base {
	t.Helper()
	svc, err := services.Locate(services.Defaults(), map[string]interface{}{services.KeyLogger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	b, err := NewBase("test-handler", []string{"stand.details", "stand.info"}, svc, opts...)
	require.NoError(t, err)
	return b
}

func TestNewBase_RejectsNoIntents(t *testing.T) {
	_, err := NewBase("empty", nil, nil)
	assert.Error(t, err)
}

func TestBase_CanHandle(t *testing.T) {
	b := newBase(t)
	assert.True(t, b.CanHandle(&models.ParsedQuery{Intent: "stand.info"}, nil))
	assert.False(t, b.CanHandle(&models.ParsedQuery{Intent: "airline.info"}, nil))
	assert.False(t, b.CanHandle(nil, nil))

	intents := b.Intents()
	intents[0] = "mutated"
	assert.Equal(t, "stand.details", b.Intents()[0])
}

func TestBase_CacheKey(t *testing.T) {
	b := newBase(t)
	q := &models.ParsedQuery{Intent: "stand.details", Entities: map[string]interface{}{"stand": "A12"}}

	assert.Equal(t, `query:stand.details:{"stand":"A12"}:no-context`, b.CacheKey(q, nil))
	assert.Equal(t, `query:stand.details:{"stand":"A12"}:c-9`, b.CacheKey(q, &models.Context{ID: "c-9"}))
}

func TestBase_CacheKey_IncludesContextEntities(t *testing.T) {
	b := newBase(t)
	q := &models.ParsedQuery{Intent: "stand.details", Entities: map[string]interface{}{}}

	b3 := b.CacheKey(q, &models.Context{ID: "c1", Entities: map[string]interface{}{"stand": "B3"}})
	a12 := b.CacheKey(q, &models.Context{ID: "c1", Entities: map[string]interface{}{"stand": "A12"}})

	assert.Equal(t, `query:stand.details:{"stand":"B3"}:c1`, b3)
	assert.NotEqual(t, b3, a12)

	q.Entities["stand"] = "A12"
	assert.Equal(t, `query:stand.details:{"stand":"A12"}:c1`,
		b.CacheKey(q, &models.Context{ID: "c1", Entities: map[string]interface{}{"stand": "B3"}}))
}

func TestBase_RequireEntity(t *testing.T) {
	b := newBase(t)

	_, resp := b.RequireEntity(&models.ParsedQuery{Entities: map[string]interface{}{}}, nil, "stand", "standId")
	require.NotNil(t, resp)
	assert.Equal(t, apperrors.KindMissingEntity, resp.Kind())
	assert.Equal(t, "stand", resp.Error.Details["entity"])

	_, resp = b.RequireEntity(&models.ParsedQuery{Entities: map[string]interface{}{"stand": "  "}}, nil, "stand")
	require.NotNil(t, resp)

	v, resp := b.RequireEntity(&models.ParsedQuery{}, &models.Context{Entities: map[string]interface{}{"standId": "A12"}}, "stand", "standId")
	assert.Nil(t, resp)
	assert.Equal(t, "A12", v)
}

func TestBase_ValidateEntities(t *testing.T) {
	b := newBase(t, WithSchema(validation.EntitySchema{
		Properties: map[string]validation.Property{"size": {Type: "string", Enum: []string{"A", "B", "C", "D", "E", "F"}}},
	}))

	assert.Nil(t, b.ValidateEntities(&models.ParsedQuery{Entities: map[string]interface{}{"size": "e"}}))

	resp := b.ValidateEntities(&models.ParsedQuery{Entities: map[string]interface{}{"size": "Z"}})
	require.NotNil(t, resp)
	assert.Equal(t, apperrors.KindMissingEntity, resp.Kind())
	assert.Equal(t, "size", resp.Error.Details["entity"])
}

type rec struct {
	Name     string `json:"name"`
	Terminal string `json:"terminal"`
	Pier     string `json:"pier"`
}

func TestBase_FormatAndFormatName(t *testing.T) {
	b := newBase(t, WithFields(transform.FieldSet{Simple: []string{"name"}, Summary: []string{"terminal"}}), WithDefaultFormat("summary"))

	assert.Equal(t, "summary", b.FormatName(&models.ParsedQuery{}))
	assert.Equal(t, "detailed", b.FormatName(&models.ParsedQuery{Entities: map[string]interface{}{"format": "bogus"}}))
	assert.Equal(t, "simple", b.FormatName(&models.ParsedQuery{Entities: map[string]interface{}{"format": "simple"}}))

	r := rec{Name: "A12", Terminal: "T1", Pier: "P1"}
	assert.Equal(t, map[string]interface{}{"name": "A12"}, b.Format(r, "simple"))
	assert.Len(t, b.Format(r, "summary"), 2)
	assert.Len(t, b.Format(r, "whatever"), 3)

	list := b.Format([]interface{}{r, r}, "simple").([]interface{})
	assert.Len(t, list, 2)
}

func TestBase_SucceedDropsReservedMetadata(t *testing.T) {
	b := newBase(t)
	resp := b.Succeed("x", "detailed", map[string]interface{}{"count": 1, response.MetaFromCache: true})
	assert.Equal(t, "detailed", resp.Metadata["format"])
	assert.False(t, resp.FromCache())
}

func TestBase_ServiceFailure(t *testing.T) {
	b := newBase(t)

	resp := b.ServiceFailure(context.Background(), "stands", errors.New("db down"))
	assert.Equal(t, apperrors.KindServiceError, resp.Kind())
	assert.Equal(t, "stands", resp.Error.Details["service"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp = b.ServiceFailure(ctx, "stands", ctx.Err())
	assert.Equal(t, apperrors.KindCancelled, resp.Kind())

	resp = b.ServiceFailure(context.Background(), "stands", apperrors.NewNotFoundError("Stand", "Z9"))
	assert.Equal(t, apperrors.KindNotFound, resp.Kind())
}

func TestBase_Guard(t *testing.T) {
	b := newBase(t)

	resp := b.Guard(func() *response.Response { panic("boom") })
	assert.Equal(t, apperrors.KindProcessing, resp.Kind())
	assert.Equal(t, "panic: boom", resp.Error.Details["originalError"])

	resp = b.Guard(func() *response.Response { return nil })
	assert.Equal(t, apperrors.KindProcessing, resp.Kind())

	resp = b.Guard(func() *response.Response { return response.Success("ok", nil) })
	assert.True(t, resp.Success)
}
