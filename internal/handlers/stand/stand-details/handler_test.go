package standdetails

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airport-query-engine/internal/common/config"
	apperrors "airport-query-engine/internal/common/errors"
	"airport-query-engine/internal/engine/handler"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/handlers/handlertest"
	"airport-query-engine/internal/models"
)

func newHandler(t *testing.T, b *services.Bundle) handler.Handler {
	t.Helper()
	h, err := Factory(LoadConfig(config.HandlerConfig{Enabled: true, CacheTTLSeconds: 60}))(b)
	require.NoError(t, err)
	return h
}

func query(entities map[string]interface{}) *models.ParsedQuery {
	return &models.ParsedQuery{Intent: "stand.details", Entities: entities}
}

func TestFactory_RequiresStandService(t *testing.T) {
	_, err := Factory(LoadConfig(config.HandlerConfig{}))(handlertest.Bundle(t, nil))
	assert.Error(t, err)
}

func TestHandler_Intents(t *testing.T) {
	h := newHandler(t, handlertest.FullBundle(t))
	assert.Equal(t, []string{"stand.details", "stand.info"}, h.Intents())
	assert.True(t, h.CanHandle(&models.ParsedQuery{Intent: "stand.info"}, nil))
	assert.False(t, h.CanHandle(&models.ParsedQuery{Intent: "stand.find"}, nil))
}

func TestHandler_Handle(t *testing.T) {
	h := newHandler(t, handlertest.FullBundle(t))

	t.Run("found by name", func(t *testing.T) {
		resp := h.Handle(context.Background(), query(map[string]interface{}{"stand": "A12"}), nil)

		require.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "A12", data["name"])
		assert.Equal(t, "T1", data["terminal"])
		assert.Equal(t, "detailed", resp.Metadata["format"])
		assert.Equal(t, handler.MatchName, resp.Metadata["matchedBy"])
	})

	t.Run("missing entity", func(t *testing.T) {
		resp := h.Handle(context.Background(), query(map[string]interface{}{}), nil)

		assert.Equal(t, apperrors.KindMissingEntity, resp.Kind())
		assert.Equal(t, "stand", resp.Error.Details["entity"])
	})

	t.Run("not found", func(t *testing.T) {
		resp := h.Handle(context.Background(), query(map[string]interface{}{"stand": "Z99"}), nil)

		assert.Equal(t, apperrors.KindNotFound, resp.Kind())
		assert.Equal(t, "Z99", resp.Error.Details["identifier"])
	})

	t.Run("numeric id wins over name", func(t *testing.T) {
		resp := h.Handle(context.Background(), query(map[string]interface{}{"stand": "1"}), nil)

		require.True(t, resp.Success)
		assert.Equal(t, "A12", resp.Data.(map[string]interface{})["name"])
		assert.Equal(t, handler.MatchID, resp.Metadata["matchedBy"])
	})

	t.Run("alternate entity and simple format", func(t *testing.T) {
		resp := h.Handle(context.Background(), query(map[string]interface{}{"standId": 3, "format": "simple"}), nil)

		require.True(t, resp.Success)
		assert.Equal(t, map[string]interface{}{"id": float64(3), "name": "B3"}, resp.Data)
		assert.Equal(t, "simple", resp.Metadata["format"])
	})

	t.Run("unknown format falls back to detailed", func(t *testing.T) {
		resp := h.Handle(context.Background(), query(map[string]interface{}{"stand": "A14", "format": "verbose"}), nil)

		require.True(t, resp.Success)
		assert.Equal(t, "detailed", resp.Metadata["format"])
		assert.Contains(t, resp.Data.(map[string]interface{}), "maxWingspanM")
	})

	t.Run("stand from conversation context", func(t *testing.T) {
		qctx := &models.Context{ID: "c1", Entities: map[string]interface{}{"stand": "B3"}}
		resp := h.Handle(context.Background(), query(nil), qctx)

		require.True(t, resp.Success)
		assert.Equal(t, "B3", resp.Data.(map[string]interface{})["name"])
	})
}

func TestHandler_ServiceErrors(t *testing.T) {
	boom := errors.New("connection refused")
	b := handlertest.Bundle(t, map[string]interface{}{services.KeyStands: &handlertest.StandsStub{Err: boom}})
	h := newHandler(t, b)

	resp := h.Handle(context.Background(), query(map[string]interface{}{"stand": "A12"}), nil)
	assert.Equal(t, apperrors.KindServiceError, resp.Kind())
	assert.Equal(t, "connection refused", resp.Error.Details["originalError"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp = h.Handle(ctx, query(map[string]interface{}{"stand": "A12"}), nil)
	assert.Equal(t, apperrors.KindCancelled, resp.Kind())
}

func TestHandler_CacheKeyAndTTL(t *testing.T) {
	h := newHandler(t, handlertest.FullBundle(t))

	a := h.CacheKey(query(map[string]interface{}{"stand": "A12", "format": "simple"}), &models.Context{ID: "c1"})
	b := h.CacheKey(query(map[string]interface{}{"format": "simple", "stand": "A12"}), &models.Context{ID: "c1"})
	assert.Equal(t, a, b)
	assert.Equal(t, `query:stand.details:{"format":"simple","stand":"A12"}:c1`, a)

	ttl, ok := h.(handler.CacheTTLer)
	require.True(t, ok)
	assert.Equal(t, 60.0, ttl.CacheTTL().Seconds())
}
