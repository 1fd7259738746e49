package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisPort) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisPort(client)
}

func TestRedisPort_OperationalRoundTrip(t *testing.T) {
	mr, port := setupRedis(t)
	ctx := context.Background()

	_, ok, err := port.GetOperationalItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, port.SetOperationalItem(ctx, "k", []byte(`{"success":true}`), time.Minute))

	val, ok, err := port.GetOperationalItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"success":true}`, string(val))

	assert.True(t, mr.Exists("ops:k"))
	assert.Equal(t, time.Minute, mr.TTL("ops:k"))
}

func TestRedisPort_NamespacesAreSeparate(t *testing.T) {
	mr, port := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, port.SetConfigItem(ctx, "k", []byte("cfg"), 0))

	_, ok, err := port.GetOperationalItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	val, ok, err := port.GetConfigItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cfg", string(val))
	assert.Equal(t, DefaultTTL, mr.TTL("cfg:k"))
}

func TestRedisPort_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	port := NewRedisPort(client, WithKeyPrefix("aqe:"))
	ctx := context.Background()

	require.NoError(t, port.SetOperationalItem(ctx, "k", []byte("ops"), time.Minute))
	require.NoError(t, port.SetConfigItem(ctx, "k", []byte("cfg"), time.Minute))

	assert.True(t, mr.Exists("aqe:ops:k"))
	assert.True(t, mr.Exists("aqe:cfg:k"))
	assert.False(t, mr.Exists("ops:k"))

	val, ok, err := port.GetOperationalItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ops", string(val))
}

func TestRedisPort_ErrorsSurface(t *testing.T) {
	client, mock := redismock.NewClientMock()
	port := NewRedisPort(client)
	ctx := context.Background()

	mock.ExpectGet("ops:k").SetErr(errors.New("connection refused"))
	_, ok, err := port.GetOperationalItem(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)

	mock.ExpectSet("ops:k", []byte("v"), time.Second).SetErr(errors.New("READONLY"))
	assert.Error(t, port.SetOperationalItem(ctx, "k", []byte("v"), time.Second))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoop(t *testing.T) {
	var p Port = OrNoop(nil)
	ctx := context.Background()

	require.NoError(t, p.SetOperationalItem(ctx, "k", []byte("v"), time.Second))
	_, ok, err := p.GetOperationalItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueryKey(t *testing.T) {
	a := QueryKey("stand.details", map[string]interface{}{"terminal": "T1", "stand": "A12", "pier": nil}, "ctx-1")
	b := QueryKey("stand.details", map[string]interface{}{"stand": "A12", "terminal": "T1"}, "ctx-1")

	assert.Equal(t, a, b)
	assert.Equal(t, `query:stand.details:{"stand":"A12","terminal":"T1"}:ctx-1`, a)

	assert.Equal(t, `query:stand.find:{}:no-context`, QueryKey("stand.find", nil, ""))
}

func TestQueryKey_NestedAndLong(t *testing.T) {
	nested := CanonicalEntities(map[string]interface{}{
		"filter": map[string]interface{}{"b": 2.0, "a": nil, "c": []interface{}{"x", nil}},
	})
	assert.Equal(t, `{"filter":{"b":2,"c":["x",null]}}`, nested)

	long := CanonicalEntities(map[string]interface{}{"text": strings.Repeat("x", 300)})
	assert.True(t, strings.HasPrefix(long, "sha256-"))
	assert.Len(t, long, len("sha256-")+64)
}
