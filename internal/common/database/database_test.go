package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airport-query-engine/internal/common/config"
)

func TestNewRedis_PingWritesHealthKey(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr(), KeyPrefix: "aqe:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, "aqe:query:x", client.Key("query:x"))
	require.NoError(t, client.Ping(context.Background()))
	assert.True(t, mr.Exists("aqe:health"))
	assert.Greater(t, mr.TTL("aqe:health").Seconds(), 0.0)
}

func TestNewRedis_PingFailsWhenDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestNewPostgres_DoesNotDialEagerly(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, Database: "airport", User: "u", SSLMode: "disable",
		MaxConnections: 2, MaxIdle: 1,
	})
	require.NoError(t, err)
	assert.NotNil(t, client.DB)
	assert.NoError(t, client.Close())
}

func TestPostgres_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	client := &PostgresClient{DB: db}
	t.Cleanup(func() { _ = client.Close() })

	mock.ExpectPing()
	for _, table := range KnowledgeTables {
		mock.ExpectQuery(`SELECT to_regclass`).WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"present"}).AddRow(true))
	}

	require.NoError(t, client.Ready(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CheckTables_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	client := &PostgresClient{DB: db}
	t.Cleanup(func() { _ = client.Close() })

	mock.ExpectQuery(`SELECT to_regclass`).WithArgs("stands").
		WillReturnRows(sqlmock.NewRows([]string{"present"}).AddRow(true))
	mock.ExpectQuery(`SELECT to_regclass`).WithArgs("aircraft_types").
		WillReturnRows(sqlmock.NewRows([]string{"present"}).AddRow(false))

	err = client.CheckTables(context.Background())
	assert.EqualError(t, err, "table aircraft_types does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newElasticsearch(t *testing.T, indexStatus int) *ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/stands" {
			w.WriteHeader(indexStatus)
			return
		}
		_, _ = w.Write([]byte(`{"version":{"number":"8.11.0"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}, StandIndex: "stands"})
	require.NoError(t, err)
	return client
}

func TestElasticsearch_PingChecksStandIndex(t *testing.T) {
	assert.NoError(t, newElasticsearch(t, http.StatusOK).Ping(context.Background()))

	err := newElasticsearch(t, http.StatusNotFound).Ping(context.Background())
	assert.EqualError(t, err, `stand index "stands" does not exist`)
}

func TestNewElasticsearch_RequiresAddresses(t *testing.T) {
	_, err := NewElasticsearch(config.ElasticsearchConfig{})
	assert.Error(t, err)
}
