package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetries(2), WithBackoff(time.Millisecond), WithHeader("X-API-Key", "secret"))

	var out struct {
		Text string `json:"text"`
	}
	require.NoError(t, c.PostJSON(context.Background(), srv.URL, map[string]string{"prompt": "hi"}, &out))
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPostJSON_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetries(3), WithBackoff(time.Millisecond))
	err := c.PostJSON(context.Background(), srv.URL, map[string]string{}, nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPostJSON_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(time.Second, WithRetries(5), WithBackoff(time.Second))
	err := c.PostJSON(ctx, srv.URL, map[string]string{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
