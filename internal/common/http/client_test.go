package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]int{"echo": in["value"]})
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	c.SetHeader("Authorization", "Bearer abc")

	resp, err := c.DoJSON(context.Background(), http.MethodPost, srv.URL, map[string]int{"value": 7}, map[string]string{"X-Request-ID": "req-1"})
	require.NoError(t, err)
	assert.True(t, resp.Success())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]int
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, 7, out["echo"])
}

func TestDoJSON_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := NewClientWith(srv.Client()).DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil)
	require.NoError(t, err)
	assert.False(t, resp.Success())
	assert.Error(t, resp.Decode(&struct{}{}))
}
