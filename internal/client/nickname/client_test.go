package nickname

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villa-app/villa/internal/common"
)

func TestClient_LookupFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/nicknames/address/0xabc", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"nickname": "alice"})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Lookup(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestClient_LookupMissingIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Lookup(context.Background(), "0xnew")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestClient_CheckTakenWithSuggestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "alice", r.URL.Query().Get("nickname"))
		_ = json.NewEncoder(w).Encode(map[string]any{"available": false, "suggestion": "alice7"})
	}))
	defer srv.Close()

	available, suggestion, err := NewClient(srv.URL).Check(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, available)
	assert.Equal(t, "alice7", suggestion)
}

func TestClient_ClaimConflictMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Claim(context.Background(), "0xabc", "alice")
	assert.True(t, errors.Is(err, common.ErrNicknameTaken))
}

func TestClient_ClaimOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0xabc", req["address"])
		assert.Equal(t, "alice", req["nickname"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL).Claim(context.Background(), "0xabc", "alice"))
}
