package overrides

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/schema"
)

func TestFetchOverridesMapPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"1001": "角色扮演", "1002": "休閒益智", " ": "其他", "1003": ""}`))
	}))
	defer server.Close()

	overrides, err := NewClient(server.URL).FetchOverrides(context.Background())
	require.NoError(t, err, "Fetch should succeed")
	assert.Len(t, overrides, 2, "Blank ids and categories should be dropped")
	assert.Equal(t, schema.RolePlayingCategory, overrides["1001"])
	assert.Equal(t, schema.CasualCategory, overrides["1002"])
}

func TestFetchOverridesListPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"app_id": "1001", "category": "策略對戰"},
			{"app_id": "  1002  ", "category": " 其他 "},
			{"app_id": "", "category": "其他"}
		]`))
	}))
	defer server.Close()

	overrides, err := NewClient(server.URL).FetchOverrides(context.Background())
	require.NoError(t, err)
	assert.Len(t, overrides, 2)
	assert.Equal(t, schema.StrategyCategory, overrides["1001"])
	assert.Equal(t, schema.CatchAllCategory, overrides["1002"], "Values should be trimmed")
}

func TestFetchOverridesInvalidLabelsDropped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"1001": "動作競技", "1002": "動作遊戲", "1003": "Action"}`))
	}))
	defer server.Close()

	overrides, err := NewClient(server.URL).FetchOverrides(context.Background())
	require.NoError(t, err)
	assert.Len(t, overrides, 1, "Labels outside the fixed set should be dropped")
	assert.Equal(t, schema.ActionCategory, overrides["1001"])
}

func TestFetchOverridesErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).FetchOverrides(context.Background())
		assert.Error(t, err, "Non-200 response should fail")
	})

	t.Run("bad payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`"just a string"`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).FetchOverrides(context.Background())
		assert.Error(t, err, "Unrecognized payload shape should fail")
	})
}
