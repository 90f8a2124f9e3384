package appmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/lookup", r.URL.Path)
		assert.Equal(t, "1001", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"version": "2.4.1",
				"currentVersionReleaseDate": "2025-01-01T08:00:00Z",
				"releaseNotes": "Bug fixes"
			}]
		}`))
	}))
	defer server.Close()

	meta, err := NewClient(server.URL).Lookup(context.Background(), "1001")
	require.NoError(t, err, "Lookup should succeed")
	assert.Equal(t, "2.4.1", meta.Version)
	assert.Equal(t, "2025-01-01T08:00:00Z", meta.Updated)
	assert.Equal(t, "Bug fixes", meta.ReleaseNotes)
	assert.Equal(t, "1001", meta.AppID)
	assert.Contains(t, gotAgent, "Mozilla", "Browser agent should be sent")
}

func TestLookupErrors(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"resultCount": 0, "results": []}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Lookup(context.Background(), "missing")
		assert.Error(t, err, "Empty result set should fail")
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Lookup(context.Background(), "1001")
		assert.Error(t, err, "Non-200 response should fail")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient("http://localhost:0")
		_, err := client.Lookup(ctx, "1001")
		assert.Error(t, err, "Cancelled context should fail before any call")
	})
}
