package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/missedcalls/internal/connectors/google"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewResolver(svc)
}

func filesResponse(w http.ResponseWriter, ids ...string) {
	files := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		files = append(files, map[string]string{"id": id, "name": "Call Monitoring Dashboard"})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"files": files})
}

func TestResolver_ResolveSpreadsheet(t *testing.T) {
	t.Run("single match", func(t *testing.T) {
		var query url.Values
		r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "/files", req.URL.Path)
			query = req.URL.Query()
			filesResponse(w, "sheet-1")
		})

		id, err := r.ResolveSpreadsheet(context.Background(), "Call Monitoring Dashboard")

		require.NoError(t, err)
		assert.Equal(t, "sheet-1", id)
		assert.Equal(t, SpreadsheetQuery("Call Monitoring Dashboard"), query.Get("q"))
		assert.Equal(t, "modifiedTime desc", query.Get("orderBy"))
	})

	t.Run("several matches takes first", func(t *testing.T) {
		r := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
			filesResponse(w, "newest", "older")
		})

		id, err := r.ResolveSpreadsheet(context.Background(), "Call Monitoring Dashboard")

		require.NoError(t, err)
		assert.Equal(t, "newest", id)
	})

	t.Run("no match", func(t *testing.T) {
		r := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
			filesResponse(w)
		})

		_, err := r.ResolveSpreadsheet(context.Background(), "Missing")

		assert.ErrorIs(t, err, domain.ErrSpreadsheetNotFound)
	})

	t.Run("forbidden", func(t *testing.T) {
		r := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"insufficient scope"}}`))
		})

		_, err := r.ResolveSpreadsheet(context.Background(), "Call Monitoring Dashboard")

		assert.ErrorIs(t, err, google.ErrForbidden)
	})

	t.Run("empty name", func(t *testing.T) {
		r := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
			t.Error("no request expected")
		})

		_, err := r.ResolveSpreadsheet(context.Background(), "  ")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSpreadsheetQuery(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{
			name: "Call Monitoring Dashboard",
			want: "name = 'Call Monitoring Dashboard' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		},
		{
			name: "Bob's calls",
			want: `name = 'Bob\'s calls' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false`,
		},
		{
			name: `a\b`,
			want: `name = 'a\\b' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpreadsheetQuery(tt.name))
		})
	}
}

func TestWebURL(t *testing.T) {
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/edit", WebURL("abc"))
}
