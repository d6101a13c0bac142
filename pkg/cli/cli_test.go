package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDo_SetsAuthHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := newClient(&clientOptions{server: srv.URL, token: "tok", apiKey: "key"})
	var out map[string]string
	require.NoError(t, c.do(t.Context(), "GET", "/v1/health", nil, &out))

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "key", gotKey)
	assert.Equal(t, "ok", out["status"])
}

func TestClientDo_SurfacesAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 400, "message": "query text is required"})
	}))
	defer srv.Close()

	c := newClient(&clientOptions{server: srv.URL})
	err := c.do(t.Context(), "POST", "/v1/query", map[string]string{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query text is required")
}

func TestRenderCell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<null>", renderCell(nil))
	assert.Equal(t, "hi", renderCell("hi"))
	assert.Equal(t, "42", renderCell(float64(42)))
	assert.Equal(t, "4.5", renderCell(4.5))
	assert.Equal(t, "true", renderCell(true))
}

func TestQueryCmd_RejectsBadDatetimeFlag(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetArgs([]string{"query", "SELECT 1", "--datetime", "missing-separator"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name=format")
}
