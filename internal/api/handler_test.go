package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynasource/internal/domain"
	"dynasource/internal/service/query"
	"dynasource/internal/testutil"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func newTestHandler(store *testutil.MockStore) *Handler {
	svc := query.NewService(store, time.UTC, nil)
	return NewHandler(svc, store, nil)
}

func postQuery(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleQuery(rec, req)
	return rec
}

func TestHandleQuery_EndToEnd(t *testing.T) {
	t.Parallel()

	store := &testutil.MockStore{
		ExecuteFn: func(_ context.Context, _ string, limit *int32) ([]map[string]types.AttributeValue, error) {
			require.NotNil(t, limit)
			assert.Equal(t, int32(25), *limit)
			return []map[string]types.AttributeValue{
				{
					"id": &types.AttributeValueMemberS{Value: "a"},
					"ts": &types.AttributeValueMemberN{Value: "1730408669"},
				},
			}, nil
		},
	}
	h := newTestHandler(store)

	body := `{
		"queryText": "SELECT * FROM \"t\" WHERE ts > $__from",
		"limit": 25,
		"timeRange": {"from": 1730402000000, "to": "2024-10-31T21:04:29Z"},
		"datetimeFields": [{"name": "ts", "format": "unix_seconds"}]
	}`
	rec := postQuery(t, h, body)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.Statements, 1)
	assert.Equal(t, `SELECT * FROM "t" WHERE ts > 1730402000`, store.Statements[0])

	var table domain.Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Equal(t, 1, table.RowCount)
	assert.Equal(t, []domain.Column{
		{Name: "id", Kind: domain.KindString},
		{Name: "ts", Kind: domain.KindTime},
	}, table.Columns)
	assert.Equal(t, "a", table.Rows[0][0])
	assert.Equal(t, "2024-10-31 21:04:29", table.Rows[0][1])
}

func TestHandleQuery_EmptyTextIsBadRequest(t *testing.T) {
	t.Parallel()

	store := &testutil.MockStore{}
	rec := postQuery(t, newTestHandler(store), `{"queryText": "  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.Statements)
}

func TestHandleQuery_BadLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"zero", `{"queryText": "SELECT 1", "limit": 0}`},
		{"negative", `{"queryText": "SELECT 1", "limit": -5}`},
		{"non-numeric", `{"queryText": "SELECT 1", "limit": "ten"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := postQuery(t, newTestHandler(&testutil.MockStore{}), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleQuery_MalformedBody(t *testing.T) {
	t.Parallel()

	rec := postQuery(t, newTestHandler(&testutil.MockStore{}), `{"queryText": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_StoreFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	store := &testutil.MockStore{
		ExecuteFn: func(context.Context, string, *int32) ([]map[string]types.AttributeValue, error) {
			return nil, domain.ErrStore(errors.New("down"), "execute statement: InternalServerError: down")
		},
	}
	rec := postQuery(t, newTestHandler(store), `{"queryText": "SELECT 1"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Message, "InternalServerError")
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(&testutil.MockStore{})
		rec := httptest.NewRecorder()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("probe table missing", func(t *testing.T) {
		t.Parallel()
		store := &testutil.MockStore{
			CheckFn: func(context.Context) error {
				return domain.ErrNotFound("connection test table %q not found", "health")
			},
		}
		h := newTestHandler(store)
		rec := httptest.NewRecorder()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store unreachable", func(t *testing.T) {
		t.Parallel()
		store := &testutil.MockStore{
			CheckFn: func(context.Context) error {
				return domain.ErrStore(errors.New("timeout"), "describe table: timeout")
			},
		}
		h := newTestHandler(store)
		rec := httptest.NewRecorder()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestFlexTime(t *testing.T) {
	t.Parallel()

	var ft flexTime
	require.NoError(t, json.Unmarshal([]byte(`"2024-10-31T21:04:29Z"`), &ft))
	assert.Equal(t, int64(1730408669), ft.Unix())

	require.NoError(t, json.Unmarshal([]byte(`1730408669123`), &ft))
	assert.Equal(t, int64(1730408669123), ft.UnixMilli())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &ft))
}
