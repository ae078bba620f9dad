package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/platform/backend"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "service-key", 5*time.Second)
}

func TestSelectBuildsPostgRESTQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/usuarios", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "user_id,first_name", q.Get("select"))
		assert.Equal(t, "eq.active", q.Get("subscription_status"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, "10", q.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"user_id":1,"first_name":"Ana"},{"user_id":2,"first_name":"Bo"}]`)
	})

	var rows []struct {
		UserID    int64  `json:"user_id"`
		FirstName string `json:"first_name"`
	}
	q := backend.From(backend.TableUsers).
		Select("user_id, first_name").
		Eq("subscription_status", "active").
		Order("created_at", false).
		Limit(10)
	require.NoError(t, client.Select(context.Background(), q, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Bo", rows[1].FirstName)
}

func TestIsDistinctIncludesNull(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "(subscription_status.neq.active,subscription_status.is.null)", q.Get("or"))
		assert.Empty(t, q.Get("subscription_status"))
		_, _ = io.WriteString(w, `[]`)
	})

	var rows []map[string]any
	q := backend.From(backend.TableUsers).IsDistinct("subscription_status", "active")
	require.NoError(t, client.Select(context.Background(), q, &rows))
}

func TestAddFiltersNestsSeveralDistinct(t *testing.T) {
	params := url.Values{}
	addFilters(params, []backend.Filter{
		{Column: "a", Op: backend.OpIsDistinct, Value: "x"},
		{Column: "b", Op: backend.OpIsDistinct, Value: 1},
		{Column: "c", Op: backend.OpEq, Value: "y"},
		{Column: "d", Op: backend.OpIsDistinct, Value: nil},
	})
	assert.Equal(t, "(or(a.neq.x,a.is.null),or(b.neq.1,b.is.null))", params.Get("and"))
	assert.Empty(t, params.Get("or"))
	assert.Equal(t, "eq.y", params.Get("c"))
	assert.Equal(t, "not.is.null", params.Get("d"))
}

func TestCountReadsContentRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		assert.Empty(t, r.URL.Query().Get("order"))
		w.Header().Set("Content-Range", "0-24/3573")
		w.WriteHeader(http.StatusOK)
	})

	n, err := client.Count(context.Background(), backend.From(backend.TableUsers).Order("created_at", false))
	require.NoError(t, err)
	assert.Equal(t, int64(3573), n)
}

func TestParseContentRange(t *testing.T) {
	n, err := parseContentRange("*/0")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = parseContentRange("0-9/*")
	assert.Error(t, err)

	_, err = parseContentRange("")
	assert.Error(t, err)
}

func TestUndefinedTableError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "42P01",
			"message": `relation "public.download_resources" does not exist`,
		})
	})

	var rows []map[string]any
	err := client.Select(context.Background(), backend.From(backend.TableResources), &rows)
	require.Error(t, err)
	assert.True(t, backend.IsUndefinedTable(err))

	var be *backend.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusNotFound, be.Status)
}

func TestCountMissingTableFetchesErrorBody(t *testing.T) {
	var methods []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		if r.Method == http.MethodGet {
			assert.Equal(t, "0", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"42P01","message":"relation \"public.download_resources\" does not exist"}`)
	})

	_, err := client.Count(context.Background(), backend.From(backend.TableResources))
	require.Error(t, err)
	assert.True(t, backend.IsUndefinedTable(err))
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestCountFallbackReadsContentRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Range", "*/12")
		_, _ = io.WriteString(w, `[]`)
	})

	n, err := client.Count(context.Background(), backend.From(backend.TableUsers))
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestPlainTextErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.Count(context.Background(), backend.From(backend.TableUsers))
	var be *backend.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "upstream down", be.Message)
	assert.Equal(t, http.StatusBadGateway, be.Status)
}

func TestUpdateSendsFiltersAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.42", r.URL.Query().Get("user_id"))
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "active", body["subscription_status"])
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Update(context.Background(), backend.TableUsers,
		map[string]any{"subscription_status": "active"}, backend.Eq("user_id", int64(42)))
	assert.NoError(t, err)
}

func TestUnfilteredWritesNeverLeaveTheProcess(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := client.Update(context.Background(), backend.TableUsers, map[string]any{"xp": 0})
	assert.ErrorIs(t, err, backend.ErrUnfiltered)

	err = client.Delete(context.Background(), backend.TableResources)
	assert.ErrorIs(t, err, backend.ErrUnfiltered)

	assert.False(t, called)
}

func TestInsertPostsRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/download_resources", r.URL.Path)
		var rows []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Kali ISO", rows[0]["title"])
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Insert(context.Background(), backend.TableResources, []map[string]any{{"title": "Kali ISO"}})
	assert.NoError(t, err)
}
