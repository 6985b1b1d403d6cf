package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cryptodb-gateway/internal/query"

	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "123"
	testDatabase = "crypto.db"
)

type recordingExecutor struct {
	calls    int
	database string
	query    string
	result   query.Result
}

func (e *recordingExecutor) Execute(_ context.Context, database, q string) query.Result {
	e.calls++
	e.database = database
	e.query = q
	return e.result
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/crypto", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCryptoHandlerMalformedRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "invalid json", body: "{"},
		{name: "null body", body: "null"},
		{name: "array body", body: `["123", "SELECT 1"]`},
		{name: "empty object", body: `{}`},
		{name: "missing auth", body: `{"query": "SELECT 1"}`},
		{name: "missing query", body: `{"auth": "123"}`},
		{name: "trailing data", body: `{"auth": "123", "query": "SELECT 1"} {}`},
		{name: "null query", body: `{"auth": "123", "query": null}`},
		{name: "numeric query", body: `{"auth": "123", "query": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{}
			rec := post(NewCryptoHandler(testSecret, testDatabase, exec), tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.JSONEq(t, `{"error":"Invalid request, 'auth' and 'query' required"}`, rec.Body.String())
			require.Zero(t, exec.calls)
		})
	}
}

func TestCryptoHandlerUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrong secret", body: `{"auth": "124", "query": "SELECT 1"}`},
		{name: "empty secret", body: `{"auth": "", "query": "SELECT 1"}`},
		{name: "prefix of secret", body: `{"auth": "12", "query": "SELECT 1"}`},
		{name: "numeric secret", body: `{"auth": 123, "query": "SELECT 1"}`},
		{name: "null secret", body: `{"auth": null, "query": "SELECT 1"}`},
		{name: "unsafe query still unauthorized", body: `{"auth": "nope", "query": "DROP TABLE t"}`},
		{name: "bad query type still unauthorized", body: `{"auth": "nope", "query": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{}
			rec := post(NewCryptoHandler(testSecret, testDatabase, exec), tt.body)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			require.Zero(t, exec.calls)
		})
	}
}

func TestCryptoHandlerRelaysResult(t *testing.T) {
	tests := []struct {
		name     string
		result   query.Result
		wantCode int
		wantBody string
	}{
		{
			name:     "rows",
			result:   query.RowsResult([][]any{{int64(1), "BTC"}}),
			wantCode: http.StatusOK,
			wantBody: `[[1, "BTC"]]`,
		},
		{
			name:     "status",
			result:   query.StatusResult(),
			wantCode: http.StatusOK,
			wantBody: `{"status":"Query executed successfully"}`,
		},
		{
			name:     "rejected",
			result:   query.ErrorResult(http.StatusForbidden, query.MsgUnsafeQuery),
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"Unsafe query detected"}`,
		},
		{
			name:     "failed",
			result:   query.ErrorResult(http.StatusInternalServerError, "no such table: nope"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"no such table: nope"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{result: tt.result}
			rec := post(NewCryptoHandler(testSecret, testDatabase, exec), `{"auth": "123", "query": "SELECT 1"}`)

			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			require.JSONEq(t, tt.wantBody, rec.Body.String())
			require.Equal(t, 1, exec.calls)
			require.Equal(t, testDatabase, exec.database)
			require.Equal(t, "SELECT 1", exec.query)
		})
	}
}

func TestCryptoHandlerMethodNotAllowed(t *testing.T) {
	exec := &recordingExecutor{}
	h := NewCryptoHandler(testSecret, testDatabase, exec)

	req := httptest.NewRequest(http.MethodGet, "/crypto", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	require.Zero(t, exec.calls)
}

func TestCryptoHandlerBodyTooLarge(t *testing.T) {
	exec := &recordingExecutor{}
	big := `{"auth": "123", "query": "` + strings.Repeat("x", cryptoMaxBodyBytes) + `"}`

	rec := post(NewCryptoHandler(testSecret, testDatabase, exec), big)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, exec.calls)
}

func TestCryptoHandlerEndToEnd(t *testing.T) {
	d := query.NewDispatcher(query.Options{StorageDir: t.TempDir()})
	h := NewCryptoHandler(testSecret, testDatabase, d)

	send := func(q string) *httptest.ResponseRecorder {
		body, err := json.Marshal(map[string]string{"auth": testSecret, "query": q})
		require.NoError(t, err)
		return post(h, string(body))
	}

	rec := send("SELECT 1 AS x")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[[1]]`, rec.Body.String())

	rec = send("CREATE TABLE t (id INTEGER, name TEXT)")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"Query executed successfully"}`, rec.Body.String())

	rec = send("INSERT INTO t (id, name) VALUES (7, 'eth')")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = send("SELECT id, name FROM t")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[[7, "eth"]]`, rec.Body.String())

	rec = send("CREATE TABLE u (ALTERNATE TEXT)")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"error":"Unsafe query detected"}`, rec.Body.String())

	rec = send("SELECT * FROM nope")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Contains(t, payload["error"], "no such table")
}

func TestCryptoHandlerNonFiniteValue(t *testing.T) {
	d := query.NewDispatcher(query.Options{StorageDir: t.TempDir()})
	h := NewCryptoHandler(testSecret, testDatabase, d)

	rec := post(h, `{"auth": "123", "query": "SELECT 1e999"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Contains(t, payload["error"], "unsupported value")
}
