package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koustreak/kyselygen/internal/codegen"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/logger"
	"github.com/koustreak/kyselygen/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSource(out *codegen.Output, calls *int32) Source {
	return func(context.Context) (*codegen.Output, error) {
		atomic.AddInt32(calls, 1)
		return out, nil
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, New(nil, nil).Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTypes_RegeneratesPerRequest(t *testing.T) {
	var calls int32
	out := &codegen.Output{Source: "export interface DB {}\n"}
	h := New(staticSource(out, &calls), nil).Handler()

	for i := 0; i < 3; i++ {
		rec := get(t, h, "/types.ts")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/typescript; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "export interface DB {}\n", rec.Body.String())
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWarnings_ReusesLastResult(t *testing.T) {
	var calls int32
	out := &codegen.Output{
		Source:   "x",
		Warnings: []transform.Warning{{Type: "unknown_type", PgType: "ltree"}},
		Tables:   2,
		Enums:    1,
	}
	h := New(staticSource(out, &calls), nil).Handler()

	rec := get(t, h, "/warnings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"warnings":[{"type":"unknown_type","pgType":"ltree"}],"tables":2,"enums":1}`, rec.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	get(t, h, "/warnings")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWarnings_EmptyList(t *testing.T) {
	var calls int32
	h := New(staticSource(&codegen.Output{}, &calls), nil).Handler()

	rec := get(t, h, "/warnings")
	assert.JSONEq(t, `{"warnings":[],"tables":0,"enums":0}`, rec.Body.String())
}

func TestTypes_ErrorStatus(t *testing.T) {
	tests := []struct {
		kind errs.ErrKind
		want int
	}{
		{errs.ErrKindInvalidInput, http.StatusBadRequest},
		{errs.ErrKindPermissionDenied, http.StatusForbidden},
		{errs.ErrKindTimeout, http.StatusGatewayTimeout},
		{errs.ErrKindConnectionFailed, http.StatusBadGateway},
		{errs.ErrKindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.New(&logger.Config{Level: "info", Format: "json", Output: &buf})
			src := func(context.Context) (*codegen.Output, error) {
				return nil, errs.New(tt.kind, "boom")
			}

			rec := get(t, New(src, log).Handler(), "/types.ts")
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], "boom")
			assert.Equal(t, tt.kind.String(), body["kind"])
			assert.Contains(t, buf.String(), `"path":"/types.ts"`)
		})
	}
}

func TestNotFoundRoute(t *testing.T) {
	rec := get(t, New(nil, nil).Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(nil, nil).ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
