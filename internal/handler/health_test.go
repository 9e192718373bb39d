package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dealer-inventory/internal/config"
	"github.com/pkordes/dealer-inventory/internal/handler"
)

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       handler.Pinger
		wantCode int
		wantBody string
	}{
		{"no database", nil, http.StatusOK, `{"status":"ok"}`},
		{"database up", pingFunc(func(context.Context) error { return nil }), http.StatusOK, `{"status":"ok"}`},
		{"database down", pingFunc(func(context.Context) error { return errors.New("refused") }),
			http.StatusServiceUnavailable, `{"status":"unavailable"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHTTPHandler(handler.Services{DB: tc.db}, config.Features{})

			rec := do(t, h, http.MethodGet, "/healthz", nil)

			require.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestGetOpenAPI(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{}, config.Features{}), http.MethodGet, "/openapi.yaml", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.")
}
