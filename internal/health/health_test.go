package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthyWhenAllChecksPass(t *testing.T) {
	h := NewHealthChecker("dskcredit")
	h.AddCheck("db", CheckerFunc(func(context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "dskcredit", resp.Service)
	assert.Equal(t, StatusHealthy, resp.Checks["db"].Status)
}

func TestUnhealthyWhenAnyCheckFails(t *testing.T) {
	h := NewHealthChecker("dskcredit")
	h.AddCheck("db", CheckerFunc(func(context.Context) error { return nil }))
	h.AddCheck("redis", CheckerFunc(func(context.Context) error { return errors.New("connection refused") }))

	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["redis"].Message)
	assert.Equal(t, StatusHealthy, resp.Checks["db"].Status)
}
