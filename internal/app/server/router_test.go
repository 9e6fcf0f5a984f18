package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salaryengine/internal/domain/auth"
	"salaryengine/internal/domain/salary"
	"salaryengine/internal/platform/config"
	"salaryengine/internal/platform/metrics"
)

const testSecret = "router-secret"

func testRouter(ready func(context.Context) error) http.Handler {
	return NewRouter(RouterDeps{
		Config: config.Config{
			JWTSecret:          testSecret,
			MaxBodyBytes:       4096,
			RateLimitPerMinute: 100,
		},
		Rates:   salary.DefaultRates(),
		Metrics: metrics.New(),
		Ready:   ready,
	})
}

func TestHealthAndReadiness(t *testing.T) {
	router := testRouter(func(context.Context) error { return errors.New("db down") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSalaryCalculateThroughStack(t *testing.T) {
	router := testRouter(nil)
	body := `{"gross":30000}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/salary/calculate", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", RoleName: auth.RoleEmployee}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/salary/calculate", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"inHand":28000`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `route="/api/v1/salary/calculate"`))
}

func TestPayrollRoutesAbsentWithoutService(t *testing.T) {
	router := testRouter(nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payroll/periods/2024-03/slips", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
