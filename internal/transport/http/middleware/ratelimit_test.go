package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salaryengine/internal/domain/auth"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := MutationRateLimit(1, time.Minute)(http.HandlerFunc(noContent))
	userCtx := WithUser(context.Background(), auth.UserContext{UserID: "user-1", RoleName: auth.RoleHR})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := MutationRateLimit(1, time.Minute)(http.HandlerFunc(noContent))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/salary/calculate", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/salary/calculate", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by ip key, got %d", secondRec.Code)
	}
}

func TestRateLimitSkipsReads(t *testing.T) {
	limited := MutationRateLimit(1, time.Minute)(http.HandlerFunc(noContent))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/periods/2024-03/slips", nil)
		req.RemoteAddr = "198.51.100.40:8888"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected read %d to bypass the limiter, got %d", i+1, rec.Code)
		}
	}
}
