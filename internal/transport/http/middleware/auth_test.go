package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salaryengine/internal/domain/auth"
	"salaryengine/internal/requestctx"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", EmployeeID: "EMP-1", RoleName: auth.RoleHR}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.EmployeeID != "EMP-1" || user.RoleName != auth.RoleHR {
			t.Fatalf("unexpected user: %+v", user)
		}
		if actor := requestctx.GetActorID(r.Context()); actor != "u1" {
			t.Fatalf("expected actor u1, got %q", actor)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("expected handler to run")
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user for a forged token")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
