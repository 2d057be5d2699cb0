package authhandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/auth"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/middleware"
)

func TestRefreshRejectsMissingHeader(t *testing.T) {
	h := NewHandler(nil, "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	h := NewHandler(nil, "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRefreshRejectsWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "u1", TenantID: "t1", SessionID: "s1"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	h := NewHandler(nil, "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	h := NewHandler(nil, "secret", nil)
	body := strings.NewReader(`{"token":"abc","newPassword":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/reset", body)
	rec := httptest.NewRecorder()
	h.HandleResetPassword(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "weak_password") {
		t.Fatalf("expected weak_password error, got %s", rec.Body.String())
	}
}

func TestLoginRejectsInvalidPayload(t *testing.T) {
	h := NewHandler(nil, "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMFASetupRequiresEncryptionKey(t *testing.T) {
	h := NewHandler(nil, "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/mfa/setup", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", TenantID: "t1"}))
	rec := httptest.NewRecorder()
	h.HandleMFASetup(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mfa_unavailable") {
		t.Fatalf("expected mfa_unavailable, got %s", rec.Body.String())
	}
}

func TestMFASetupRequiresUser(t *testing.T) {
	h := NewHandler(nil, "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/mfa/setup", nil)
	rec := httptest.NewRecorder()
	h.HandleMFASetup(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogoutWithoutSessionSucceeds(t *testing.T) {
	h := NewHandler(nil, "secret", nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
