package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword() rejected the original password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestTokensIssueVerify(t *testing.T) {
	tokens := NewTokens("test-secret", "docfold", time.Minute)
	userID := uuid.New()

	raw, err := tokens.Issue(userID, "jo@example.com", "editor")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	p, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if p.UserID != userID {
		t.Errorf("UserID = %s, want %s", p.UserID, userID)
	}
	if p.Email != "jo@example.com" {
		t.Errorf("Email = %s, want jo@example.com", p.Email)
	}
	if p.Role != "editor" {
		t.Errorf("Role = %s, want editor", p.Role)
	}
}

func TestTokensVerifyRejects(t *testing.T) {
	tokens := NewTokens("test-secret", "docfold", time.Minute)
	raw, err := tokens.Issue(uuid.New(), "jo@example.com", "viewer")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("other-secret", "docfold", time.Minute)
		if _, err := other.Verify(raw); err == nil {
			t.Error("expected verification failure")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokens("test-secret", "someone-else", time.Minute)
		if _, err := other.Verify(raw); err == nil {
			t.Error("expected verification failure")
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := NewTokens("test-secret", "docfold", -time.Minute)
		raw, err := short.Issue(uuid.New(), "jo@example.com", "viewer")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if _, err := short.Verify(raw); err == nil {
			t.Error("expected verification failure")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := tokens.Verify("not.a.jwt"); err == nil {
			t.Error("expected verification failure")
		}
	})
}

func TestRequireAuth(t *testing.T) {
	tokens := NewTokens("test-secret", "docfold", time.Minute)
	userID := uuid.New()

	var gotPrincipal *Principal
	handler := RequireAuth(tokens, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("no token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		raw, err := tokens.Issue(userID, "jo@example.com", "admin")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rr.Code)
		}
		if gotPrincipal == nil || gotPrincipal.UserID != userID {
			t.Errorf("principal = %+v, want UserID %s", gotPrincipal, userID)
		}
	})
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole("editor")(next)

	serve := func(p *Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			req = req.WithContext(WithPrincipal(req.Context(), p))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := serve(nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("no principal: status = %d, want 401", rr.Code)
	}
	if rr := serve(&Principal{Role: "viewer"}); rr.Code != http.StatusForbidden {
		t.Errorf("viewer: status = %d, want 403", rr.Code)
	}
	if rr := serve(&Principal{Role: "editor"}); rr.Code != http.StatusNoContent {
		t.Errorf("editor: status = %d, want 204", rr.Code)
	}
	if rr := serve(&Principal{Role: "admin"}); rr.Code != http.StatusNoContent {
		t.Errorf("admin bypass: status = %d, want 204", rr.Code)
	}
}
