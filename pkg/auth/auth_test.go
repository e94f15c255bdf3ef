package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassphrase("open sesame")
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthenticator("test-secret", hash, time.Hour)
}

func TestIssueAndValidate(t *testing.T) {
	a := newTestAuthenticator(t)

	token, expiresAt, err := a.IssueToken("open sesame")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiresAt %v in the past", expiresAt)
	}

	claims, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != deviceSubject || claims.ID == "" {
		t.Fatalf("claims %+v", claims)
	}
}

func TestIssueTokenWrongPassphrase(t *testing.T) {
	if _, _, err := newTestAuthenticator(t).IssueToken("guess"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	a := newTestAuthenticator(t)
	token, _, _ := a.IssueToken("open sesame")

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := a.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestSignInDisabledWithoutSecret(t *testing.T) {
	a := NewAuthenticator("", "", 0)
	if a.Enabled() {
		t.Fatal("auth enabled without secret")
	}
	if _, _, err := a.IssueToken("x"); !errors.Is(err, ErrSignInDisabled) {
		t.Fatalf("err = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator(t)
	token, _, _ := a.IssueToken("open sesame")
	h := a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Context().Value(TokenIDKey) == nil {
			t.Error("token id missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"invalid", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMiddlewareDisabled(t *testing.T) {
	a := NewAuthenticator("", "", 0)
	called := false
	a.Middleware(func(http.ResponseWriter, *http.Request) { called = true })(httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil))
	if !called {
		t.Fatal("handler not called with auth disabled")
	}
}

func TestSignInHandler(t *testing.T) {
	a := newTestAuthenticator(t)

	rec := httptest.NewRecorder()
	a.SignInHandler(rec, httptest.NewRequest("POST", "/auth/token", strings.NewReader(`{"passphrase":"open sesame"}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("sign-in = %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	a.SignInHandler(rec, httptest.NewRequest("POST", "/auth/token", strings.NewReader(`{"passphrase":"nope"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad passphrase = %d", rec.Code)
	}
}
