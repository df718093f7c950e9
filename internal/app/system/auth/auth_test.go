package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mgr, err := NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return mgr
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", "s", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignInThenLoadSessionUser(t *testing.T) {
	mgr := newTestManager(t)

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	err := mgr.SignIn(rec, req, SessionUser{ID: "abc123", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Replay the cookie through the middleware.
	var got *SessionUser
	handler := mgr.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/api/profile", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected user in context after sign-in")
	}
	if got.ID != "abc123" || got.Name != "Ada" || got.Email != "ada@example.com" {
		t.Errorf("unexpected session user: %+v", got)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	if err := mgr.SignIn(rec, req, SessionUser{ID: "abc123"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/api/auth/logout", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	if err := mgr.SignOut(rec2, req2); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	var found bool
	handler := mgr.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	}))
	req3 := httptest.NewRequest("GET", "/api/profile", nil)
	for _, c := range rec2.Result().Cookies() {
		req3.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req3)

	if found {
		t.Error("expected no user in context after sign-out")
	}
}

func TestRequireSignedIn(t *testing.T) {
	called := false
	handler := RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// Unauthenticated: 401, inner handler not reached.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/posts", nil))
	if called {
		t.Error("inner handler should not run without a user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Authenticated: passes through.
	req := WithTestUser(httptest.NewRequest("GET", "/api/posts", nil), &SessionUser{ID: "abc"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("inner handler should run with a user in context")
	}
}
