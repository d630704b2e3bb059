package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/streamtube/backend/internal/auth"
)

func viewerRecorder(t *testing.T, issuer *auth.TokenIssuer, decorate func(*http.Request)) string {
	t.Helper()
	var got string
	handler := Viewer(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ViewerID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	decorate(req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestViewerFromAuthorizationHeader(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Minute, time.Hour)
	token, _, err := issuer.IssueAccess("u1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	got := viewerRecorder(t, issuer, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if got != "u1" {
		t.Fatalf("viewer id = %q, want u1", got)
	}
}

func TestViewerFromCookie(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Minute, time.Hour)
	token, _, err := issuer.IssueAccess("u1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	got := viewerRecorder(t, issuer, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	})
	if got != "u1" {
		t.Fatalf("viewer id = %q, want u1", got)
	}
}

func TestViewerAnonymousOnMissingOrBadToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Minute, time.Hour)

	if got := viewerRecorder(t, issuer, func(*http.Request) {}); got != "" {
		t.Fatalf("viewer id = %q, want anonymous", got)
	}
	got := viewerRecorder(t, issuer, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})
	if got != "" {
		t.Fatalf("viewer id = %q, want anonymous on invalid token", got)
	}
}
