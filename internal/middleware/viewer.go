package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/streamtube/backend/internal/auth"
)

type viewerKey struct{}

// AccessTokenVerifier checks an access token and returns its claims.
type AccessTokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// ViewerID returns the authenticated viewer's user id, or "" for an
// anonymous request.
func ViewerID(ctx context.Context) string {
	if id, ok := ctx.Value(viewerKey{}).(string); ok {
		return id
	}
	return ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

// Viewer resolves the request's viewer identity from a bearer access token
// (Authorization header or accessToken cookie). A missing or invalid token
// leaves the request anonymous; viewer-relative reads degrade gracefully
// rather than rejecting.
func Viewer(verifier AccessTokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if claims, err := verifier.Verify(token); err == nil {
					ctx := context.WithValue(r.Context(), viewerKey{}, claims.Subject)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
