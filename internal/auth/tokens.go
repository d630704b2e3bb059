// Package auth issues and verifies session credentials. Access tokens are
// stateless signed JWTs and are never stored server-side; refresh tokens
// are JWTs too but each user carries at most one valid refresh token,
// recorded on their row and rotated on every use.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired indicates the token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid indicates the token failed signature or claim checks.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carried by both token kinds. Access tokens additionally embed the
// user's handle and email so request handling never needs a user lookup.
type Claims struct {
	Handle string `json:"handle,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies the platform's HMAC-signed tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	nowFunc func() time.Time
}

// NewTokenIssuer builds an issuer signing with the given secret.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (t *TokenIssuer) now() time.Time {
	if t.nowFunc != nil {
		return t.nowFunc()
	}
	return time.Now().UTC()
}

func (t *TokenIssuer) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssueAccess mints a short-lived access token for the user.
func (t *TokenIssuer) IssueAccess(userID, handle, email string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.accessTTL)
	signed, err := t.sign(Claims{
		Handle: handle,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// IssueRefresh mints a long-lived refresh token carrying only the subject.
func (t *TokenIssuer) IssueRefresh(userID string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.refreshTTL)
	signed, err := t.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify checks the token's signature and expiry and returns its claims.
func (t *TokenIssuer) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
