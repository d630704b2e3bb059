package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
)

var (
	// ErrInvalidCredentials indicates the identifier/password pair did not
	// match a user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenMismatch indicates a structurally valid refresh token that is
	// not the one currently recorded for the user (already rotated or
	// revoked).
	ErrTokenMismatch = errors.New("refresh token not recognized")
)

// Manager runs the session lifecycle: login, refresh rotation and logout.
type Manager struct {
	users  repositories.UserRepository
	issuer *TokenIssuer
}

// NewManager constructs a session manager.
func NewManager(users repositories.UserRepository, issuer *TokenIssuer) *Manager {
	return &Manager{users: users, issuer: issuer}
}

// HashPassword derives the stored form of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against its stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (m *Manager) issuePair(ctx context.Context, user models.User) (models.SessionTokens, error) {
	access, accessExp, err := m.issuer.IssueAccess(user.ID, user.Handle, user.Email)
	if err != nil {
		return models.SessionTokens{}, err
	}
	refresh, refreshExp, err := m.issuer.IssueRefresh(user.ID)
	if err != nil {
		return models.SessionTokens{}, err
	}
	if err := m.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return models.SessionTokens{}, fmt.Errorf("store refresh token: %w", err)
	}
	return models.SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Login verifies the password for the user identified by handle or email
// and issues a fresh token pair, replacing any prior refresh token.
func (m *Manager) Login(ctx context.Context, identifier, password string) (models.User, models.SessionTokens, error) {
	user, err := m.users.FindByHandle(ctx, identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		user, err = m.users.FindByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, models.SessionTokens{}, ErrInvalidCredentials
		}
		return models.User{}, models.SessionTokens{}, fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(user.Password, password) {
		return models.User{}, models.SessionTokens{}, ErrInvalidCredentials
	}

	tokens, err := m.issuePair(ctx, user)
	if err != nil {
		return models.User{}, models.SessionTokens{}, err
	}
	return user, tokens, nil
}

// Refresh validates a refresh token against the one stored for its subject
// and rotates it: the old token is dead once a new pair is issued.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	claims, err := m.issuer.Verify(refreshToken)
	if err != nil {
		return models.SessionTokens{}, err
	}

	user, err := m.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.SessionTokens{}, ErrTokenMismatch
		}
		return models.SessionTokens{}, fmt.Errorf("look up user: %w", err)
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return models.SessionTokens{}, ErrTokenMismatch
	}

	return m.issuePair(ctx, user)
}

// Logout revokes the user's current refresh token. Outstanding access
// tokens stay valid until they expire; only the refresh path is cut.
func (m *Manager) Logout(ctx context.Context, userID string) error {
	if err := m.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}
