package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamtube/backend/internal/auth"
	"github.com/streamtube/backend/internal/logging"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
	"github.com/streamtube/backend/internal/storage"
)

const maxUploadBytes = 512 << 20

// UserHandler implements account, session and channel-profile endpoints.
type UserHandler struct {
	Users    repositories.UserRepository
	Sessions SessionManager
	Views    ViewRenderer
	Media    MediaStorage
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

// userPayload is the public projection of an account returned by the
// account endpoints. Credentials and session material never leave the
// server.
type userPayload struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
	CoverURL  string    `json:"coverUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func userResponse(user models.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Handle:    user.Handle,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		CoverURL:  user.CoverURL,
		CreatedAt: user.CreatedAt,
	}
}

// requireViewer resolves the authenticated viewer or answers 401.
func requireViewer(ctx context.Context, w http.ResponseWriter) (string, bool) {
	viewer := middleware.ViewerID(ctx)
	if viewer == "" {
		respond(ctx, w, http.StatusUnauthorized, nil, "authentication required")
		return "", false
	}
	return viewer, true
}

// stashUpload copies a multipart file to a temp path so the storage layer
// can stream it. The caller owns the returned path.
func stashUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return tmp.Name(), nil
}

// uploadFormFile stores the named multipart file, if present. The bool
// reports whether the field carried a file at all.
func uploadFormFile(ctx context.Context, r *http.Request, media MediaStorage, field string) (storage.Object, bool, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return storage.Object{}, false, nil
	}
	if err != nil {
		return storage.Object{}, false, fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	path, err := stashUpload(file, header)
	if err != nil {
		return storage.Object{}, false, err
	}
	defer os.Remove(path)

	object, err := media.Upload(ctx, path)
	if err != nil {
		return storage.Object{}, false, fmt.Errorf("store %s: %w", field, err)
	}
	return object, true, nil
}

// Register handles POST /api/v1/users/register requests. The body is
// multipart so avatar and cover images can ride along with the account
// fields.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respond(ctx, w, http.StatusTooManyRequests, nil, "too many requests")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(ctx, w, "invalid multipart body")
		return
	}

	handle := strings.TrimSpace(strings.ToLower(r.FormValue("handle")))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	fullName := strings.TrimSpace(r.FormValue("fullName"))
	password := r.FormValue("password")

	switch {
	case handle == "" || email == "" || fullName == "" || password == "":
		badRequest(ctx, w, "handle, email, fullName and password are required")
		return
	case len(password) < 8:
		badRequest(ctx, w, "password must be at least 8 characters")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		badRequest(ctx, w, "invalid email address")
		return
	}

	if _, err := h.Users.FindByHandle(ctx, handle); err == nil {
		respond(ctx, w, http.StatusConflict, nil, "handle already taken")
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		respondError(ctx, w, err)
		return
	}
	if _, err := h.Users.FindByEmail(ctx, email); err == nil {
		respond(ctx, w, http.StatusConflict, nil, "account already exists")
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		respondError(ctx, w, err)
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	user := models.User{
		ID:        uuid.NewString(),
		Handle:    handle,
		Email:     email,
		FullName:  fullName,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if avatar, ok, err := uploadFormFile(ctx, r, h.Media, "avatar"); err != nil {
		respondError(ctx, w, err)
		return
	} else if ok {
		user.AvatarURL, user.AvatarObject = avatar.URL, avatar.ID
	}
	if cover, ok, err := uploadFormFile(ctx, r, h.Media, "cover"); err != nil {
		respondError(ctx, w, err)
		return
	} else if ok {
		user.CoverURL, user.CoverObject = cover.URL, cover.ID
	}

	if err := h.Users.Create(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info("user registered", "userId", user.ID, "handle", user.Handle)
	respond(ctx, w, http.StatusCreated, userResponse(user), "account created")
}

// Login handles POST /api/v1/users/login requests. The identifier may be a
// handle or an email.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !allowRequest(h.Limiter, r, "login") {
		respond(ctx, w, http.StatusTooManyRequests, nil, "too many requests")
		return
	}

	var req struct {
		Handle   string `json:"handle"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		badRequest(ctx, w, "invalid request body")
		return
	}

	identifier := strings.TrimSpace(strings.ToLower(req.Handle))
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Email))
	}
	if identifier == "" || req.Password == "" {
		badRequest(ctx, w, "handle or email, and password are required")
		return
	}

	user, tokens, err := h.Sessions.Login(ctx, identifier, req.Password)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	setSessionCookies(w, tokens)
	payload := struct {
		User   userPayload          `json:"user"`
		Tokens models.SessionTokens `json:"tokens"`
	}{userResponse(user), tokens}
	respond(ctx, w, http.StatusOK, payload, "logged in")
}

// Refresh handles POST /api/v1/users/refresh-token requests and rotates the
// refresh token.
func (h UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(ctx, w, "invalid request body")
		return
	}
	token := req.RefreshToken
	if token == "" {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		badRequest(ctx, w, "refresh token is required")
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	setSessionCookies(w, tokens)
	respond(ctx, w, http.StatusOK, tokens, "session refreshed")
}

// Logout handles POST /api/v1/users/logout requests.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	if err := h.Sessions.Logout(ctx, viewer); err != nil {
		respondError(ctx, w, err)
		return
	}

	clearSessionCookies(w)
	respond(ctx, w, http.StatusOK, nil, "logged out")
}

// ChangePassword handles POST /api/v1/users/change-password requests.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &req); err != nil {
		badRequest(ctx, w, "invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		badRequest(ctx, w, "oldPassword and newPassword are required")
		return
	}
	if len(req.NewPassword) < 8 {
		badRequest(ctx, w, "password must be at least 8 characters")
		return
	}

	user, err := h.Users.FindByID(ctx, viewer)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !auth.CheckPassword(user.Password, req.OldPassword) {
		respond(ctx, w, http.StatusUnauthorized, nil, "invalid credentials")
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	user.Password = hashed
	user.UpdatedAt = h.now()
	if err := h.Users.Update(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}

	respond(ctx, w, http.StatusOK, nil, "password changed")
}

// Me handles GET /api/v1/users/me requests.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	user, err := h.Users.FindByID(ctx, viewer)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, userResponse(user), "current user")
}

// UpdateProfile handles PATCH /api/v1/users/me requests. Only fullName and
// email are mutable here.
func (h UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		badRequest(ctx, w, "invalid request body")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.FullName == "" && req.Email == "" {
		badRequest(ctx, w, "nothing to update")
		return
	}

	user, err := h.Users.FindByID(ctx, viewer)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			badRequest(ctx, w, "invalid email address")
			return
		}
		if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
			respond(ctx, w, http.StatusConflict, nil, "email already in use")
			return
		} else if !errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, err)
			return
		}
		user.Email = req.Email
	}
	user.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, userResponse(user), "profile updated")
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string, apply func(*models.User, storage.Object) string) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(ctx, w, "invalid multipart body")
		return
	}

	object, uploaded, err := uploadFormFile(ctx, r, h.Media, field)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !uploaded {
		badRequest(ctx, w, field+" file is required")
		return
	}

	user, err := h.Users.FindByID(ctx, viewer)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	previous := apply(&user, object)
	user.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}
	if previous != "" {
		if err := h.Media.Delete(ctx, previous); err != nil {
			logging.FromContext(ctx).Warn("delete replaced media", "object", previous, "error", err)
		}
	}

	respond(ctx, w, http.StatusOK, userResponse(user), field+" updated")
}

// UpdateAvatar handles PATCH /api/v1/users/me/avatar requests.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", func(user *models.User, object storage.Object) string {
		previous := user.AvatarObject
		user.AvatarURL, user.AvatarObject = object.URL, object.ID
		return previous
	})
}

// UpdateCover handles PATCH /api/v1/users/me/cover requests.
func (h UserHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "cover", func(user *models.User, object storage.Object) string {
		previous := user.CoverObject
		user.CoverURL, user.CoverObject = object.URL, object.ID
		return previous
	})
}

// Channel handles GET /api/v1/users/c/{handle} requests.
func (h UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handle := strings.TrimSpace(strings.ToLower(r.PathValue("handle")))
	if handle == "" {
		badRequest(ctx, w, "handle is required")
		return
	}

	profile, err := h.Views.ChannelProfile(ctx, middleware.ViewerID(ctx), handle)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, profile, "channel profile")
}

// WatchHistory handles GET /api/v1/users/history requests.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	page, err := h.Views.WatchHistory(ctx, viewer, pageQuery(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, page, "watch history")
}

func setSessionCookies(w http.ResponseWriter, tokens models.SessionTokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		Path:     "/",
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
