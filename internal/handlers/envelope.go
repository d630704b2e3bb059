package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/streamtube/backend/internal/auth"
	"github.com/streamtube/backend/internal/interactions"
	"github.com/streamtube/backend/internal/logging"
	"github.com/streamtube/backend/internal/ownership"
	"github.com/streamtube/backend/internal/repositories"
	"github.com/streamtube/backend/internal/storage"
	"github.com/streamtube/backend/internal/views"
)

// envelope is the uniform response shape: every endpoint, success or
// failure, answers with the status code repeated in the body, the payload,
// and a human-readable message.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
}

func respond(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := envelope{StatusCode: status, Data: data, Message: message}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "message", message)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "message", message)
	}
}

// respondError maps domain errors onto the HTTP taxonomy. Unknown errors
// become opaque 500s; the detail stays in the log, not the body.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenMismatch):
		respond(ctx, w, http.StatusUnauthorized, nil, err.Error())
	case errors.Is(err, ownership.ErrForbidden):
		respond(ctx, w, http.StatusForbidden, nil, err.Error())
	case errors.Is(err, views.ErrNotFound),
		errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, interactions.ErrInvalidTarget):
		respond(ctx, w, http.StatusNotFound, nil, "resource not found")
	case errors.Is(err, repositories.ErrConflict):
		respond(ctx, w, http.StatusConflict, nil, "resource already exists")
	case errors.Is(err, interactions.ErrSelfSubscription):
		respond(ctx, w, http.StatusBadRequest, nil, err.Error())
	case errors.Is(err, storage.ErrUnavailable):
		logging.FromContext(ctx).Error("object store call failed", "error", err)
		respond(ctx, w, http.StatusBadGateway, nil, "media storage unavailable")
	default:
		logging.FromContext(ctx).Error("unhandled error", "error", err)
		respond(ctx, w, http.StatusInternalServerError, nil, "internal server error")
	}
}

func badRequest(ctx context.Context, w http.ResponseWriter, message string) {
	respond(ctx, w, http.StatusBadRequest, nil, message)
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pageQuery reads page/limit query parameters. Malformed or out-of-range
// values are clamped downstream, never rejected.
func pageQuery(r *http.Request) views.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return views.PageRequest{Page: page, Limit: limit}
}
