package handlers

import (
	"net/http"

	"github.com/streamtube/backend/internal/models"
)

// LikeHandler implements the like-toggle and liked-videos endpoints.
type LikeHandler struct {
	Toggles EdgeToggler
	Views   ViewRenderer
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind models.LikeTargetKind) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	target := models.LikeTarget{Kind: kind, ID: r.PathValue("id")}
	liked, err := h.Toggles.ToggleLike(ctx, viewer, target)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	payload := struct {
		Liked bool `json:"liked"`
	}{liked}
	respond(ctx, w, http.StatusOK, payload, "like toggled")
}

// ToggleVideo handles POST /api/v1/likes/videos/{id} requests.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo)
}

// ToggleComment handles POST /api/v1/likes/comments/{id} requests.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment)
}

// ToggleTweet handles POST /api/v1/likes/tweets/{id} requests.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet)
}

// LikedVideos handles GET /api/v1/likes/videos requests.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	page, err := h.Views.LikedVideos(ctx, viewer, pageQuery(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, page, "liked videos")
}
