package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamtube/backend/internal/logging"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/ownership"
	"github.com/streamtube/backend/internal/repositories"
	"github.com/streamtube/backend/internal/views"
)

// VideoHandler implements video publishing and watch-page endpoints.
type VideoHandler struct {
	Videos  repositories.VideoRepository
	Views   ViewRenderer
	Media   MediaStorage
	NowFunc func() time.Time
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

// videoPayload is the write-path projection of a video. Object store keys
// stay internal.
type videoPayload struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func videoResponse(video models.Video) videoPayload {
	return videoPayload{
		ID:           video.ID,
		OwnerID:      video.OwnerID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		IsPublished:  video.IsPublished,
		CreatedAt:    video.CreatedAt,
		UpdatedAt:    video.UpdatedAt,
	}
}

// Feed handles GET /api/v1/videos requests: the published feed with
// optional search, owner filter and sort controls.
func (h VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := views.FeedFilter{
		OwnerID: q.Get("ownerId"),
		Query:   q.Get("query"),
		SortBy:  q.Get("sortBy"),
		SortAsc: q.Get("sortOrder") == "asc",
	}

	page, err := h.Views.VideoFeed(ctx, filter, pageQuery(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, page, "video feed")
}

// Publish handles POST /api/v1/videos requests. The multipart body carries
// the video file, its thumbnail and the descriptive fields. New videos
// start published.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(ctx, w, "invalid multipart body")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		badRequest(ctx, w, "title is required")
		return
	}
	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	videoObject, uploaded, err := uploadFormFile(ctx, r, h.Media, "videoFile")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !uploaded {
		badRequest(ctx, w, "videoFile is required")
		return
	}
	thumbObject, uploaded, err := uploadFormFile(ctx, r, h.Media, "thumbnail")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if !uploaded {
		badRequest(ctx, w, "thumbnail is required")
		return
	}

	now := h.now()
	video := models.Video{
		ID:              uuid.NewString(),
		OwnerID:         viewer,
		Title:           title,
		Description:     strings.TrimSpace(r.FormValue("description")),
		VideoURL:        videoObject.URL,
		VideoObject:     videoObject.ID,
		ThumbnailURL:    thumbObject.URL,
		ThumbnailObject: thumbObject.ID,
		Duration:        duration,
		IsPublished:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		respondError(ctx, w, err)
		return
	}

	logging.FromContext(ctx).Info("video published", "videoId", video.ID, "ownerId", viewer)
	respond(ctx, w, http.StatusCreated, videoResponse(video), "video published")
}

// Detail handles GET /api/v1/videos/{id} requests. Fetching counts as a
// watch: views are bumped and signed-in viewers get a history entry.
func (h VideoHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	detail, err := h.Views.VideoDetail(ctx, middleware.ViewerID(ctx), r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, detail, "video detail")
}

func (h VideoHandler) ownedVideo(w http.ResponseWriter, r *http.Request) (models.Video, string, bool) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return models.Video{}, "", false
	}

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err)
		return models.Video{}, "", false
	}
	if err := ownership.Assert(video.OwnerID, viewer); err != nil {
		respondError(ctx, w, err)
		return models.Video{}, "", false
	}
	return video, viewer, true
}

// Update handles PATCH /api/v1/videos/{id} requests. Title, description and
// the thumbnail are mutable; the video file itself is not.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	video, _, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	var replacedThumb string
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			badRequest(ctx, w, "invalid multipart body")
			return
		}
		if title := strings.TrimSpace(r.FormValue("title")); title != "" {
			video.Title = title
		}
		if description := strings.TrimSpace(r.FormValue("description")); description != "" {
			video.Description = description
		}
		object, uploaded, err := uploadFormFile(ctx, r, h.Media, "thumbnail")
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		if uploaded {
			replacedThumb = video.ThumbnailObject
			video.ThumbnailURL, video.ThumbnailObject = object.URL, object.ID
		}
	} else {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := decodeBody(r, &req); err != nil {
			badRequest(ctx, w, "invalid request body")
			return
		}
		if title := strings.TrimSpace(req.Title); title != "" {
			video.Title = title
		}
		if description := strings.TrimSpace(req.Description); description != "" {
			video.Description = description
		}
	}
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err)
		return
	}
	if replacedThumb != "" {
		if err := h.Media.Delete(ctx, replacedThumb); err != nil {
			logging.FromContext(ctx).Warn("delete replaced media", "object", replacedThumb, "error", err)
		}
	}
	respond(ctx, w, http.StatusOK, videoResponse(video), "video updated")
}

// Delete handles DELETE /api/v1/videos/{id} requests. The store removes the
// video's comments, likes, playlist and history references with it; the
// media objects go afterwards, best effort.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	video, _, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, err)
		return
	}

	for _, object := range []string{video.VideoObject, video.ThumbnailObject} {
		if object == "" {
			continue
		}
		if err := h.Media.Delete(ctx, object); err != nil {
			logging.FromContext(ctx).Warn("delete media", "object", object, "error", err)
		}
	}

	logging.FromContext(ctx).Info("video deleted", "videoId", video.ID)
	respond(ctx, w, http.StatusOK, nil, "video deleted")
}

// TogglePublish handles PATCH /api/v1/videos/{id}/publish requests and
// flips the video's published state.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	video, _, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = h.now()
	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err)
		return
	}

	payload := struct {
		ID          string `json:"id"`
		IsPublished bool   `json:"isPublished"`
	}{video.ID, video.IsPublished}
	respond(ctx, w, http.StatusOK, payload, "publish state toggled")
}
