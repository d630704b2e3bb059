package handlers

import (
	"net/http"
)

// DashboardHandler implements the channel-owner dashboard endpoints.
type DashboardHandler struct {
	Views ViewRenderer
}

// Stats handles GET /api/v1/dashboard/stats requests: the viewer's own
// channel figures, every one computed at request time.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	stats, err := h.Views.ChannelStats(ctx, viewer)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, stats, "channel stats")
}

// Videos handles GET /api/v1/dashboard/videos requests: the viewer's own
// videos, drafts included, with live like counts.
func (h DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	page, err := h.Views.ChannelVideos(ctx, viewer, pageQuery(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, page, "channel videos")
}
