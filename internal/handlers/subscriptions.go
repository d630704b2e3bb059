package handlers

import (
	"net/http"
)

// SubscriptionHandler implements the subscription endpoints.
type SubscriptionHandler struct {
	Toggles EdgeToggler
	Views   ViewRenderer
}

// Toggle handles POST /api/v1/subscriptions/{channelId} requests.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	subscribed, err := h.Toggles.ToggleSubscription(ctx, viewer, r.PathValue("channelId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	payload := struct {
		Subscribed bool `json:"subscribed"`
	}{subscribed}
	respond(ctx, w, http.StatusOK, payload, "subscription toggled")
}

// Subscribers handles GET /api/v1/channels/{channelId}/subscribers requests.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.Views.ChannelSubscribers(ctx, r.PathValue("channelId"), pageQuery(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, page, "channel subscribers")
}

// Subscribed handles GET /api/v1/subscriptions requests: the channels the
// viewer subscribes to.
func (h SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(ctx, w)
	if !ok {
		return
	}

	page, err := h.Views.SubscribedChannels(ctx, viewer, pageQuery(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respond(ctx, w, http.StatusOK, page, "subscribed channels")
}
