package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	users := UserHandler{Users: deps.Users, Sessions: deps.Sessions, Views: deps.Views, Media: deps.Media, Limiter: deps.AuthLimiter}
	videos := VideoHandler{Videos: deps.Videos, Views: deps.Views, Media: deps.Media}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, Views: deps.Views}
	likes := LikeHandler{Toggles: deps.Toggles, Views: deps.Views}
	subscriptions := SubscriptionHandler{Toggles: deps.Toggles, Views: deps.Views}
	tweets := TweetHandler{Tweets: deps.Tweets, Views: deps.Views}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos, Views: deps.Views}
	dashboard := DashboardHandler{Views: deps.Views}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/logout", users.Logout)
	mux.HandleFunc("POST /api/v1/users/refresh-token", users.Refresh)
	mux.HandleFunc("POST /api/v1/users/change-password", users.ChangePassword)
	mux.HandleFunc("GET /api/v1/users/me", users.Me)
	mux.HandleFunc("PATCH /api/v1/users/me", users.UpdateProfile)
	mux.HandleFunc("PATCH /api/v1/users/me/avatar", users.UpdateAvatar)
	mux.HandleFunc("PATCH /api/v1/users/me/cover", users.UpdateCover)
	mux.HandleFunc("GET /api/v1/users/c/{handle}", users.Channel)
	mux.HandleFunc("GET /api/v1/users/history", users.WatchHistory)

	mux.HandleFunc("GET /api/v1/videos", videos.Feed)
	mux.HandleFunc("POST /api/v1/videos", videos.Publish)
	mux.HandleFunc("GET /api/v1/videos/{id}", videos.Detail)
	mux.HandleFunc("PATCH /api/v1/videos/{id}", videos.Update)
	mux.HandleFunc("DELETE /api/v1/videos/{id}", videos.Delete)
	mux.HandleFunc("PATCH /api/v1/videos/{id}/publish", videos.TogglePublish)

	mux.HandleFunc("GET /api/v1/videos/{id}/comments", comments.List)
	mux.HandleFunc("POST /api/v1/videos/{id}/comments", comments.Create)
	mux.HandleFunc("PATCH /api/v1/comments/{id}", comments.Update)
	mux.HandleFunc("DELETE /api/v1/comments/{id}", comments.Delete)

	mux.HandleFunc("POST /api/v1/likes/videos/{id}", likes.ToggleVideo)
	mux.HandleFunc("POST /api/v1/likes/comments/{id}", likes.ToggleComment)
	mux.HandleFunc("POST /api/v1/likes/tweets/{id}", likes.ToggleTweet)
	mux.HandleFunc("GET /api/v1/likes/videos", likes.LikedVideos)

	mux.HandleFunc("POST /api/v1/subscriptions/{channelId}", subscriptions.Toggle)
	mux.HandleFunc("GET /api/v1/subscriptions", subscriptions.Subscribed)
	mux.HandleFunc("GET /api/v1/channels/{channelId}/subscribers", subscriptions.Subscribers)

	mux.HandleFunc("POST /api/v1/tweets", tweets.Create)
	mux.HandleFunc("GET /api/v1/users/{userId}/tweets", tweets.ListByUser)
	mux.HandleFunc("PATCH /api/v1/tweets/{id}", tweets.Update)
	mux.HandleFunc("DELETE /api/v1/tweets/{id}", tweets.Delete)

	mux.HandleFunc("POST /api/v1/playlists", playlists.Create)
	mux.HandleFunc("GET /api/v1/playlists/{id}", playlists.Detail)
	mux.HandleFunc("PATCH /api/v1/playlists/{id}", playlists.Update)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}", playlists.Delete)
	mux.HandleFunc("POST /api/v1/playlists/{id}/videos/{videoId}", playlists.AddVideo)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}/videos/{videoId}", playlists.RemoveVideo)
	mux.HandleFunc("GET /api/v1/users/{userId}/playlists", playlists.ListByUser)

	mux.HandleFunc("GET /api/v1/dashboard/stats", dashboard.Stats)
	mux.HandleFunc("GET /api/v1/dashboard/videos", dashboard.Videos)
}
