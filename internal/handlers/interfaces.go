package handlers

import (
	"context"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
	"github.com/streamtube/backend/internal/storage"
	"github.com/streamtube/backend/internal/views"
)

// SessionManager runs login, refresh rotation and logout for the auth
// handlers.
type SessionManager interface {
	Login(ctx context.Context, identifier, password string) (models.User, models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Logout(ctx context.Context, userID string) error
}

// ViewRenderer computes the read-side projections served by the handlers.
type ViewRenderer interface {
	VideoFeed(ctx context.Context, filter views.FeedFilter, page views.PageRequest) (views.Page[views.VideoSummary], error)
	VideoDetail(ctx context.Context, viewerID, videoID string) (views.VideoDetail, error)
	VideoComments(ctx context.Context, viewerID, videoID string, page views.PageRequest) (views.Page[views.CommentView], error)
	ChannelProfile(ctx context.Context, viewerID, handle string) (views.ChannelProfile, error)
	ChannelStats(ctx context.Context, channelID string) (views.ChannelStats, error)
	ChannelVideos(ctx context.Context, channelID string, page views.PageRequest) (views.Page[views.ChannelVideo], error)
	ChannelSubscribers(ctx context.Context, channelID string, page views.PageRequest) (views.Page[views.ChannelSubscriber], error)
	SubscribedChannels(ctx context.Context, subscriberID string, page views.PageRequest) (views.Page[views.SubscribedChannel], error)
	LikedVideos(ctx context.Context, actorID string, page views.PageRequest) (views.Page[views.LikedVideo], error)
	UserTweets(ctx context.Context, viewerID, ownerID string, page views.PageRequest) (views.Page[views.TweetView], error)
	PlaylistDetail(ctx context.Context, playlistID string) (views.PlaylistDetail, error)
	UserPlaylists(ctx context.Context, ownerID string, page views.PageRequest) (views.Page[views.PlaylistSummary], error)
	WatchHistory(ctx context.Context, userID string, page views.PageRequest) (views.Page[views.WatchedVideo], error)
}

// EdgeToggler flips like and subscription edges.
type EdgeToggler interface {
	ToggleLike(ctx context.Context, actorID string, target models.LikeTarget) (bool, error)
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// MediaStorage persists uploaded media files.
type MediaStorage interface {
	Upload(ctx context.Context, localPath string) (storage.Object, error)
	Delete(ctx context.Context, objectID string) error
}

// Dependencies aggregates collaborators required by the HTTP handlers.
type Dependencies struct {
	Users     repositories.UserRepository
	Videos    repositories.VideoRepository
	Comments  repositories.CommentRepository
	Tweets    repositories.TweetRepository
	Playlists repositories.PlaylistRepository

	Sessions SessionManager
	Views    ViewRenderer
	Toggles  EdgeToggler
	Media    MediaStorage

	AuthLimiter RateLimiter
}
