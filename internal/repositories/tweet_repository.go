package repositories

import (
	"context"

	"github.com/streamtube/backend/internal/models"
)

// TweetRepository defines data access for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	// Delete removes the tweet and any likes pointing at it.
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Tweet, int, error)
}

// PlaylistRepository defines data access for playlists and their video sets.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	// AddVideo is idempotent: adding a video already in the playlist is a no-op.
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	// VideoIDs returns the playlist's video references in insertion order.
	VideoIDs(ctx context.Context, playlistID string) ([]string, error)
	ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Playlist, int, error)
}
