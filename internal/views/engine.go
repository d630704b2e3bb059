// Package views computes viewer-relative, joined, paginated projections of
// the entity graph. No derived number or flag it reports is ever persisted:
// like counts, subscriber counts and is-liked/is-subscribed flags are
// recomputed from the live edges on every request.
//
// Every view follows the same pipeline: filter the base documents, join
// foreign refs into embedded summaries, derive counts and viewer flags,
// then shape, order and paginate. Joins are left-outer: a base document
// with no edges still appears, with zero counts and false flags. An absent
// viewer identity means every viewer flag is false, never an error.
package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
)

// ErrNotFound indicates the view's base entity does not exist.
var ErrNotFound = errors.New("resource not found")

// Engine builds the read-side projections.
type Engine struct {
	users         repositories.UserRepository
	videos        repositories.VideoRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	subscriptions repositories.SubscriptionRepository
	tweets        repositories.TweetRepository
	playlists     repositories.PlaylistRepository
}

// NewEngine constructs a view engine over the given repositories.
func NewEngine(
	users repositories.UserRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	subscriptions repositories.SubscriptionRepository,
	tweets repositories.TweetRepository,
	playlists repositories.PlaylistRepository,
) *Engine {
	return &Engine{
		users:         users,
		videos:        videos,
		comments:      comments,
		likes:         likes,
		subscriptions: subscriptions,
		tweets:        tweets,
		playlists:     playlists,
	}
}

func ownerSummary(user models.User) OwnerSummary {
	return OwnerSummary{
		ID:        user.ID,
		Handle:    user.Handle,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
}

// ownerSummaries batch-resolves user refs into owner summaries. Missing
// users are absent from the map; callers embed a zero summary in that case
// rather than failing the whole view.
func (e *Engine) ownerSummaries(ctx context.Context, ids []string) (map[string]OwnerSummary, error) {
	users, err := e.users.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("join owners: %w", err)
	}
	summaries := make(map[string]OwnerSummary, len(users))
	for id, user := range users {
		summaries[id] = ownerSummary(user)
	}
	return summaries, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func videoSummary(video models.Video, owner OwnerSummary) VideoSummary {
	return VideoSummary{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		IsPublished:  video.IsPublished,
		CreatedAt:    video.CreatedAt,
		Owner:        owner,
	}
}
