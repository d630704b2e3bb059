package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
)

// VideoComments lists a video's comments newest first, each with its owner
// and live like figures relative to the viewer.
func (e *Engine) VideoComments(ctx context.Context, viewerID, videoID string, page PageRequest) (Page[CommentView], error) {
	page = page.clamp()
	if _, err := e.videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Page[CommentView]{}, ErrNotFound
		}
		return Page[CommentView]{}, fmt.Errorf("find video: %w", err)
	}

	comments, total, err := e.comments.ListByVideo(ctx, videoID, page.Page, page.Limit)
	if err != nil {
		return Page[CommentView]{}, fmt.Errorf("list comments: %w", err)
	}

	ownerIDs := make([]string, 0, len(comments))
	commentIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		ownerIDs = append(ownerIDs, c.OwnerID)
		commentIDs = append(commentIDs, c.ID)
	}
	owners, err := e.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return Page[CommentView]{}, err
	}
	likeCounts, err := e.likes.CountByTargets(ctx, models.LikeTargetComment, commentIDs)
	if err != nil {
		return Page[CommentView]{}, fmt.Errorf("count likes: %w", err)
	}
	flags := map[string]bool{}
	if viewerID != "" {
		flags, err = e.likes.ActorFlags(ctx, viewerID, models.LikeTargetComment, commentIDs)
		if err != nil {
			return Page[CommentView]{}, fmt.Errorf("resolve like flags: %w", err)
		}
	}

	items := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		items = append(items, CommentView{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Owner:     owners[c.OwnerID],
			LikeCount: likeCounts[c.ID],
			IsLiked:   flags[c.ID],
		})
	}
	return pageFrom(items, page, total), nil
}

// UserTweets lists a user's tweets newest first with live like figures.
func (e *Engine) UserTweets(ctx context.Context, viewerID, ownerID string, page PageRequest) (Page[TweetView], error) {
	page = page.clamp()
	owner, err := e.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Page[TweetView]{}, ErrNotFound
		}
		return Page[TweetView]{}, fmt.Errorf("find user: %w", err)
	}

	tweets, total, err := e.tweets.ListByOwner(ctx, ownerID, page.Page, page.Limit)
	if err != nil {
		return Page[TweetView]{}, fmt.Errorf("list tweets: %w", err)
	}

	tweetIDs := make([]string, 0, len(tweets))
	for _, t := range tweets {
		tweetIDs = append(tweetIDs, t.ID)
	}
	likeCounts, err := e.likes.CountByTargets(ctx, models.LikeTargetTweet, tweetIDs)
	if err != nil {
		return Page[TweetView]{}, fmt.Errorf("count likes: %w", err)
	}
	flags := map[string]bool{}
	if viewerID != "" {
		flags, err = e.likes.ActorFlags(ctx, viewerID, models.LikeTargetTweet, tweetIDs)
		if err != nil {
			return Page[TweetView]{}, fmt.Errorf("resolve like flags: %w", err)
		}
	}

	summary := ownerSummary(owner)
	items := make([]TweetView, 0, len(tweets))
	for _, t := range tweets {
		items = append(items, TweetView{
			ID:        t.ID,
			Content:   t.Content,
			CreatedAt: t.CreatedAt,
			Owner:     summary,
			LikeCount: likeCounts[t.ID],
			IsLiked:   flags[t.ID],
		})
	}
	return pageFrom(items, page, total), nil
}

// playlistTotals resolves the published member videos of a playlist in
// insertion order and sums their views. Unpublished or deleted members are
// excluded from both the listing and the totals.
func (e *Engine) playlistMembers(ctx context.Context, playlistID string) ([]models.Video, int64, error) {
	ids, err := e.playlists.VideoIDs(ctx, playlistID)
	if err != nil {
		return nil, 0, fmt.Errorf("list playlist videos: %w", err)
	}
	videos, err := e.videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("join videos: %w", err)
	}

	members := make([]models.Video, 0, len(ids))
	var totalViews int64
	for _, id := range ids {
		video, ok := videos[id]
		if !ok || !video.IsPublished {
			continue
		}
		members = append(members, video)
		totalViews += video.Views
	}
	return members, totalViews, nil
}

// PlaylistDetail resolves a playlist page: its published member videos in
// insertion order, totals computed over those members, and the owner.
func (e *Engine) PlaylistDetail(ctx context.Context, playlistID string) (PlaylistDetail, error) {
	playlist, err := e.playlists.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return PlaylistDetail{}, ErrNotFound
		}
		return PlaylistDetail{}, fmt.Errorf("find playlist: %w", err)
	}

	members, totalViews, err := e.playlistMembers(ctx, playlist.ID)
	if err != nil {
		return PlaylistDetail{}, err
	}

	ownerIDs := make([]string, 0, len(members)+1)
	ownerIDs = append(ownerIDs, playlist.OwnerID)
	for _, v := range members {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := e.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return PlaylistDetail{}, err
	}

	videos := make([]VideoSummary, 0, len(members))
	for _, v := range members {
		videos = append(videos, videoSummary(v, owners[v.OwnerID]))
	}

	return PlaylistDetail{
		PlaylistSummary: PlaylistSummary{
			ID:          playlist.ID,
			Name:        playlist.Name,
			Description: playlist.Description,
			CreatedAt:   playlist.CreatedAt,
			UpdatedAt:   playlist.UpdatedAt,
			TotalVideos: len(members),
			TotalViews:  totalViews,
		},
		Owner:  owners[playlist.OwnerID],
		Videos: videos,
	}, nil
}

// UserPlaylists lists a user's playlists with per-playlist totals computed
// over their published member videos.
func (e *Engine) UserPlaylists(ctx context.Context, ownerID string, page PageRequest) (Page[PlaylistSummary], error) {
	page = page.clamp()
	playlists, total, err := e.playlists.ListByOwner(ctx, ownerID, page.Page, page.Limit)
	if err != nil {
		return Page[PlaylistSummary]{}, fmt.Errorf("list playlists: %w", err)
	}

	items := make([]PlaylistSummary, 0, len(playlists))
	for _, p := range playlists {
		members, totalViews, err := e.playlistMembers(ctx, p.ID)
		if err != nil {
			return Page[PlaylistSummary]{}, err
		}
		items = append(items, PlaylistSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
			TotalVideos: len(members),
			TotalViews:  totalViews,
		})
	}
	return pageFrom(items, page, total), nil
}
