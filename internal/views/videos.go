package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
)

// FeedFilter narrows and orders the public video feed.
type FeedFilter struct {
	OwnerID string
	Query   string
	SortBy  string
	SortAsc bool
}

// VideoFeed lists published videos with their owners joined in. Unpublished
// videos never appear here regardless of who is asking.
func (e *Engine) VideoFeed(ctx context.Context, filter FeedFilter, page PageRequest) (Page[VideoSummary], error) {
	page = page.clamp()
	videos, total, err := e.videos.List(ctx, repositories.VideoListFilter{
		OwnerID:       filter.OwnerID,
		Query:         filter.Query,
		PublishedOnly: true,
		SortBy:        filter.SortBy,
		SortAsc:       filter.SortAsc,
		Page:          page.Page,
		Limit:         page.Limit,
	})
	if err != nil {
		return Page[VideoSummary]{}, fmt.Errorf("list videos: %w", err)
	}

	ownerIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := e.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return Page[VideoSummary]{}, err
	}

	items := make([]VideoSummary, 0, len(videos))
	for _, v := range videos {
		items = append(items, videoSummary(v, owners[v.OwnerID]))
	}
	return pageFrom(items, page, total), nil
}

// VideoDetail resolves a single video with its live like count, the
// viewer's like flag, and the owner presented as a channel. An unpublished
// video is visible to its owner only; everyone else gets ErrNotFound.
//
// Fetching a detail is also a watch event: the view counter is incremented
// and, for a signed-in viewer, the video is recorded in their watch
// history. The returned Views already includes the increment.
func (e *Engine) VideoDetail(ctx context.Context, viewerID, videoID string) (VideoDetail, error) {
	video, err := e.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return VideoDetail{}, ErrNotFound
		}
		return VideoDetail{}, fmt.Errorf("find video: %w", err)
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return VideoDetail{}, ErrNotFound
	}

	if err := e.videos.IncrementViews(ctx, video.ID); err != nil {
		return VideoDetail{}, fmt.Errorf("increment views: %w", err)
	}
	video.Views++
	if viewerID != "" {
		if err := e.users.AppendWatchHistory(ctx, viewerID, video.ID); err != nil {
			return VideoDetail{}, fmt.Errorf("record watch: %w", err)
		}
	}

	target := models.LikeTarget{Kind: models.LikeTargetVideo, ID: video.ID}
	likeCount, err := e.likes.CountByTarget(ctx, target)
	if err != nil {
		return VideoDetail{}, fmt.Errorf("count likes: %w", err)
	}
	isLiked := false
	if viewerID != "" {
		flags, err := e.likes.ActorFlags(ctx, viewerID, models.LikeTargetVideo, []string{video.ID})
		if err != nil {
			return VideoDetail{}, fmt.Errorf("resolve like flag: %w", err)
		}
		isLiked = flags[video.ID]
	}

	owner, err := e.channelSummary(ctx, viewerID, video.OwnerID)
	if err != nil {
		return VideoDetail{}, err
	}

	return VideoDetail{
		VideoSummary: videoSummary(video, owner.OwnerSummary),
		Owner:        owner,
		LikeCount:    likeCount,
		IsLiked:      isLiked,
	}, nil
}

func (e *Engine) channelSummary(ctx context.Context, viewerID, channelID string) (ChannelSummary, error) {
	user, err := e.users.FindByID(ctx, channelID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return ChannelSummary{}, fmt.Errorf("find channel: %w", err)
	}
	summary := ChannelSummary{OwnerSummary: ownerSummary(user)}

	count, err := e.subscriptions.CountSubscribers(ctx, channelID)
	if err != nil {
		return ChannelSummary{}, fmt.Errorf("count subscribers: %w", err)
	}
	summary.SubscriberCount = count

	if viewerID != "" {
		subscribed, err := e.subscriptions.IsSubscribed(ctx, viewerID, channelID)
		if err != nil {
			return ChannelSummary{}, fmt.Errorf("resolve subscription flag: %w", err)
		}
		summary.IsSubscribed = subscribed
	}
	return summary, nil
}

// LikedVideos lists the videos the actor has liked, most recent like first.
// Likes whose video has since been deleted are skipped.
func (e *Engine) LikedVideos(ctx context.Context, actorID string, page PageRequest) (Page[LikedVideo], error) {
	page = page.clamp()
	edges, total, err := e.likes.ListByActor(ctx, actorID, models.LikeTargetVideo, page.Page, page.Limit)
	if err != nil {
		return Page[LikedVideo]{}, fmt.Errorf("list likes: %w", err)
	}

	videoIDs := make([]string, 0, len(edges))
	for _, edge := range edges {
		videoIDs = append(videoIDs, edge.Target.ID)
	}
	videos, err := e.videos.FindByIDs(ctx, videoIDs)
	if err != nil {
		return Page[LikedVideo]{}, fmt.Errorf("join videos: %w", err)
	}

	ownerIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := e.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return Page[LikedVideo]{}, err
	}

	items := make([]LikedVideo, 0, len(edges))
	for _, edge := range edges {
		video, ok := videos[edge.Target.ID]
		if !ok {
			continue
		}
		items = append(items, LikedVideo{
			LikedAt: edge.CreatedAt,
			Video:   videoSummary(video, owners[video.OwnerID]),
		})
	}
	return pageFrom(items, page, total), nil
}

// WatchHistory lists the viewer's watched videos, most recently watched
// first. Each video appears once no matter how many times it was watched.
func (e *Engine) WatchHistory(ctx context.Context, userID string, page PageRequest) (Page[WatchedVideo], error) {
	page = page.clamp()
	entries, total, err := e.users.WatchHistory(ctx, userID, page.Page, page.Limit)
	if err != nil {
		return Page[WatchedVideo]{}, fmt.Errorf("list watch history: %w", err)
	}

	videoIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		videoIDs = append(videoIDs, entry.VideoID)
	}
	videos, err := e.videos.FindByIDs(ctx, videoIDs)
	if err != nil {
		return Page[WatchedVideo]{}, fmt.Errorf("join videos: %w", err)
	}

	ownerIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := e.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return Page[WatchedVideo]{}, err
	}

	items := make([]WatchedVideo, 0, len(entries))
	for _, entry := range entries {
		video, ok := videos[entry.VideoID]
		if !ok {
			continue
		}
		items = append(items, WatchedVideo{
			WatchedAt: entry.AddedAt,
			Video:     videoSummary(video, owners[video.OwnerID]),
		})
	}
	return pageFrom(items, page, total), nil
}
