package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
)

// ChannelProfile resolves a channel page by handle. Subscriber counts and
// the viewer's subscription flag are computed from the live edges.
func (e *Engine) ChannelProfile(ctx context.Context, viewerID, handle string) (ChannelProfile, error) {
	user, err := e.users.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ChannelProfile{}, ErrNotFound
		}
		return ChannelProfile{}, fmt.Errorf("find channel: %w", err)
	}

	subscribers, err := e.subscriptions.CountSubscribers(ctx, user.ID)
	if err != nil {
		return ChannelProfile{}, fmt.Errorf("count subscribers: %w", err)
	}
	subscribedTo, err := e.subscriptions.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return ChannelProfile{}, fmt.Errorf("count subscribed channels: %w", err)
	}
	isSubscribed := false
	if viewerID != "" {
		isSubscribed, err = e.subscriptions.IsSubscribed(ctx, viewerID, user.ID)
		if err != nil {
			return ChannelProfile{}, fmt.Errorf("resolve subscription flag: %w", err)
		}
	}

	return ChannelProfile{
		ID:                user.ID,
		Handle:            user.Handle,
		FullName:          user.FullName,
		Email:             user.Email,
		AvatarURL:         user.AvatarURL,
		CoverURL:          user.CoverURL,
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

// ChannelStats aggregates the dashboard figures for a channel, each one
// counted over the live rows at call time.
func (e *Engine) ChannelStats(ctx context.Context, channelID string) (ChannelStats, error) {
	if _, err := e.users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ChannelStats{}, ErrNotFound
		}
		return ChannelStats{}, fmt.Errorf("find channel: %w", err)
	}

	subscribers, err := e.subscriptions.CountSubscribers(ctx, channelID)
	if err != nil {
		return ChannelStats{}, fmt.Errorf("count subscribers: %w", err)
	}
	totalVideos, totalViews, err := e.videos.OwnerTotals(ctx, channelID)
	if err != nil {
		return ChannelStats{}, fmt.Errorf("total videos: %w", err)
	}
	totalLikes, err := e.likes.CountForVideoOwner(ctx, channelID)
	if err != nil {
		return ChannelStats{}, fmt.Errorf("total likes: %w", err)
	}

	return ChannelStats{
		TotalSubscribers: subscribers,
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalLikes:       totalLikes,
	}, nil
}

// ChannelVideos lists every video a channel owns, published or not, each
// with its live like count. This is the owner's dashboard listing.
func (e *Engine) ChannelVideos(ctx context.Context, channelID string, page PageRequest) (Page[ChannelVideo], error) {
	page = page.clamp()
	owner, err := e.users.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Page[ChannelVideo]{}, ErrNotFound
		}
		return Page[ChannelVideo]{}, fmt.Errorf("find channel: %w", err)
	}

	videos, total, err := e.videos.List(ctx, repositories.VideoListFilter{
		OwnerID: channelID,
		Page:    page.Page,
		Limit:   page.Limit,
	})
	if err != nil {
		return Page[ChannelVideo]{}, fmt.Errorf("list videos: %w", err)
	}

	videoIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
	}
	likeCounts, err := e.likes.CountByTargets(ctx, models.LikeTargetVideo, videoIDs)
	if err != nil {
		return Page[ChannelVideo]{}, fmt.Errorf("count likes: %w", err)
	}

	summary := ownerSummary(owner)
	items := make([]ChannelVideo, 0, len(videos))
	for _, v := range videos {
		items = append(items, ChannelVideo{
			VideoSummary: videoSummary(v, summary),
			LikeCount:    likeCounts[v.ID],
		})
	}
	return pageFrom(items, page, total), nil
}

// ChannelSubscribers lists who subscribes to a channel. Each subscriber is
// shown with their own live subscriber count.
func (e *Engine) ChannelSubscribers(ctx context.Context, channelID string, page PageRequest) (Page[ChannelSubscriber], error) {
	page = page.clamp()
	edges, total, err := e.subscriptions.ListSubscribers(ctx, channelID, page.Page, page.Limit)
	if err != nil {
		return Page[ChannelSubscriber]{}, fmt.Errorf("list subscribers: %w", err)
	}

	userIDs := make([]string, 0, len(edges))
	for _, edge := range edges {
		userIDs = append(userIDs, edge.SubscriberID)
	}
	users, err := e.ownerSummaries(ctx, userIDs)
	if err != nil {
		return Page[ChannelSubscriber]{}, err
	}
	counts, err := e.subscriptions.CountSubscribersBatch(ctx, userIDs)
	if err != nil {
		return Page[ChannelSubscriber]{}, fmt.Errorf("count subscribers: %w", err)
	}

	items := make([]ChannelSubscriber, 0, len(edges))
	for _, edge := range edges {
		items = append(items, ChannelSubscriber{
			User:            users[edge.SubscriberID],
			SubscriberCount: counts[edge.SubscriberID],
			SubscribedAt:    edge.CreatedAt,
		})
	}
	return pageFrom(items, page, total), nil
}

// SubscribedChannels lists the channels a user subscribes to, each with its
// live subscriber count.
func (e *Engine) SubscribedChannels(ctx context.Context, subscriberID string, page PageRequest) (Page[SubscribedChannel], error) {
	page = page.clamp()
	edges, total, err := e.subscriptions.ListSubscribedTo(ctx, subscriberID, page.Page, page.Limit)
	if err != nil {
		return Page[SubscribedChannel]{}, fmt.Errorf("list subscriptions: %w", err)
	}

	channelIDs := make([]string, 0, len(edges))
	for _, edge := range edges {
		channelIDs = append(channelIDs, edge.ChannelID)
	}
	channels, err := e.ownerSummaries(ctx, channelIDs)
	if err != nil {
		return Page[SubscribedChannel]{}, err
	}
	counts, err := e.subscriptions.CountSubscribersBatch(ctx, channelIDs)
	if err != nil {
		return Page[SubscribedChannel]{}, fmt.Errorf("count subscribers: %w", err)
	}

	items := make([]SubscribedChannel, 0, len(edges))
	for _, edge := range edges {
		items = append(items, SubscribedChannel{
			Channel:         channels[edge.ChannelID],
			SubscriberCount: counts[edge.ChannelID],
			SubscribedAt:    edge.CreatedAt,
		})
	}
	return pageFrom(items, page, total), nil
}
