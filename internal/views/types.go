package views

import "time"

// OwnerSummary is the public projection of a user embedded in other views.
// It never carries credentials or session material.
type OwnerSummary struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

// ChannelSummary extends an owner summary with viewer-relative channel
// fields, computed live from subscription edges.
type ChannelSummary struct {
	OwnerSummary
	SubscriberCount int  `json:"subscriberCount"`
	IsSubscribed    bool `json:"isSubscribed"`
}

// VideoSummary is the feed-level projection of a video.
type VideoSummary struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	VideoURL     string       `json:"videoUrl"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	Duration     float64      `json:"duration"`
	Views        int64        `json:"views"`
	IsPublished  bool         `json:"isPublished"`
	CreatedAt    time.Time    `json:"createdAt"`
	Owner        OwnerSummary `json:"owner"`
}

// VideoDetail is the watch-page projection: the summary plus live like
// figures and the owner's channel standing relative to the viewer.
type VideoDetail struct {
	VideoSummary
	Owner     ChannelSummary `json:"owner"`
	LikeCount int            `json:"likeCount"`
	IsLiked   bool           `json:"isLiked"`
}

// CommentView is one comment with its owner and live like figures.
type CommentView struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Owner     OwnerSummary `json:"owner"`
	LikeCount int          `json:"likeCount"`
	IsLiked   bool         `json:"isLiked"`
}

// ChannelProfile is a user's public channel page.
type ChannelProfile struct {
	ID                string `json:"id"`
	Handle            string `json:"handle"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatarUrl"`
	CoverURL          string `json:"coverUrl"`
	SubscriberCount   int    `json:"subscriberCount"`
	SubscribedToCount int    `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// ChannelStats aggregates a channel's dashboard numbers. Every figure is
// counted at query time; none is stored.
type ChannelStats struct {
	TotalSubscribers int   `json:"totalSubscribers"`
	TotalVideos      int   `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int   `json:"totalLikes"`
}

// ChannelVideo is a dashboard row: one of the channel's videos (published
// or not) with its live like count.
type ChannelVideo struct {
	VideoSummary
	LikeCount int `json:"likeCount"`
}

// LikedVideo is one entry of the viewer's liked-videos list.
type LikedVideo struct {
	LikedAt time.Time    `json:"likedAt"`
	Video   VideoSummary `json:"video"`
}

// TweetView is one tweet with its owner and live like figures.
type TweetView struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Owner     OwnerSummary `json:"owner"`
	LikeCount int          `json:"likeCount"`
	IsLiked   bool         `json:"isLiked"`
}

// PlaylistSummary is a playlist row with totals computed over its member
// videos.
type PlaylistSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	TotalVideos int       `json:"totalVideos"`
	TotalViews  int64     `json:"totalViews"`
}

// PlaylistDetail is the full playlist page: published member videos in
// insertion order plus the owner summary.
type PlaylistDetail struct {
	PlaylistSummary
	Owner  OwnerSummary   `json:"owner"`
	Videos []VideoSummary `json:"videos"`
}

// ChannelSubscriber is one subscriber of a channel with that subscriber's
// own live subscriber count.
type ChannelSubscriber struct {
	User            OwnerSummary `json:"user"`
	SubscriberCount int          `json:"subscriberCount"`
	SubscribedAt    time.Time    `json:"subscribedAt"`
}

// SubscribedChannel is one channel a user subscribes to.
type SubscribedChannel struct {
	Channel         OwnerSummary `json:"channel"`
	SubscriberCount int          `json:"subscriberCount"`
	SubscribedAt    time.Time    `json:"subscribedAt"`
}

// WatchedVideo is one entry of a user's watch history, in the order the
// history set recorded it (most recently added first).
type WatchedVideo struct {
	WatchedAt time.Time    `json:"watchedAt"`
	Video     VideoSummary `json:"video"`
}
