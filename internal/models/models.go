package models

import "time"

// User represents an account within the StreamTube platform. The password
// hash and refresh token are internal fields and must never be projected
// into API responses.
type User struct {
	ID           string
	Handle       string
	Email        string
	FullName     string
	AvatarURL    string
	AvatarObject string
	CoverURL     string
	CoverObject  string
	Password     string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Video is an uploaded video owned by a user. Views is a monotonic counter
// bumped on each detail fetch; every other number reported about a video
// (like counts and so on) is computed at read time, never stored.
type Video struct {
	ID              string
	OwnerID         string
	VideoURL        string
	VideoObject     string
	ThumbnailURL    string
	ThumbnailObject string
	Title           string
	Description     string
	Duration        float64
	Views           int64
	IsPublished     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Comment is a user's comment on a video. Its lifecycle is tied to the
// video: deleting the video removes its comments and their likes.
type Comment struct {
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikeTargetKind discriminates what a like points at.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

// LikeTarget is the tagged variant identifying exactly one likeable entity.
type LikeTarget struct {
	Kind LikeTargetKind
	ID   string
}

// Like is a pure existence edge: at most one per (actor, kind, target)
// triple, enforced by a unique index at the store. Presence means "liked".
type Like struct {
	ID        string
	LikedBy   string
	Target    LikeTarget
	CreatedAt time.Time
}

// Subscription is an existence edge from a subscriber to a channel (both
// users). At most one per (subscriber, channel) pair.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// Tweet is a short text update posted by a user.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Playlist is a named, ordered set of video references. Adding a video is
// idempotent; videos live independently of any playlist.
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WatchEntry records when a user first watched a video. The (user, video)
// pair is a set: re-watching does not produce a second entry.
type WatchEntry struct {
	UserID  string
	VideoID string
	AddedAt time.Time
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
