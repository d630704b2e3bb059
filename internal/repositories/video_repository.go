package repositories

import (
	"context"

	"github.com/streamtube/backend/internal/models"
)

// VideoListFilter selects and orders videos for feed-style queries.
// Query matches title or description case-insensitively. Zero-value
// SortBy falls back to creation time, newest first; ties are always
// broken by id so pages are stable.
type VideoListFilter struct {
	OwnerID       string
	Query         string
	PublishedOnly bool
	SortBy        string
	SortAsc       bool
	Page          int
	Limit         int
}

// Video sort keys accepted by VideoListFilter.SortBy.
const (
	VideoSortCreatedAt = "createdAt"
	VideoSortViews     = "views"
	VideoSortDuration  = "duration"
)

// VideoRepository exposes data access for videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	// Delete removes the video together with its comments and all likes
	// referencing the video or those comments, child records first.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter VideoListFilter) ([]models.Video, int, error)
	IncrementViews(ctx context.Context, id string) error
	// OwnerTotals reports the live video and view counts for a channel.
	OwnerTotals(ctx context.Context, ownerID string) (videos int, views int64, err error)
}
