package repositories

import (
	"context"

	"github.com/streamtube/backend/internal/models"
)

// LikeRepository manages like edges. Create must surface ErrConflict when
// the (actor, kind, target) triple already exists so concurrent togglers
// never produce duplicate edges.
type LikeRepository interface {
	Create(ctx context.Context, like models.Like) error
	Find(ctx context.Context, actorID string, target models.LikeTarget) (models.Like, error)
	Delete(ctx context.Context, id string) error
	DeleteByTarget(ctx context.Context, target models.LikeTarget) error
	CountByTarget(ctx context.Context, target models.LikeTarget) (int, error)
	// CountByTargets batch-counts likes for several targets of one kind.
	// Targets with no likes are simply absent from the result map.
	CountByTargets(ctx context.Context, kind models.LikeTargetKind, targetIDs []string) (map[string]int, error)
	// ActorFlags reports which of the given targets the actor has liked.
	ActorFlags(ctx context.Context, actorID string, kind models.LikeTargetKind, targetIDs []string) (map[string]bool, error)
	// ListByActor pages through an actor's likes of one kind, newest first.
	ListByActor(ctx context.Context, actorID string, kind models.LikeTargetKind, page, limit int) ([]models.Like, int, error)
	// CountForVideoOwner counts likes across all videos owned by a channel.
	CountForVideoOwner(ctx context.Context, ownerID string) (int, error)
}

// SubscriptionRepository manages subscriber→channel edges with the same
// uniqueness discipline as likes.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub models.Subscription) error
	Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error)
	Delete(ctx context.Context, id string) error
	CountSubscribers(ctx context.Context, channelID string) (int, error)
	CountSubscribersBatch(ctx context.Context, channelIDs []string) (map[string]int, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string, page, limit int) ([]models.Subscription, int, error)
	ListSubscribedTo(ctx context.Context, subscriberID string, page, limit int) ([]models.Subscription, int, error)
}
