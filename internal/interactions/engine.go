// Package interactions manages the existence edges of the platform: likes
// and subscriptions. Both are pure toggles: each call flips the edge and
// reports the resulting state. There is no explicit set or unset.
package interactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
)

var (
	// ErrInvalidTarget indicates the referenced video/comment/tweet/channel
	// does not exist.
	ErrInvalidTarget = errors.New("toggle target does not exist")
	// ErrSelfSubscription indicates a user tried to subscribe to themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to own channel")
)

// Engine flips like and subscription edges. Correctness under concurrent
// toggles of the same pair rests on the store's composite uniqueness
// constraint: the losing creator gets ErrConflict and the edge is simply
// reported as present.
type Engine struct {
	users         repositories.UserRepository
	videos        repositories.VideoRepository
	comments      repositories.CommentRepository
	tweets        repositories.TweetRepository
	likes         repositories.LikeRepository
	subscriptions repositories.SubscriptionRepository

	nowFunc func() time.Time
}

// NewEngine constructs a toggle engine over the given repositories.
func NewEngine(
	users repositories.UserRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	tweets repositories.TweetRepository,
	likes repositories.LikeRepository,
	subscriptions repositories.SubscriptionRepository,
) *Engine {
	return &Engine{
		users:         users,
		videos:        videos,
		comments:      comments,
		tweets:        tweets,
		likes:         likes,
		subscriptions: subscriptions,
	}
}

func (e *Engine) now() time.Time {
	if e.nowFunc != nil {
		return e.nowFunc()
	}
	return time.Now().UTC()
}

func (e *Engine) targetExists(ctx context.Context, target models.LikeTarget) error {
	var err error
	switch target.Kind {
	case models.LikeTargetVideo:
		_, err = e.videos.FindByID(ctx, target.ID)
	case models.LikeTargetComment:
		_, err = e.comments.FindByID(ctx, target.ID)
	case models.LikeTargetTweet:
		_, err = e.tweets.FindByID(ctx, target.ID)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTarget, target.Kind)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrInvalidTarget, target.Kind, target.ID)
	}
	return err
}

// ToggleLike flips the actor's like edge for the target and reports the
// resulting state: true when the call created the edge (or lost a race with
// a creator, so the edge exists regardless), false when it removed one.
func (e *Engine) ToggleLike(ctx context.Context, actorID string, target models.LikeTarget) (bool, error) {
	if err := e.targetExists(ctx, target); err != nil {
		return false, err
	}

	existing, err := e.likes.Find(ctx, actorID, target)
	if err == nil {
		if err := e.likes.Delete(ctx, existing.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return false, fmt.Errorf("remove like: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("look up like: %w", err)
	}

	err = e.likes.Create(ctx, models.Like{
		ID:        uuid.NewString(),
		LikedBy:   actorID,
		Target:    target,
		CreatedAt: e.now(),
	})
	if errors.Is(err, repositories.ErrConflict) {
		// A concurrent toggle created the edge first; it exists either way.
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("create like: %w", err)
	}

	return true, nil
}

// ToggleSubscription flips the subscriber's edge to the channel and reports
// the resulting state. Subscribing to oneself is a domain error.
func (e *Engine) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == channelID {
		return false, ErrSelfSubscription
	}

	if _, err := e.users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, fmt.Errorf("%w: channel %s", ErrInvalidTarget, channelID)
		}
		return false, fmt.Errorf("look up channel: %w", err)
	}

	existing, err := e.subscriptions.Find(ctx, subscriberID, channelID)
	if err == nil {
		if err := e.subscriptions.Delete(ctx, existing.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return false, fmt.Errorf("remove subscription: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("look up subscription: %w", err)
	}

	err = e.subscriptions.Create(ctx, models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    e.now(),
	})
	if errors.Is(err, repositories.ErrConflict) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("create subscription: %w", err)
	}

	return true, nil
}
