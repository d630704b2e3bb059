package interactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streamtube/backend/internal/models"
	"github.com/streamtube/backend/internal/repositories"
)

func newTestEngine(t *testing.T) (*Engine, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	engine := NewEngine(
		store.Users(),
		store.Videos(),
		store.Comments(),
		store.Tweets(),
		store.Likes(),
		store.Subscriptions(),
	)
	return engine, store
}

func seedVideoTarget(t *testing.T, store *repositories.MemoryStore) models.LikeTarget {
	t.Helper()
	ctx := context.Background()
	if err := store.CreateUser(ctx, models.User{ID: "owner", Handle: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := store.CreateVideo(ctx, models.Video{ID: "v1", OwnerID: "owner", Title: "clip", IsPublished: true}); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return models.LikeTarget{Kind: models.LikeTargetVideo, ID: "v1"}
}

func TestToggleLikeAlternates(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	target := seedVideoTarget(t, store)

	for i, want := range []bool{true, false, true, false} {
		got, err := engine.ToggleLike(ctx, "actor", target)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("toggle %d = %v, want %v", i, got, want)
		}
		count, err := store.CountLikesByTarget(ctx, target)
		if err != nil {
			t.Fatalf("count likes: %v", err)
		}
		wantCount := 0
		if want {
			wantCount = 1
		}
		if count != wantCount {
			t.Fatalf("toggle %d left %d edges, want %d", i, count, wantCount)
		}
	}
}

func TestToggleLikeIndependentPerKind(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedVideoTarget(t, store)
	if err := store.CreateComment(ctx, models.Comment{ID: "v1", VideoID: "v1", OwnerID: "owner", Content: "hi"}); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	// Same target id under two kinds: liking one must not unlike the other.
	videoTarget := models.LikeTarget{Kind: models.LikeTargetVideo, ID: "v1"}
	commentTarget := models.LikeTarget{Kind: models.LikeTargetComment, ID: "v1"}
	if _, err := engine.ToggleLike(ctx, "actor", videoTarget); err != nil {
		t.Fatalf("toggle video like: %v", err)
	}
	liked, err := engine.ToggleLike(ctx, "actor", commentTarget)
	if err != nil {
		t.Fatalf("toggle comment like: %v", err)
	}
	if !liked {
		t.Fatal("comment toggle = false, want true (video like is a separate edge)")
	}
}

func TestToggleLikeInvalidTarget(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	cases := []models.LikeTarget{
		{Kind: models.LikeTargetVideo, ID: "missing"},
		{Kind: models.LikeTargetComment, ID: "missing"},
		{Kind: models.LikeTargetTweet, ID: "missing"},
		{Kind: "poll", ID: "x"},
	}
	for _, target := range cases {
		if _, err := engine.ToggleLike(ctx, "actor", target); !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("target %v err = %v, want ErrInvalidTarget", target, err)
		}
	}
}

func TestToggleLikeConflictMeansPresent(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	target := seedVideoTarget(t, store)

	// Simulate losing the create race: the edge appears between the lookup
	// and the insert. The conflicting insert must report the edge present.
	likes := conflictOnCreate{LikeRepository: store.Likes(), store: store}
	engine.likes = &likes

	present, err := engine.ToggleLike(ctx, "actor", target)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !present {
		t.Fatal("conflicting toggle = false, want true")
	}
}

type conflictOnCreate struct {
	repositories.LikeRepository
	store *repositories.MemoryStore
}

func (c *conflictOnCreate) Create(ctx context.Context, like models.Like) error {
	racing := like
	racing.ID = "raced-" + like.ID
	if err := c.store.CreateLike(ctx, racing); err != nil {
		return err
	}
	return c.LikeRepository.Create(ctx, like)
}

func TestToggleSubscriptionAlternates(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	if err := store.CreateUser(ctx, models.User{ID: "chan", Handle: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("seed channel: %v", err)
	}

	for i, want := range []bool{true, false, true} {
		got, err := engine.ToggleSubscription(ctx, "fan", "chan")
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("toggle %d = %v, want %v", i, got, want)
		}
	}
	subscribed, err := store.IsSubscribed(ctx, "fan", "chan")
	if err != nil {
		t.Fatalf("IsSubscribed: %v", err)
	}
	if !subscribed {
		t.Fatal("final state = unsubscribed, want subscribed")
	}
}

func TestToggleSubscriptionSelf(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	if err := store.CreateUser(ctx, models.User{ID: "chan", Handle: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("seed channel: %v", err)
	}

	if _, err := engine.ToggleSubscription(ctx, "chan", "chan"); !errors.Is(err, ErrSelfSubscription) {
		t.Fatalf("self subscription err = %v, want ErrSelfSubscription", err)
	}
}

func TestToggleSubscriptionMissingChannel(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.ToggleSubscription(context.Background(), "fan", "missing"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("missing channel err = %v, want ErrInvalidTarget", err)
	}
}

func TestToggleLikeStampsCreation(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	target := seedVideoTarget(t, store)

	frozen := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine.nowFunc = func() time.Time { return frozen }

	if _, err := engine.ToggleLike(ctx, "actor", target); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	like, err := store.FindLike(ctx, "actor", target)
	if err != nil {
		t.Fatalf("FindLike: %v", err)
	}
	if !like.CreatedAt.Equal(frozen) {
		t.Fatalf("createdAt = %v, want %v", like.CreatedAt, frozen)
	}
}
