package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamtube/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `TRUNCATE TABLE watch_history, playlist_videos, playlists,
        tweets, subscriptions, likes, comments, videos, users CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createAccount(t *testing.T, handle string) models.User {
	t.Helper()
	repo := NewPostgresUserRepository(testPool)
	user := models.User{
		ID:        uuid.NewString(),
		Handle:    handle,
		Email:     handle + "@example.com",
		FullName:  "User " + handle,
		Password:  "password-hash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createClip(t *testing.T, ownerID, title string, published bool) models.Video {
	t.Helper()
	repo := NewPostgresVideoRepository(testPool)
	now := time.Now().UTC()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Duration:    30,
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video: %v", err)
	}
	return video
}

func TestPostgresUserRepository_CreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createAccount(t, "alice")

	dup := user
	dup.ID = uuid.NewString()
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate handle err = %v, want ErrConflict", err)
	}

	fetched, err := repo.FindByHandle(ctx, "alice")
	if err != nil {
		t.Fatalf("find by handle: %v", err)
	}
	if fetched.ID != user.ID || fetched.Email != user.Email {
		t.Fatalf("fetched = %+v", fetched)
	}

	fetched.FullName = "Alice Renamed"
	fetched.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, fetched); err != nil {
		t.Fatalf("update user: %v", err)
	}
	fetched, err = repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.FullName != "Alice Renamed" {
		t.Fatalf("full name = %q", fetched.FullName)
	}

	if _, err := repo.FindByID(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestPostgresUserRepository_RefreshTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createAccount(t, "alice")

	if err := repo.SetRefreshToken(ctx, user.ID, "token-1"); err != nil {
		t.Fatalf("set refresh token: %v", err)
	}
	fetched, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if fetched.RefreshToken != "token-1" {
		t.Fatalf("refresh token = %q, want token-1", fetched.RefreshToken)
	}

	// Clearing stores NULL and reads back empty.
	if err := repo.SetRefreshToken(ctx, user.ID, ""); err != nil {
		t.Fatalf("clear refresh token: %v", err)
	}
	fetched, err = repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if fetched.RefreshToken != "" {
		t.Fatalf("refresh token = %q, want empty", fetched.RefreshToken)
	}

	if err := repo.SetRefreshToken(ctx, uuid.NewString(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestPostgresWatchHistorySetSemantics(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createAccount(t, "alice")
	video := createClip(t, user.ID, "clip", true)

	for i := 0; i < 3; i++ {
		if err := repo.AppendWatchHistory(ctx, user.ID, video.ID); err != nil {
			t.Fatalf("append watch history: %v", err)
		}
	}

	entries, total, err := repo.WatchHistory(ctx, user.ID, 1, 10)
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("history = %d entries (total %d), want exactly one", len(entries), total)
	}
	if entries[0].VideoID != video.ID {
		t.Fatalf("entry video = %q", entries[0].VideoID)
	}
}

func TestPostgresVideoRepository_ListFilterSortPage(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresVideoRepository(testPool)
	owner := createAccount(t, "alice")

	var clips []models.Video
	for i := 0; i < 5; i++ {
		clip := createClip(t, owner.ID, fmt.Sprintf("clip %d", i), i != 4)
		clips = append(clips, clip)
		// Distinct view counts for the views sort.
		for j := 0; j < i; j++ {
			if err := repo.IncrementViews(ctx, clip.ID); err != nil {
				t.Fatalf("increment views: %v", err)
			}
		}
	}

	published, total, err := repo.List(ctx, VideoListFilter{PublishedOnly: true, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if total != 4 || len(published) != 4 {
		t.Fatalf("published = %d (total %d), want 4", len(published), total)
	}

	byViews, _, err := repo.List(ctx, VideoListFilter{SortBy: VideoSortViews, Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list by views: %v", err)
	}
	if len(byViews) != 2 || byViews[0].Views < byViews[1].Views {
		t.Fatalf("views sort = %+v", byViews)
	}

	matched, _, err := repo.List(ctx, VideoListFilter{Query: "CLIP 2", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list by query: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != clips[2].ID {
		t.Fatalf("query match = %+v", matched)
	}

	videos, views, err := repo.OwnerTotals(ctx, owner.ID)
	if err != nil {
		t.Fatalf("owner totals: %v", err)
	}
	if videos != 5 || views != 10 {
		t.Fatalf("owner totals = %d/%d, want 5/10", videos, views)
	}
}

func TestPostgresLikeUniquenessAndCounts(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	likes := NewPostgresLikeRepository(testPool)
	owner := createAccount(t, "alice")
	fan := createAccount(t, "ben")
	video := createClip(t, owner.ID, "clip", true)

	target := models.LikeTarget{Kind: models.LikeTargetVideo, ID: video.ID}
	like := models.Like{ID: uuid.NewString(), LikedBy: fan.ID, Target: target, CreatedAt: time.Now().UTC()}
	if err := likes.Create(ctx, like); err != nil {
		t.Fatalf("create like: %v", err)
	}

	dup := like
	dup.ID = uuid.NewString()
	if err := likes.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate like err = %v, want ErrConflict", err)
	}

	count, err := likes.CountByTarget(ctx, target)
	if err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if count != 1 {
		t.Fatalf("like count = %d, want 1", count)
	}

	flags, err := likes.ActorFlags(ctx, fan.ID, models.LikeTargetVideo, []string{video.ID})
	if err != nil {
		t.Fatalf("actor flags: %v", err)
	}
	if !flags[video.ID] {
		t.Fatal("actor flag = false, want true")
	}

	ownerTotal, err := likes.CountForVideoOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("count for owner: %v", err)
	}
	if ownerTotal != 1 {
		t.Fatalf("owner like total = %d, want 1", ownerTotal)
	}
}

func TestPostgresVideoCascadeDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	videos := NewPostgresVideoRepository(testPool)
	comments := NewPostgresCommentRepository(testPool)
	likes := NewPostgresLikeRepository(testPool)
	users := NewPostgresUserRepository(testPool)
	playlists := NewPostgresPlaylistRepository(testPool)

	owner := createAccount(t, "alice")
	fan := createAccount(t, "ben")
	video := createClip(t, owner.ID, "clip", true)

	now := time.Now().UTC()
	comment := models.Comment{
		ID: uuid.NewString(), VideoID: video.ID, OwnerID: fan.ID,
		Content: "hi", CreatedAt: now, UpdatedAt: now,
	}
	if err := comments.Create(ctx, comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	for _, target := range []models.LikeTarget{
		{Kind: models.LikeTargetVideo, ID: video.ID},
		{Kind: models.LikeTargetComment, ID: comment.ID},
	} {
		like := models.Like{ID: uuid.NewString(), LikedBy: fan.ID, Target: target, CreatedAt: now}
		if err := likes.Create(ctx, like); err != nil {
			t.Fatalf("create like: %v", err)
		}
	}
	playlist := models.Playlist{ID: uuid.NewString(), OwnerID: fan.ID, Name: "mix", CreatedAt: now, UpdatedAt: now}
	if err := playlists.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	if err := playlists.AddVideo(ctx, playlist.ID, video.ID); err != nil {
		t.Fatalf("add playlist video: %v", err)
	}
	if err := users.AppendWatchHistory(ctx, fan.ID, video.ID); err != nil {
		t.Fatalf("append watch history: %v", err)
	}

	if err := videos.Delete(ctx, video.ID); err != nil {
		t.Fatalf("delete video: %v", err)
	}

	if _, err := videos.FindByID(ctx, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("video after delete err = %v, want ErrNotFound", err)
	}
	if _, err := comments.FindByID(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("comment after delete err = %v, want ErrNotFound", err)
	}
	count, err := likes.CountByTarget(ctx, models.LikeTarget{Kind: models.LikeTargetComment, ID: comment.ID})
	if err != nil {
		t.Fatalf("count comment likes: %v", err)
	}
	if count != 0 {
		t.Fatalf("comment likes after delete = %d, want 0", count)
	}
	ids, err := playlists.VideoIDs(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("playlist video ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("playlist refs after delete = %v, want none", ids)
	}
	_, total, err := users.WatchHistory(ctx, fan.ID, 1, 10)
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if total != 0 {
		t.Fatalf("watch history after delete = %d entries, want 0", total)
	}

	// The playlist itself survives.
	if _, err := playlists.FindByID(ctx, playlist.ID); err != nil {
		t.Fatalf("playlist after video delete: %v", err)
	}
}

func TestPostgresSubscriptionEdges(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	subs := NewPostgresSubscriptionRepository(testPool)
	channel := createAccount(t, "alice")
	fan := createAccount(t, "ben")

	sub := models.Subscription{
		ID: uuid.NewString(), SubscriberID: fan.ID, ChannelID: channel.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := subs.Create(ctx, sub); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	dup := sub
	dup.ID = uuid.NewString()
	if err := subs.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate subscription err = %v, want ErrConflict", err)
	}

	subscribed, err := subs.IsSubscribed(ctx, fan.ID, channel.ID)
	if err != nil {
		t.Fatalf("is subscribed: %v", err)
	}
	if !subscribed {
		t.Fatal("is subscribed = false, want true")
	}

	count, err := subs.CountSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("count subscribers: %v", err)
	}
	if count != 1 {
		t.Fatalf("subscriber count = %d, want 1", count)
	}

	if err := subs.Delete(ctx, sub.ID); err != nil {
		t.Fatalf("delete subscription: %v", err)
	}
	subscribed, err = subs.IsSubscribed(ctx, fan.ID, channel.ID)
	if err != nil {
		t.Fatalf("is subscribed: %v", err)
	}
	if subscribed {
		t.Fatal("is subscribed = true after delete, want false")
	}
}

func TestPostgresPlaylistOrderingAndIdempotentAdd(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	playlists := NewPostgresPlaylistRepository(testPool)
	owner := createAccount(t, "alice")
	first := createClip(t, owner.ID, "first", true)
	second := createClip(t, owner.ID, "second", true)

	now := time.Now().UTC()
	playlist := models.Playlist{ID: uuid.NewString(), OwnerID: owner.ID, Name: "mix", CreatedAt: now, UpdatedAt: now}
	if err := playlists.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	for _, videoID := range []string{first.ID, second.ID, first.ID} {
		if err := playlists.AddVideo(ctx, playlist.ID, videoID); err != nil {
			t.Fatalf("add video: %v", err)
		}
	}

	ids, err := playlists.VideoIDs(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("video ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != first.ID || ids[1] != second.ID {
		t.Fatalf("playlist order = %v, want [%s %s]", ids, first.ID, second.ID)
	}
}
