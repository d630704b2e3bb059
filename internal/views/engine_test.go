package views

import (
	"context"
	"fmt"
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
		store.Likes(),
		store.Subscriptions(),
		store.Tweets(),
		store.Playlists(),
	)
	return engine, store
}

func seedUser(t *testing.T, store *repositories.MemoryStore, id, handle string) models.User {
	t.Helper()
	user := models.User{
		ID:        id,
		Handle:    handle,
		Email:     handle + "@example.com",
		FullName:  "User " + handle,
		CreatedAt: time.Now(),
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return user
}

func seedVideo(t *testing.T, store *repositories.MemoryStore, id, ownerID string, published bool, createdAt time.Time) models.Video {
	t.Helper()
	video := models.Video{
		ID:          id,
		OwnerID:     ownerID,
		Title:       "video " + id,
		Duration:    12.5,
		IsPublished: published,
		CreatedAt:   createdAt,
	}
	if err := store.CreateVideo(context.Background(), video); err != nil {
		t.Fatalf("seed video %s: %v", id, err)
	}
	return video
}

func TestVideoFeedPagination(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		seedVideo(t, store, fmt.Sprintf("v%02d", i), "owner", true, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := engine.VideoFeed(ctx, FeedFilter{}, PageRequest{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("VideoFeed: %v", err)
	}
	if page.TotalItems != 25 {
		t.Fatalf("totalItems = %d, want 25", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", page.TotalPages)
	}
	if len(page.Items) != 10 {
		t.Fatalf("len(items) = %d, want 10", len(page.Items))
	}
	// Newest first: page 2 holds v15 down to v06.
	if page.Items[0].ID != "v15" || page.Items[9].ID != "v06" {
		t.Fatalf("page 2 spans %s..%s, want v15..v06", page.Items[0].ID, page.Items[9].ID)
	}
	if page.Items[0].Owner.Handle != "alice" {
		t.Fatalf("owner handle = %q, want alice", page.Items[0].Owner.Handle)
	}
}

func TestVideoFeedClampsPageInputs(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedVideo(t, store, "v1", "owner", true, time.Now())

	page, err := engine.VideoFeed(ctx, FeedFilter{}, PageRequest{Page: -3, Limit: 0})
	if err != nil {
		t.Fatalf("VideoFeed: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("clamped page/limit = %d/%d, want 1/10", page.Page, page.Limit)
	}

	page, err = engine.VideoFeed(ctx, FeedFilter{}, PageRequest{Page: 1, Limit: 5000})
	if err != nil {
		t.Fatalf("VideoFeed: %v", err)
	}
	if page.Limit != 100 {
		t.Fatalf("limit = %d, want capped at 100", page.Limit)
	}
}

func TestVideoFeedExcludesUnpublished(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedVideo(t, store, "pub", "owner", true, time.Now())
	seedVideo(t, store, "draft", "owner", false, time.Now())

	page, err := engine.VideoFeed(ctx, FeedFilter{}, PageRequest{})
	if err != nil {
		t.Fatalf("VideoFeed: %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].ID != "pub" {
		t.Fatalf("feed = %+v, want only the published video", page.Items)
	}
}

func TestVideoDetailIncrementsViewsAndRecordsWatch(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedUser(t, store, "viewer", "bob")
	seedVideo(t, store, "v1", "owner", true, time.Now())

	detail, err := engine.VideoDetail(ctx, "viewer", "v1")
	if err != nil {
		t.Fatalf("VideoDetail: %v", err)
	}
	if detail.Views != 1 {
		t.Fatalf("views = %d, want 1 after first watch", detail.Views)
	}

	history, err := engine.WatchHistory(ctx, "viewer", PageRequest{})
	if err != nil {
		t.Fatalf("WatchHistory: %v", err)
	}
	if history.TotalItems != 1 || history.Items[0].Video.ID != "v1" {
		t.Fatalf("history = %+v, want single entry for v1", history.Items)
	}

	// Re-watching bumps views again but never duplicates the history entry.
	if _, err := engine.VideoDetail(ctx, "viewer", "v1"); err != nil {
		t.Fatalf("VideoDetail second watch: %v", err)
	}
	history, err = engine.WatchHistory(ctx, "viewer", PageRequest{})
	if err != nil {
		t.Fatalf("WatchHistory: %v", err)
	}
	if history.TotalItems != 1 {
		t.Fatalf("history totalItems = %d, want 1 after re-watch", history.TotalItems)
	}
	video, err := store.FindVideoByID(ctx, "v1")
	if err != nil {
		t.Fatalf("FindVideoByID: %v", err)
	}
	if video.Views != 2 {
		t.Fatalf("stored views = %d, want 2", video.Views)
	}
}

func TestVideoDetailUnpublishedVisibleToOwnerOnly(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedUser(t, store, "other", "bob")
	seedVideo(t, store, "draft", "owner", false, time.Now())

	if _, err := engine.VideoDetail(ctx, "other", "draft"); err != ErrNotFound {
		t.Fatalf("non-owner err = %v, want ErrNotFound", err)
	}
	if _, err := engine.VideoDetail(ctx, "", "draft"); err != ErrNotFound {
		t.Fatalf("anonymous err = %v, want ErrNotFound", err)
	}
	detail, err := engine.VideoDetail(ctx, "owner", "draft")
	if err != nil {
		t.Fatalf("owner VideoDetail: %v", err)
	}
	if detail.ID != "draft" {
		t.Fatalf("detail id = %q, want draft", detail.ID)
	}
}

func TestVideoDetailLikeFiguresAreLive(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedUser(t, store, "a", "ann")
	seedUser(t, store, "b", "ben")
	seedVideo(t, store, "v1", "owner", true, time.Now())

	target := models.LikeTarget{Kind: models.LikeTargetVideo, ID: "v1"}
	for i, actor := range []string{"a", "b"} {
		like := models.Like{ID: fmt.Sprintf("l%d", i), LikedBy: actor, Target: target, CreatedAt: time.Now()}
		if err := store.CreateLike(ctx, like); err != nil {
			t.Fatalf("seed like: %v", err)
		}
	}

	detail, err := engine.VideoDetail(ctx, "a", "v1")
	if err != nil {
		t.Fatalf("VideoDetail: %v", err)
	}
	if detail.LikeCount != 2 || !detail.IsLiked {
		t.Fatalf("likeCount/isLiked = %d/%v, want 2/true", detail.LikeCount, detail.IsLiked)
	}

	// Deleting one edge is immediately visible to the next read.
	if err := store.DeleteLike(ctx, "l0"); err != nil {
		t.Fatalf("delete like: %v", err)
	}
	detail, err = engine.VideoDetail(ctx, "a", "v1")
	if err != nil {
		t.Fatalf("VideoDetail: %v", err)
	}
	if detail.LikeCount != 1 || detail.IsLiked {
		t.Fatalf("likeCount/isLiked = %d/%v, want 1/false after unlike", detail.LikeCount, detail.IsLiked)
	}
}

func TestVideoDetailAnonymousViewerFlagsFalse(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedVideo(t, store, "v1", "owner", true, time.Now())

	detail, err := engine.VideoDetail(ctx, "", "v1")
	if err != nil {
		t.Fatalf("VideoDetail: %v", err)
	}
	if detail.IsLiked || detail.Owner.IsSubscribed {
		t.Fatalf("anonymous viewer flags = %v/%v, want false/false", detail.IsLiked, detail.Owner.IsSubscribed)
	}
}

func TestVideoCommentsJoinsOwnersAndFlags(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedUser(t, store, "c1-owner", "ben")
	seedVideo(t, store, "v1", "owner", true, time.Now())

	base := time.Now()
	for i := 0; i < 3; i++ {
		comment := models.Comment{
			ID:        fmt.Sprintf("c%d", i),
			VideoID:   "v1",
			OwnerID:   "c1-owner",
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateComment(ctx, comment); err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}
	like := models.Like{
		ID:      "l1",
		LikedBy: "owner",
		Target:  models.LikeTarget{Kind: models.LikeTargetComment, ID: "c1"},
	}
	if err := store.CreateLike(ctx, like); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	page, err := engine.VideoComments(ctx, "owner", "v1", PageRequest{})
	if err != nil {
		t.Fatalf("VideoComments: %v", err)
	}
	if page.TotalItems != 3 {
		t.Fatalf("totalItems = %d, want 3", page.TotalItems)
	}
	if page.Items[0].ID != "c2" {
		t.Fatalf("first comment = %q, want newest (c2)", page.Items[0].ID)
	}
	for _, item := range page.Items {
		if item.Owner.Handle != "ben" {
			t.Fatalf("comment owner handle = %q, want ben", item.Owner.Handle)
		}
		wantLiked := item.ID == "c1"
		if item.IsLiked != wantLiked || item.LikeCount != boolToCount(wantLiked) {
			t.Fatalf("comment %s figures = %d/%v", item.ID, item.LikeCount, item.IsLiked)
		}
	}

	if _, err := engine.VideoComments(ctx, "", "missing", PageRequest{}); err != ErrNotFound {
		t.Fatalf("missing video err = %v, want ErrNotFound", err)
	}
}

func boolToCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestChannelProfile(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "chan", "alice")
	seedUser(t, store, "fan", "ben")
	seedUser(t, store, "idol", "cleo")

	subs := []models.Subscription{
		{ID: "s1", SubscriberID: "fan", ChannelID: "chan"},
		{ID: "s2", SubscriberID: "chan", ChannelID: "idol"},
	}
	for _, sub := range subs {
		if err := store.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("seed subscription: %v", err)
		}
	}

	profile, err := engine.ChannelProfile(ctx, "fan", "alice")
	if err != nil {
		t.Fatalf("ChannelProfile: %v", err)
	}
	if profile.SubscriberCount != 1 || profile.SubscribedToCount != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", profile.SubscriberCount, profile.SubscribedToCount)
	}
	if !profile.IsSubscribed {
		t.Fatal("viewer is a subscriber, want isSubscribed true")
	}

	profile, err = engine.ChannelProfile(ctx, "", "alice")
	if err != nil {
		t.Fatalf("ChannelProfile anonymous: %v", err)
	}
	if profile.IsSubscribed {
		t.Fatal("anonymous viewer, want isSubscribed false")
	}

	if _, err := engine.ChannelProfile(ctx, "", "nobody"); err != ErrNotFound {
		t.Fatalf("missing handle err = %v, want ErrNotFound", err)
	}
}

func TestChannelStats(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "chan", "alice")
	seedUser(t, store, "fan", "ben")

	v1 := seedVideo(t, store, "v1", "chan", true, time.Now())
	seedVideo(t, store, "v2", "chan", false, time.Now())
	for i := 0; i < 3; i++ {
		if err := store.IncrementViews(ctx, v1.ID); err != nil {
			t.Fatalf("increment views: %v", err)
		}
	}
	if err := store.CreateSubscription(ctx, models.Subscription{ID: "s1", SubscriberID: "fan", ChannelID: "chan"}); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	like := models.Like{ID: "l1", LikedBy: "fan", Target: models.LikeTarget{Kind: models.LikeTargetVideo, ID: "v1"}}
	if err := store.CreateLike(ctx, like); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	stats, err := engine.ChannelStats(ctx, "chan")
	if err != nil {
		t.Fatalf("ChannelStats: %v", err)
	}
	want := ChannelStats{TotalSubscribers: 1, TotalVideos: 2, TotalViews: 3, TotalLikes: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	if _, err := engine.ChannelStats(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("missing channel err = %v, want ErrNotFound", err)
	}
}

func TestChannelVideosIncludesUnpublished(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "chan", "alice")
	seedVideo(t, store, "pub", "chan", true, time.Now())
	seedVideo(t, store, "draft", "chan", false, time.Now().Add(time.Second))

	page, err := engine.ChannelVideos(ctx, "chan", PageRequest{})
	if err != nil {
		t.Fatalf("ChannelVideos: %v", err)
	}
	if page.TotalItems != 2 {
		t.Fatalf("totalItems = %d, want 2 (drafts included)", page.TotalItems)
	}
}

func TestLikedVideosSkipsDeleted(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedUser(t, store, "fan", "ben")
	seedVideo(t, store, "v1", "owner", true, time.Now())
	seedVideo(t, store, "v2", "owner", true, time.Now().Add(time.Second))

	likes := []models.Like{
		{ID: "l1", LikedBy: "fan", Target: models.LikeTarget{Kind: models.LikeTargetVideo, ID: "v1"}, CreatedAt: time.Now()},
		{ID: "l2", LikedBy: "fan", Target: models.LikeTarget{Kind: models.LikeTargetVideo, ID: "v2"}, CreatedAt: time.Now().Add(time.Second)},
	}
	for _, like := range likes {
		if err := store.CreateLike(ctx, like); err != nil {
			t.Fatalf("seed like: %v", err)
		}
	}

	page, err := engine.LikedVideos(ctx, "fan", PageRequest{})
	if err != nil {
		t.Fatalf("LikedVideos: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].Video.ID != "v2" {
		t.Fatalf("items = %+v, want v2 then v1", page.Items)
	}

	// A like whose video vanished out-of-band is skipped, not an error.
	if err := store.DeleteLikesByTarget(ctx, models.LikeTarget{Kind: models.LikeTargetVideo, ID: "v1"}); err != nil {
		t.Fatalf("delete likes: %v", err)
	}
	if err := store.CreateLike(ctx, models.Like{ID: "l3", LikedBy: "fan", Target: models.LikeTarget{Kind: models.LikeTargetVideo, ID: "gone"}}); err != nil {
		t.Fatalf("seed dangling like: %v", err)
	}
	page, err = engine.LikedVideos(ctx, "fan", PageRequest{})
	if err != nil {
		t.Fatalf("LikedVideos: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Video.ID != "v2" {
		t.Fatalf("items = %+v, want only v2", page.Items)
	}
}

func TestUserTweets(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedUser(t, store, "fan", "ben")

	base := time.Now()
	for i := 0; i < 2; i++ {
		tweet := models.Tweet{
			ID:        fmt.Sprintf("t%d", i),
			OwnerID:   "owner",
			Content:   fmt.Sprintf("tweet %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateTweet(ctx, tweet); err != nil {
			t.Fatalf("seed tweet: %v", err)
		}
	}
	like := models.Like{ID: "l1", LikedBy: "fan", Target: models.LikeTarget{Kind: models.LikeTargetTweet, ID: "t0"}}
	if err := store.CreateLike(ctx, like); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	page, err := engine.UserTweets(ctx, "fan", "owner", PageRequest{})
	if err != nil {
		t.Fatalf("UserTweets: %v", err)
	}
	if page.TotalItems != 2 || page.Items[0].ID != "t1" {
		t.Fatalf("page = %+v, want 2 tweets newest first", page.Items)
	}
	if !page.Items[1].IsLiked || page.Items[1].LikeCount != 1 {
		t.Fatalf("t0 figures = %d/%v, want 1/true", page.Items[1].LikeCount, page.Items[1].IsLiked)
	}

	if _, err := engine.UserTweets(ctx, "", "missing", PageRequest{}); err != ErrNotFound {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestPlaylistDetailFiltersUnpublishedMembers(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedVideo(t, store, "pub1", "owner", true, time.Now())
	seedVideo(t, store, "draft", "owner", false, time.Now())
	pub2 := seedVideo(t, store, "pub2", "owner", true, time.Now())
	for i := 0; i < 5; i++ {
		if err := store.IncrementViews(ctx, pub2.ID); err != nil {
			t.Fatalf("increment views: %v", err)
		}
	}

	playlist := models.Playlist{ID: "p1", OwnerID: "owner", Name: "mix"}
	if err := store.CreatePlaylist(ctx, playlist); err != nil {
		t.Fatalf("seed playlist: %v", err)
	}
	for _, videoID := range []string{"pub1", "draft", "pub2"} {
		if err := store.AddPlaylistVideo(ctx, "p1", videoID); err != nil {
			t.Fatalf("add playlist video: %v", err)
		}
	}

	detail, err := engine.PlaylistDetail(ctx, "p1")
	if err != nil {
		t.Fatalf("PlaylistDetail: %v", err)
	}
	if detail.TotalVideos != 2 || detail.TotalViews != 5 {
		t.Fatalf("totals = %d/%d, want 2/5", detail.TotalVideos, detail.TotalViews)
	}
	// Insertion order, draft filtered out.
	if len(detail.Videos) != 2 || detail.Videos[0].ID != "pub1" || detail.Videos[1].ID != "pub2" {
		t.Fatalf("videos = %+v, want pub1 then pub2", detail.Videos)
	}
	if detail.Owner.Handle != "alice" {
		t.Fatalf("owner handle = %q, want alice", detail.Owner.Handle)
	}

	if _, err := engine.PlaylistDetail(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("missing playlist err = %v, want ErrNotFound", err)
	}
}

func TestUserPlaylistsTotals(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "owner", "alice")
	seedVideo(t, store, "v1", "owner", true, time.Now())

	playlists := []models.Playlist{
		{ID: "p1", OwnerID: "owner", Name: "full", CreatedAt: time.Now()},
		{ID: "p2", OwnerID: "owner", Name: "empty", CreatedAt: time.Now().Add(time.Second)},
	}
	for _, p := range playlists {
		if err := store.CreatePlaylist(ctx, p); err != nil {
			t.Fatalf("seed playlist: %v", err)
		}
	}
	if err := store.AddPlaylistVideo(ctx, "p1", "v1"); err != nil {
		t.Fatalf("add playlist video: %v", err)
	}

	page, err := engine.UserPlaylists(ctx, "owner", PageRequest{})
	if err != nil {
		t.Fatalf("UserPlaylists: %v", err)
	}
	if page.TotalItems != 2 {
		t.Fatalf("totalItems = %d, want 2", page.TotalItems)
	}
	byName := map[string]PlaylistSummary{}
	for _, item := range page.Items {
		byName[item.Name] = item
	}
	if byName["full"].TotalVideos != 1 || byName["empty"].TotalVideos != 0 {
		t.Fatalf("per-playlist totals = %+v", byName)
	}
}

func TestChannelSubscribersAndSubscribedChannels(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	seedUser(t, store, "chan", "alice")
	seedUser(t, store, "fan1", "ben")
	seedUser(t, store, "fan2", "cleo")

	subs := []models.Subscription{
		{ID: "s1", SubscriberID: "fan1", ChannelID: "chan", CreatedAt: time.Now()},
		{ID: "s2", SubscriberID: "fan2", ChannelID: "chan", CreatedAt: time.Now().Add(time.Second)},
		{ID: "s3", SubscriberID: "fan2", ChannelID: "fan1", CreatedAt: time.Now()},
	}
	for _, sub := range subs {
		if err := store.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("seed subscription: %v", err)
		}
	}

	page, err := engine.ChannelSubscribers(ctx, "chan", PageRequest{})
	if err != nil {
		t.Fatalf("ChannelSubscribers: %v", err)
	}
	if page.TotalItems != 2 {
		t.Fatalf("totalItems = %d, want 2", page.TotalItems)
	}
	for _, item := range page.Items {
		// fan1 is itself subscribed to by fan2.
		want := 0
		if item.User.ID == "fan1" {
			want = 1
		}
		if item.SubscriberCount != want {
			t.Fatalf("subscriber %s own count = %d, want %d", item.User.ID, item.SubscriberCount, want)
		}
	}

	channels, err := engine.SubscribedChannels(ctx, "fan2", PageRequest{})
	if err != nil {
		t.Fatalf("SubscribedChannels: %v", err)
	}
	if channels.TotalItems != 2 {
		t.Fatalf("totalItems = %d, want 2", channels.TotalItems)
	}
	for _, item := range channels.Items {
		want := 1
		if item.Channel.ID == "chan" {
			want = 2
		}
		if item.SubscriberCount != want {
			t.Fatalf("channel %s count = %d, want %d", item.Channel.ID, item.SubscriberCount, want)
		}
	}
}
