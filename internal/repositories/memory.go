package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/streamtube/backend/internal/models"
)

// MemoryStore implements every repository interface with in-memory maps.
// It exists for tests and local development; the semantics (uniqueness,
// cascades, ordering, pagination) mirror the PostgreSQL implementations.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]models.User
	videos        map[string]models.Video
	comments      map[string]models.Comment
	likes         map[string]models.Like
	subscriptions map[string]models.Subscription
	tweets        map[string]models.Tweet
	playlists     map[string]models.Playlist
	playlistVids  map[string][]playlistMember
	watchHistory  map[string][]models.WatchEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]models.User),
		videos:        make(map[string]models.Video),
		comments:      make(map[string]models.Comment),
		likes:         make(map[string]models.Like),
		subscriptions: make(map[string]models.Subscription),
		tweets:        make(map[string]models.Tweet),
		playlists:     make(map[string]models.Playlist),
		playlistVids:  make(map[string][]playlistMember),
		watchHistory:  make(map[string][]models.WatchEntry),
	}
}

type playlistMember struct {
	videoID string
	addedAt time.Time
}

func pageOf[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// --- users ---

// CreateUser implements UserRepository.Create. Handle and email are unique.
func (s *MemoryStore) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Handle == user.Handle || existing.Email == user.Email {
			return ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) findUser(match func(models.User) bool) (models.User, error) {
	for _, user := range s.users {
		if match(user) {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

// FindUserByID implements UserRepository.FindByID.
func (s *MemoryStore) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// FindUsersByIDs implements UserRepository.FindByIDs.
func (s *MemoryStore) FindUsersByIDs(_ context.Context, ids []string) (map[string]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users[id] = user
		}
	}
	return users, nil
}

// FindUserByHandle implements UserRepository.FindByHandle.
func (s *MemoryStore) FindUserByHandle(_ context.Context, handle string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u models.User) bool { return u.Handle == handle })
}

// FindUserByEmail implements UserRepository.FindByEmail.
func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

// UpdateUser implements UserRepository.Update.
func (s *MemoryStore) UpdateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	user.RefreshToken = existing.RefreshToken
	s.users[user.ID] = user
	return nil
}

// SetRefreshToken implements UserRepository.SetRefreshToken.
func (s *MemoryStore) SetRefreshToken(_ context.Context, userID, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.RefreshToken = refreshToken
	s.users[userID] = user
	return nil
}

// AppendWatchHistory implements UserRepository.AppendWatchHistory with set
// semantics: a re-watch is a no-op.
func (s *MemoryStore) AppendWatchHistory(_ context.Context, userID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return ErrNotFound
	}
	for _, entry := range s.watchHistory[userID] {
		if entry.VideoID == videoID {
			return nil
		}
	}
	s.watchHistory[userID] = append(s.watchHistory[userID], models.WatchEntry{
		UserID:  userID,
		VideoID: videoID,
		AddedAt: time.Now().UTC(),
	})
	return nil
}

// WatchHistory implements UserRepository.WatchHistory, most recent first.
func (s *MemoryStore) WatchHistory(_ context.Context, userID string, page, limit int) ([]models.WatchEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.watchHistory[userID]
	ordered := make([]models.WatchEntry, len(history))
	for i, entry := range history {
		ordered[len(history)-1-i] = entry
	}
	return pageOf(ordered, page, limit), len(ordered), nil
}

// --- videos ---

// CreateVideo implements VideoRepository.Create.
func (s *MemoryStore) CreateVideo(_ context.Context, video models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[video.OwnerID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.videos[video.ID]; ok {
		return ErrConflict
	}
	s.videos[video.ID] = video
	return nil
}

// FindVideoByID implements VideoRepository.FindByID.
func (s *MemoryStore) FindVideoByID(_ context.Context, id string) (models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, ErrNotFound
	}
	return video, nil
}

// FindVideosByIDs implements VideoRepository.FindByIDs.
func (s *MemoryStore) FindVideosByIDs(_ context.Context, ids []string) (map[string]models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	videos := make(map[string]models.Video, len(ids))
	for _, id := range ids {
		if video, ok := s.videos[id]; ok {
			videos[id] = video
		}
	}
	return videos, nil
}

// UpdateVideo implements VideoRepository.Update. The owner ref is immutable.
func (s *MemoryStore) UpdateVideo(_ context.Context, video models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.videos[video.ID]
	if !ok {
		return ErrNotFound
	}
	video.OwnerID = existing.OwnerID
	video.Views = existing.Views
	s.videos[video.ID] = video
	return nil
}

// DeleteVideo implements VideoRepository.Delete with the full cascade:
// comments, likes on the video and its comments, playlist and watch
// history references.
func (s *MemoryStore) DeleteVideo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return ErrNotFound
	}

	commentIDs := make(map[string]bool)
	for cid, comment := range s.comments {
		if comment.VideoID == id {
			commentIDs[cid] = true
			delete(s.comments, cid)
		}
	}
	for lid, like := range s.likes {
		switch like.Target.Kind {
		case models.LikeTargetVideo:
			if like.Target.ID == id {
				delete(s.likes, lid)
			}
		case models.LikeTargetComment:
			if commentIDs[like.Target.ID] {
				delete(s.likes, lid)
			}
		}
	}
	for pid, members := range s.playlistVids {
		kept := members[:0]
		for _, m := range members {
			if m.videoID != id {
				kept = append(kept, m)
			}
		}
		s.playlistVids[pid] = kept
	}
	for uid, history := range s.watchHistory {
		kept := history[:0]
		for _, entry := range history {
			if entry.VideoID != id {
				kept = append(kept, entry)
			}
		}
		s.watchHistory[uid] = kept
	}

	delete(s.videos, id)
	return nil
}

// ListVideos implements VideoRepository.List with the same filter, ordering
// and pagination semantics as the SQL implementation.
func (s *MemoryStore) ListVideos(_ context.Context, filter VideoListFilter) ([]models.Video, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Video
	query := strings.ToLower(filter.Query)
	for _, video := range s.videos {
		if filter.PublishedOnly && !video.IsPublished {
			continue
		}
		if filter.OwnerID != "" && video.OwnerID != filter.OwnerID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(video.Title), query) &&
			!strings.Contains(strings.ToLower(video.Description), query) {
			continue
		}
		matched = append(matched, video)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less, equal bool
		switch filter.SortBy {
		case VideoSortViews:
			less, equal = a.Views < b.Views, a.Views == b.Views
		case VideoSortDuration:
			less, equal = a.Duration < b.Duration, a.Duration == b.Duration
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.ID > b.ID
		}
		if filter.SortAsc {
			return less
		}
		return !less
	})

	return pageOf(matched, filter.Page, filter.Limit), len(matched), nil
}

// IncrementViews implements VideoRepository.IncrementViews.
func (s *MemoryStore) IncrementViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return nil
}

// OwnerTotals implements VideoRepository.OwnerTotals.
func (s *MemoryStore) OwnerTotals(_ context.Context, ownerID string) (int, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	var views int64
	for _, video := range s.videos {
		if video.OwnerID == ownerID {
			count++
			views += video.Views
		}
	}
	return count, views, nil
}

// --- comments ---

// CreateComment implements CommentRepository.Create.
func (s *MemoryStore) CreateComment(_ context.Context, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[comment.VideoID]; !ok {
		return ErrNotFound
	}
	s.comments[comment.ID] = comment
	return nil
}

// FindCommentByID implements CommentRepository.FindByID.
func (s *MemoryStore) FindCommentByID(_ context.Context, id string) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, ErrNotFound
	}
	return comment, nil
}

// UpdateComment implements CommentRepository.Update.
func (s *MemoryStore) UpdateComment(_ context.Context, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.comments[comment.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Content = comment.Content
	existing.UpdatedAt = comment.UpdatedAt
	s.comments[comment.ID] = existing
	return nil
}

// DeleteComment implements CommentRepository.Delete, removing likes on the
// comment as well.
func (s *MemoryStore) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	for lid, like := range s.likes {
		if like.Target.Kind == models.LikeTargetComment && like.Target.ID == id {
			delete(s.likes, lid)
		}
	}
	delete(s.comments, id)
	return nil
}

// ListCommentsByVideo implements CommentRepository.ListByVideo.
func (s *MemoryStore) ListCommentsByVideo(_ context.Context, videoID string, page, limit int) ([]models.Comment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Comment
	for _, comment := range s.comments {
		if comment.VideoID == videoID {
			matched = append(matched, comment)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page, limit), len(matched), nil
}

// --- likes ---

// CreateLike implements LikeRepository.Create with the composite uniqueness
// constraint.
func (s *MemoryStore) CreateLike(_ context.Context, like models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.likes {
		if existing.LikedBy == like.LikedBy && existing.Target == like.Target {
			return ErrConflict
		}
	}
	s.likes[like.ID] = like
	return nil
}

// FindLike implements LikeRepository.Find.
func (s *MemoryStore) FindLike(_ context.Context, actorID string, target models.LikeTarget) (models.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, like := range s.likes {
		if like.LikedBy == actorID && like.Target == target {
			return like, nil
		}
	}
	return models.Like{}, ErrNotFound
}

// DeleteLike implements LikeRepository.Delete.
func (s *MemoryStore) DeleteLike(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.likes[id]; !ok {
		return ErrNotFound
	}
	delete(s.likes, id)
	return nil
}

// DeleteLikesByTarget implements LikeRepository.DeleteByTarget.
func (s *MemoryStore) DeleteLikesByTarget(_ context.Context, target models.LikeTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, like := range s.likes {
		if like.Target == target {
			delete(s.likes, id)
		}
	}
	return nil
}

// CountLikesByTarget implements LikeRepository.CountByTarget.
func (s *MemoryStore) CountLikesByTarget(_ context.Context, target models.LikeTarget) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, like := range s.likes {
		if like.Target == target {
			count++
		}
	}
	return count, nil
}

// CountLikesByTargets implements LikeRepository.CountByTargets.
func (s *MemoryStore) CountLikesByTargets(_ context.Context, kind models.LikeTargetKind, targetIDs []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		wanted[id] = true
	}
	counts := make(map[string]int, len(targetIDs))
	for _, like := range s.likes {
		if like.Target.Kind == kind && wanted[like.Target.ID] {
			counts[like.Target.ID]++
		}
	}
	return counts, nil
}

// LikeActorFlags implements LikeRepository.ActorFlags.
func (s *MemoryStore) LikeActorFlags(_ context.Context, actorID string, kind models.LikeTargetKind, targetIDs []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flags := make(map[string]bool, len(targetIDs))
	if actorID == "" {
		return flags, nil
	}
	wanted := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		wanted[id] = true
	}
	for _, like := range s.likes {
		if like.LikedBy == actorID && like.Target.Kind == kind && wanted[like.Target.ID] {
			flags[like.Target.ID] = true
		}
	}
	return flags, nil
}

// ListLikesByActor implements LikeRepository.ListByActor.
func (s *MemoryStore) ListLikesByActor(_ context.Context, actorID string, kind models.LikeTargetKind, page, limit int) ([]models.Like, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Like
	for _, like := range s.likes {
		if like.LikedBy == actorID && like.Target.Kind == kind {
			matched = append(matched, like)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page, limit), len(matched), nil
}

// CountLikesForVideoOwner implements LikeRepository.CountForVideoOwner.
func (s *MemoryStore) CountLikesForVideoOwner(_ context.Context, ownerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, like := range s.likes {
		if like.Target.Kind != models.LikeTargetVideo {
			continue
		}
		if video, ok := s.videos[like.Target.ID]; ok && video.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

// --- subscriptions ---

// CreateSubscription implements SubscriptionRepository.Create.
func (s *MemoryStore) CreateSubscription(_ context.Context, sub models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.subscriptions {
		if existing.SubscriberID == sub.SubscriberID && existing.ChannelID == sub.ChannelID {
			return ErrConflict
		}
	}
	s.subscriptions[sub.ID] = sub
	return nil
}

// FindSubscription implements SubscriptionRepository.Find.
func (s *MemoryStore) FindSubscription(_ context.Context, subscriberID, channelID string) (models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			return sub, nil
		}
	}
	return models.Subscription{}, ErrNotFound
}

// DeleteSubscription implements SubscriptionRepository.Delete.
func (s *MemoryStore) DeleteSubscription(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscriptions[id]; !ok {
		return ErrNotFound
	}
	delete(s.subscriptions, id)
	return nil
}

// CountSubscribers implements SubscriptionRepository.CountSubscribers.
func (s *MemoryStore) CountSubscribers(_ context.Context, channelID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

// CountSubscribersBatch implements SubscriptionRepository.CountSubscribersBatch.
func (s *MemoryStore) CountSubscribersBatch(_ context.Context, channelIDs []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]bool, len(channelIDs))
	for _, id := range channelIDs {
		wanted[id] = true
	}
	counts := make(map[string]int, len(channelIDs))
	for _, sub := range s.subscriptions {
		if wanted[sub.ChannelID] {
			counts[sub.ChannelID]++
		}
	}
	return counts, nil
}

// CountSubscribedTo implements SubscriptionRepository.CountSubscribedTo.
func (s *MemoryStore) CountSubscribedTo(_ context.Context, subscriberID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

// IsSubscribed implements SubscriptionRepository.IsSubscribed.
func (s *MemoryStore) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) listSubscriptions(match func(models.Subscription) bool, page, limit int) ([]models.Subscription, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Subscription
	for _, sub := range s.subscriptions {
		if match(sub) {
			matched = append(matched, sub)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page, limit), len(matched), nil
}

// ListSubscribers implements SubscriptionRepository.ListSubscribers.
func (s *MemoryStore) ListSubscribers(_ context.Context, channelID string, page, limit int) ([]models.Subscription, int, error) {
	return s.listSubscriptions(func(sub models.Subscription) bool { return sub.ChannelID == channelID }, page, limit)
}

// ListSubscribedTo implements SubscriptionRepository.ListSubscribedTo.
func (s *MemoryStore) ListSubscribedTo(_ context.Context, subscriberID string, page, limit int) ([]models.Subscription, int, error) {
	return s.listSubscriptions(func(sub models.Subscription) bool { return sub.SubscriberID == subscriberID }, page, limit)
}

// --- tweets ---

// CreateTweet implements TweetRepository.Create.
func (s *MemoryStore) CreateTweet(_ context.Context, tweet models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[tweet.OwnerID]; !ok {
		return ErrNotFound
	}
	s.tweets[tweet.ID] = tweet
	return nil
}

// FindTweetByID implements TweetRepository.FindByID.
func (s *MemoryStore) FindTweetByID(_ context.Context, id string) (models.Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, ErrNotFound
	}
	return tweet, nil
}

// UpdateTweet implements TweetRepository.Update.
func (s *MemoryStore) UpdateTweet(_ context.Context, tweet models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tweets[tweet.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Content = tweet.Content
	existing.UpdatedAt = tweet.UpdatedAt
	s.tweets[tweet.ID] = existing
	return nil
}

// DeleteTweet implements TweetRepository.Delete, removing likes on the tweet.
func (s *MemoryStore) DeleteTweet(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tweets[id]; !ok {
		return ErrNotFound
	}
	for lid, like := range s.likes {
		if like.Target.Kind == models.LikeTargetTweet && like.Target.ID == id {
			delete(s.likes, lid)
		}
	}
	delete(s.tweets, id)
	return nil
}

// ListTweetsByOwner implements TweetRepository.ListByOwner.
func (s *MemoryStore) ListTweetsByOwner(_ context.Context, ownerID string, page, limit int) ([]models.Tweet, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Tweet
	for _, tweet := range s.tweets {
		if tweet.OwnerID == ownerID {
			matched = append(matched, tweet)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page, limit), len(matched), nil
}

// --- playlists ---

// CreatePlaylist implements PlaylistRepository.Create.
func (s *MemoryStore) CreatePlaylist(_ context.Context, playlist models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[playlist.OwnerID]; !ok {
		return ErrNotFound
	}
	s.playlists[playlist.ID] = playlist
	return nil
}

// FindPlaylistByID implements PlaylistRepository.FindByID.
func (s *MemoryStore) FindPlaylistByID(_ context.Context, id string) (models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, ErrNotFound
	}
	return playlist, nil
}

// UpdatePlaylist implements PlaylistRepository.Update.
func (s *MemoryStore) UpdatePlaylist(_ context.Context, playlist models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.playlists[playlist.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = playlist.Name
	existing.Description = playlist.Description
	existing.UpdatedAt = playlist.UpdatedAt
	s.playlists[playlist.ID] = existing
	return nil
}

// DeletePlaylist implements PlaylistRepository.Delete. Member videos are
// untouched.
func (s *MemoryStore) DeletePlaylist(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.playlists[id]; !ok {
		return ErrNotFound
	}
	delete(s.playlists, id)
	delete(s.playlistVids, id)
	return nil
}

// AddPlaylistVideo implements PlaylistRepository.AddVideo, idempotently.
func (s *MemoryStore) AddPlaylistVideo(_ context.Context, playlistID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.playlists[playlistID]; !ok {
		return ErrNotFound
	}
	for _, member := range s.playlistVids[playlistID] {
		if member.videoID == videoID {
			return nil
		}
	}
	s.playlistVids[playlistID] = append(s.playlistVids[playlistID], playlistMember{
		videoID: videoID,
		addedAt: time.Now().UTC(),
	})
	return nil
}

// RemovePlaylistVideo implements PlaylistRepository.RemoveVideo.
func (s *MemoryStore) RemovePlaylistVideo(_ context.Context, playlistID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.playlistVids[playlistID]
	for i, member := range members {
		if member.videoID == videoID {
			s.playlistVids[playlistID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// PlaylistVideoIDs implements PlaylistRepository.VideoIDs in insertion order.
func (s *MemoryStore) PlaylistVideoIDs(_ context.Context, playlistID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := s.playlistVids[playlistID]
	ids := make([]string, len(members))
	for i, member := range members {
		ids[i] = member.videoID
	}
	return ids, nil
}

// ListPlaylistsByOwner implements PlaylistRepository.ListByOwner.
func (s *MemoryStore) ListPlaylistsByOwner(_ context.Context, ownerID string, page, limit int) ([]models.Playlist, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			matched = append(matched, playlist)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page, limit), len(matched), nil
}

// Users returns a UserRepository view of the store.
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Videos returns a VideoRepository view of the store.
func (s *MemoryStore) Videos() VideoRepository { return memoryVideos{s} }

// Comments returns a CommentRepository view of the store.
func (s *MemoryStore) Comments() CommentRepository { return memoryComments{s} }

// Likes returns a LikeRepository view of the store.
func (s *MemoryStore) Likes() LikeRepository { return memoryLikes{s} }

// Subscriptions returns a SubscriptionRepository view of the store.
func (s *MemoryStore) Subscriptions() SubscriptionRepository { return memorySubscriptions{s} }

// Tweets returns a TweetRepository view of the store.
func (s *MemoryStore) Tweets() TweetRepository { return memoryTweets{s} }

// Playlists returns a PlaylistRepository view of the store.
func (s *MemoryStore) Playlists() PlaylistRepository { return memoryPlaylists{s} }

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(ctx context.Context, user models.User) error {
	return m.s.CreateUser(ctx, user)
}
func (m memoryUsers) FindByID(ctx context.Context, id string) (models.User, error) {
	return m.s.FindUserByID(ctx, id)
}
func (m memoryUsers) FindByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	return m.s.FindUsersByIDs(ctx, ids)
}
func (m memoryUsers) FindByHandle(ctx context.Context, handle string) (models.User, error) {
	return m.s.FindUserByHandle(ctx, handle)
}
func (m memoryUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return m.s.FindUserByEmail(ctx, email)
}
func (m memoryUsers) Update(ctx context.Context, user models.User) error {
	return m.s.UpdateUser(ctx, user)
}
func (m memoryUsers) SetRefreshToken(ctx context.Context, userID, token string) error {
	return m.s.SetRefreshToken(ctx, userID, token)
}
func (m memoryUsers) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	return m.s.AppendWatchHistory(ctx, userID, videoID)
}
func (m memoryUsers) WatchHistory(ctx context.Context, userID string, page, limit int) ([]models.WatchEntry, int, error) {
	return m.s.WatchHistory(ctx, userID, page, limit)
}

type memoryVideos struct{ s *MemoryStore }

func (m memoryVideos) Create(ctx context.Context, video models.Video) error {
	return m.s.CreateVideo(ctx, video)
}
func (m memoryVideos) FindByID(ctx context.Context, id string) (models.Video, error) {
	return m.s.FindVideoByID(ctx, id)
}
func (m memoryVideos) FindByIDs(ctx context.Context, ids []string) (map[string]models.Video, error) {
	return m.s.FindVideosByIDs(ctx, ids)
}
func (m memoryVideos) Update(ctx context.Context, video models.Video) error {
	return m.s.UpdateVideo(ctx, video)
}
func (m memoryVideos) Delete(ctx context.Context, id string) error {
	return m.s.DeleteVideo(ctx, id)
}
func (m memoryVideos) List(ctx context.Context, filter VideoListFilter) ([]models.Video, int, error) {
	return m.s.ListVideos(ctx, filter)
}
func (m memoryVideos) IncrementViews(ctx context.Context, id string) error {
	return m.s.IncrementViews(ctx, id)
}
func (m memoryVideos) OwnerTotals(ctx context.Context, ownerID string) (int, int64, error) {
	return m.s.OwnerTotals(ctx, ownerID)
}

type memoryComments struct{ s *MemoryStore }

func (m memoryComments) Create(ctx context.Context, comment models.Comment) error {
	return m.s.CreateComment(ctx, comment)
}
func (m memoryComments) FindByID(ctx context.Context, id string) (models.Comment, error) {
	return m.s.FindCommentByID(ctx, id)
}
func (m memoryComments) Update(ctx context.Context, comment models.Comment) error {
	return m.s.UpdateComment(ctx, comment)
}
func (m memoryComments) Delete(ctx context.Context, id string) error {
	return m.s.DeleteComment(ctx, id)
}
func (m memoryComments) ListByVideo(ctx context.Context, videoID string, page, limit int) ([]models.Comment, int, error) {
	return m.s.ListCommentsByVideo(ctx, videoID, page, limit)
}

type memoryLikes struct{ s *MemoryStore }

func (m memoryLikes) Create(ctx context.Context, like models.Like) error {
	return m.s.CreateLike(ctx, like)
}
func (m memoryLikes) Find(ctx context.Context, actorID string, target models.LikeTarget) (models.Like, error) {
	return m.s.FindLike(ctx, actorID, target)
}
func (m memoryLikes) Delete(ctx context.Context, id string) error {
	return m.s.DeleteLike(ctx, id)
}
func (m memoryLikes) DeleteByTarget(ctx context.Context, target models.LikeTarget) error {
	return m.s.DeleteLikesByTarget(ctx, target)
}
func (m memoryLikes) CountByTarget(ctx context.Context, target models.LikeTarget) (int, error) {
	return m.s.CountLikesByTarget(ctx, target)
}
func (m memoryLikes) CountByTargets(ctx context.Context, kind models.LikeTargetKind, ids []string) (map[string]int, error) {
	return m.s.CountLikesByTargets(ctx, kind, ids)
}
func (m memoryLikes) ActorFlags(ctx context.Context, actorID string, kind models.LikeTargetKind, ids []string) (map[string]bool, error) {
	return m.s.LikeActorFlags(ctx, actorID, kind, ids)
}
func (m memoryLikes) ListByActor(ctx context.Context, actorID string, kind models.LikeTargetKind, page, limit int) ([]models.Like, int, error) {
	return m.s.ListLikesByActor(ctx, actorID, kind, page, limit)
}
func (m memoryLikes) CountForVideoOwner(ctx context.Context, ownerID string) (int, error) {
	return m.s.CountLikesForVideoOwner(ctx, ownerID)
}

type memorySubscriptions struct{ s *MemoryStore }

func (m memorySubscriptions) Create(ctx context.Context, sub models.Subscription) error {
	return m.s.CreateSubscription(ctx, sub)
}
func (m memorySubscriptions) Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error) {
	return m.s.FindSubscription(ctx, subscriberID, channelID)
}
func (m memorySubscriptions) Delete(ctx context.Context, id string) error {
	return m.s.DeleteSubscription(ctx, id)
}
func (m memorySubscriptions) CountSubscribers(ctx context.Context, channelID string) (int, error) {
	return m.s.CountSubscribers(ctx, channelID)
}
func (m memorySubscriptions) CountSubscribersBatch(ctx context.Context, channelIDs []string) (map[string]int, error) {
	return m.s.CountSubscribersBatch(ctx, channelIDs)
}
func (m memorySubscriptions) CountSubscribedTo(ctx context.Context, subscriberID string) (int, error) {
	return m.s.CountSubscribedTo(ctx, subscriberID)
}
func (m memorySubscriptions) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	return m.s.IsSubscribed(ctx, subscriberID, channelID)
}
func (m memorySubscriptions) ListSubscribers(ctx context.Context, channelID string, page, limit int) ([]models.Subscription, int, error) {
	return m.s.ListSubscribers(ctx, channelID, page, limit)
}
func (m memorySubscriptions) ListSubscribedTo(ctx context.Context, subscriberID string, page, limit int) ([]models.Subscription, int, error) {
	return m.s.ListSubscribedTo(ctx, subscriberID, page, limit)
}

type memoryTweets struct{ s *MemoryStore }

func (m memoryTweets) Create(ctx context.Context, tweet models.Tweet) error {
	return m.s.CreateTweet(ctx, tweet)
}
func (m memoryTweets) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	return m.s.FindTweetByID(ctx, id)
}
func (m memoryTweets) Update(ctx context.Context, tweet models.Tweet) error {
	return m.s.UpdateTweet(ctx, tweet)
}
func (m memoryTweets) Delete(ctx context.Context, id string) error {
	return m.s.DeleteTweet(ctx, id)
}
func (m memoryTweets) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Tweet, int, error) {
	return m.s.ListTweetsByOwner(ctx, ownerID, page, limit)
}

type memoryPlaylists struct{ s *MemoryStore }

func (m memoryPlaylists) Create(ctx context.Context, playlist models.Playlist) error {
	return m.s.CreatePlaylist(ctx, playlist)
}
func (m memoryPlaylists) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	return m.s.FindPlaylistByID(ctx, id)
}
func (m memoryPlaylists) Update(ctx context.Context, playlist models.Playlist) error {
	return m.s.UpdatePlaylist(ctx, playlist)
}
func (m memoryPlaylists) Delete(ctx context.Context, id string) error {
	return m.s.DeletePlaylist(ctx, id)
}
func (m memoryPlaylists) AddVideo(ctx context.Context, playlistID, videoID string) error {
	return m.s.AddPlaylistVideo(ctx, playlistID, videoID)
}
func (m memoryPlaylists) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	return m.s.RemovePlaylistVideo(ctx, playlistID, videoID)
}
func (m memoryPlaylists) VideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	return m.s.PlaylistVideoIDs(ctx, playlistID)
}
func (m memoryPlaylists) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Playlist, int, error) {
	return m.s.ListPlaylistsByOwner(ctx, ownerID, page, limit)
}

var _ UserRepository = memoryUsers{}
var _ VideoRepository = memoryVideos{}
var _ CommentRepository = memoryComments{}
var _ LikeRepository = memoryLikes{}
var _ SubscriptionRepository = memorySubscriptions{}
var _ TweetRepository = memoryTweets{}
var _ PlaylistRepository = memoryPlaylists{}
