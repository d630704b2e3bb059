package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamtube/backend/internal/db"
	"github.com/streamtube/backend/internal/models"
)

// PostgresLikeRepository persists like edges. The unique index on
// (liked_by, target_kind, target_id) is what makes concurrent toggles safe:
// the losing creator receives ErrConflict instead of a duplicate edge.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Create inserts a like edge, reporting ErrConflict when it already exists.
func (r *PostgresLikeRepository) Create(ctx context.Context, like models.Like) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (id, liked_by, target_kind, target_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, like.ID, like.LikedBy, string(like.Target.Kind), like.Target.ID, like.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// Find looks up the actor's like edge for a target.
func (r *PostgresLikeRepository) Find(ctx context.Context, actorID string, target models.LikeTarget) (models.Like, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Like{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, liked_by, target_kind, target_id, created_at
        FROM likes
        WHERE liked_by = $1 AND target_kind = $2 AND target_id = $3
    `, actorID, string(target.Kind), target.ID)

	like, err := scanLike(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Like{}, ErrNotFound
		}
		return models.Like{}, fmt.Errorf("select like: %w", err)
	}

	return like, nil
}

func scanLike(row pgx.Row) (models.Like, error) {
	var like models.Like
	var kind string
	if err := row.Scan(&like.ID, &like.LikedBy, &kind, &like.Target.ID, &like.CreatedAt); err != nil {
		return models.Like{}, err
	}
	like.Target.Kind = models.LikeTargetKind(kind)
	return like, nil
}

// Delete removes a like edge by id.
func (r *PostgresLikeRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByTarget removes every like pointing at a target. Deleting an
// already-clean target is not an error, so cascades can be retried.
func (r *PostgresLikeRepository) DeleteByTarget(ctx context.Context, target models.LikeTarget) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        DELETE FROM likes WHERE target_kind = $1 AND target_id = $2
    `, string(target.Kind), target.ID)
	if err != nil {
		return fmt.Errorf("delete likes by target: %w", err)
	}

	return nil
}

// CountByTarget counts the live like edges for a single target.
func (r *PostgresLikeRepository) CountByTarget(ctx context.Context, target models.LikeTarget) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM likes WHERE target_kind = $1 AND target_id = $2
    `, string(target.Kind), target.ID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// CountByTargets batch-counts likes for several targets of one kind.
func (r *PostgresLikeRepository) CountByTargets(ctx context.Context, kind models.LikeTargetKind, targetIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT target_id, COUNT(*)
        FROM likes
        WHERE target_kind = $1 AND target_id = ANY($2)
        GROUP BY target_id
    `, string(kind), targetIDs)
	if err != nil {
		return nil, fmt.Errorf("count likes by targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan like count: %w", err)
		}
		counts[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate like counts: %w", err)
	}

	return counts, nil
}

// ActorFlags reports which of the given targets the actor has liked.
func (r *PostgresLikeRepository) ActorFlags(ctx context.Context, actorID string, kind models.LikeTargetKind, targetIDs []string) (map[string]bool, error) {
	flags := make(map[string]bool, len(targetIDs))
	if actorID == "" || len(targetIDs) == 0 {
		return flags, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT target_id
        FROM likes
        WHERE liked_by = $1 AND target_kind = $2 AND target_id = ANY($3)
    `, actorID, string(kind), targetIDs)
	if err != nil {
		return nil, fmt.Errorf("query actor likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan actor like: %w", err)
		}
		flags[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actor likes: %w", err)
	}

	return flags, nil
}

// ListByActor pages through an actor's likes of one kind, newest first.
func (r *PostgresLikeRepository) ListByActor(ctx context.Context, actorID string, kind models.LikeTargetKind, page, limit int) ([]models.Like, int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM likes WHERE liked_by = $1 AND target_kind = $2
    `, actorID, string(kind)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count actor likes: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT id, liked_by, target_kind, target_id, created_at
        FROM likes
        WHERE liked_by = $1 AND target_kind = $2
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4
    `, actorID, string(kind), limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query actor likes: %w", err)
	}
	defer rows.Close()

	var likes []models.Like
	for rows.Next() {
		like, err := scanLike(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, like)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate actor likes: %w", err)
	}

	return likes, total, nil
}

// CountForVideoOwner counts likes across every video owned by a channel.
func (r *PostgresLikeRepository) CountForVideoOwner(ctx context.Context, ownerID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM likes
        WHERE target_kind = 'video'
          AND target_id IN (SELECT id FROM videos WHERE owner_id = $1)
    `, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count owner video likes: %w", err)
	}

	return count, nil
}

// PostgresSubscriptionRepository persists subscription edges with a unique
// (subscriber, channel) constraint.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Create inserts a subscription edge, reporting ErrConflict on duplicates.
func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub models.Subscription) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
    `, sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert subscription: %w", err)
	}

	return nil
}

// Find looks up the subscription edge for a (subscriber, channel) pair.
func (r *PostgresSubscriptionRepository) Find(ctx context.Context, subscriberID, channelID string) (models.Subscription, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, subscriber_id, channel_id, created_at
        FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.SubscriberID, &sub.ChannelID, &sub.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subscription{}, ErrNotFound
		}
		return models.Subscription{}, fmt.Errorf("select subscription: %w", err)
	}

	return sub, nil
}

// Delete removes a subscription edge by id.
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostgresSubscriptionRepository) count(ctx context.Context, where string, arg any) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE `+where, arg).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}

	return count, nil
}

// CountSubscribers counts the live subscriber edges for a channel.
func (r *PostgresSubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int, error) {
	return r.count(ctx, "channel_id = $1", channelID)
}

// CountSubscribedTo counts how many channels a user subscribes to.
func (r *PostgresSubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int, error) {
	return r.count(ctx, "subscriber_id = $1", subscriberID)
}

// CountSubscribersBatch counts subscribers for several channels at once.
func (r *PostgresSubscriptionRepository) CountSubscribersBatch(ctx context.Context, channelIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(channelIDs))
	if len(channelIDs) == 0 {
		return counts, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT channel_id, COUNT(*)
        FROM subscriptions
        WHERE channel_id = ANY($1)
        GROUP BY channel_id
    `, channelIDs)
	if err != nil {
		return nil, fmt.Errorf("count subscribers by channels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan subscriber count: %w", err)
		}
		counts[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriber counts: %w", err)
	}

	return counts, nil
}

// IsSubscribed reports whether the subscriber has an edge to the channel.
// An empty subscriber id (anonymous viewer) is always false.
func (r *PostgresSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == "" {
		return false, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var subscribed bool
	if err := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
        )
    `, subscriberID, channelID).Scan(&subscribed); err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}

	return subscribed, nil
}

func (r *PostgresSubscriptionRepository) list(ctx context.Context, where string, id string, page, limit int) ([]models.Subscription, int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE `+where, id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT id, subscriber_id, channel_id, created_at
        FROM subscriptions
        WHERE `+where+`
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `, id, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.SubscriberID, &sub.ChannelID, &sub.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subs, total, nil
}

// ListSubscribers pages through a channel's subscriber edges, newest first.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, page, limit int) ([]models.Subscription, int, error) {
	return r.list(ctx, "channel_id = $1", channelID, page, limit)
}

// ListSubscribedTo pages through the channels a user subscribes to.
func (r *PostgresSubscriptionRepository) ListSubscribedTo(ctx context.Context, subscriberID string, page, limit int) ([]models.Subscription, int, error) {
	return r.list(ctx, "subscriber_id = $1", subscriberID, page, limit)
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
