package app

import (
	"time"

	"github.com/streamtube/backend/internal/auth"
	"github.com/streamtube/backend/internal/config"
	"github.com/streamtube/backend/internal/db"
	"github.com/streamtube/backend/internal/handlers"
	"github.com/streamtube/backend/internal/interactions"
	"github.com/streamtube/backend/internal/middleware"
	"github.com/streamtube/backend/internal/repositories"
	"github.com/streamtube/backend/internal/views"
)

// buildDependencies assembles the repository, engine and handler graph over
// the database pool.
func buildDependencies(pool db.Pool, cfg config.Config, issuer *auth.TokenIssuer, media handlers.MediaStorage) handlers.Dependencies {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)

	sessions := auth.NewManager(users, issuer)
	viewEngine := views.NewEngine(users, videos, comments, likes, subscriptions, tweets, playlists)
	toggles := interactions.NewEngine(users, videos, comments, tweets, likes, subscriptions)

	limiter := middleware.NewIPRateLimiter(
		int(cfg.RateLimitPerSecond), time.Second, cfg.RateLimitBurst, 10*time.Minute,
	)

	return handlers.Dependencies{
		Users:     users,
		Videos:    videos,
		Comments:  comments,
		Tweets:    tweets,
		Playlists: playlists,

		Sessions: sessions,
		Views:    viewEngine,
		Toggles:  toggles,
		Media:    media,

		AuthLimiter: limiter,
	}
}
