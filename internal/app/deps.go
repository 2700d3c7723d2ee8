package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/config"
	"github.com/aora/backend/internal/db"
	"github.com/aora/backend/internal/handlers"
	"github.com/aora/backend/internal/metrics"
	"github.com/aora/backend/internal/middleware"
	"github.com/aora/backend/internal/repositories"
	"github.com/aora/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, registerer prometheus.Registerer) (handlers.Dependencies, error) {
	assetStorage, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	sessionStore := repositories.NewPostgresSessionStore(pool)
	sessions := auth.NewManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, sessionStore)

	return handlers.Dependencies{
		Accounts:      repositories.NewPostgresAccountRepository(pool),
		Profiles:      repositories.NewPostgresProfileRepository(pool),
		Sessions:      sessions,
		Videos:        repositories.NewPostgresVideoRepository(pool),
		Storage:       assetStorage,
		Verifier:      sessions,
		Limiter:       middleware.NewIPRateLimiter(10, rateLimitWindow, 5, rateLimitTTL),
		Metrics:       metrics.New(registerer),
		PublicBaseURL: cfg.PublicBaseURL,
	}, nil
}
