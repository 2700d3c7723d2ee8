package repositories

import (
	"context"

	"github.com/aora/backend/internal/models"
)

// VideoRepository exposes data access for published video posts.
type VideoRepository interface {
	Create(ctx context.Context, post models.VideoPost) error
	ListAll(ctx context.Context) ([]models.VideoPost, error)
	ListLatest(ctx context.Context, limit int) ([]models.VideoPost, error)
	Search(ctx context.Context, query string) ([]models.VideoPost, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.VideoPost, error)
}
