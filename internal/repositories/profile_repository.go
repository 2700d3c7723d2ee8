package repositories

import (
	"context"

	"github.com/aora/backend/internal/models"
)

// ProfileRepository defines data access for user profile documents.
type ProfileRepository interface {
	Create(ctx context.Context, profile models.UserProfile) error
	FindByAccountID(ctx context.Context, accountID string) (models.UserProfile, error)
}
