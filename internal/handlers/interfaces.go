package handlers

import (
	"context"

	"github.com/aora/backend/internal/models"
)

// AccountStore captures the persistence operations required by the account handlers.
type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByID(ctx context.Context, id string) (models.Account, error)
}

// ProfileStore captures persistence for user profile documents.
type ProfileStore interface {
	Create(ctx context.Context, profile models.UserProfile) error
	FindByAccountID(ctx context.Context, accountID string) (models.UserProfile, error)
}

// SessionManager issues, refreshes, and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, accountID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// VideoStore captures persistence for video post workflows.
type VideoStore interface {
	Create(ctx context.Context, post models.VideoPost) error
	ListAll(ctx context.Context) ([]models.VideoPost, error)
	ListLatest(ctx context.Context, limit int) ([]models.VideoPost, error)
	Search(ctx context.Context, query string) ([]models.VideoPost, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.VideoPost, error)
}
