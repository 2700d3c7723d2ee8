package repositories

import (
	"context"

	"github.com/aora/backend/internal/models"
)

// AccountRepository defines the data access contract for credential records.
type AccountRepository interface {
	Create(ctx context.Context, account models.Account) error
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByID(ctx context.Context, id string) (models.Account, error)
}
