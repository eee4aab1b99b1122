// Package accounts stores identityd accounts. Lookups by email are
// case-insensitive; callers pass lowercased addresses.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/skillsync/internal/server/models"
)

// Repository errors are common.ErrorNotFound and common.ErrorAlreadyExists;
// match them with errors.Is.
type Repository interface {
	Create(ctx context.Context, acc *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	UpdateEmail(ctx context.Context, id, email string) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Ping(ctx context.Context) error
}
