package images

import (
	"context"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// Repository tracks which saved profile images still need uploading.
type Repository interface {
	// Create inserts a pending record. An existing record for the same path
	// is reset to pending with the new object key.
	Create(ctx context.Context, img *models.ProfileImage) error

	GetByPath(ctx context.Context, localPath string) (*models.ProfileImage, error)

	// GetAllPending returns images whose upload has not completed, oldest first.
	GetAllPending(ctx context.Context) ([]*models.ProfileImage, error)

	MarkUploaded(ctx context.Context, localPath string) error
}
