package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, img *models.ProfileImage) error {
	query := `INSERT INTO profile_images (local_path, object_key, upload_status, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(local_path) DO UPDATE SET
				object_key = excluded.object_key,
				upload_status = excluded.upload_status,
				created_at = excluded.created_at`

	status := img.UploadStatus
	if status == "" {
		status = models.UploadPending
	}
	created := img.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, img.LocalPath, img.ObjectKey, status, created.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert profile image: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByPath(ctx context.Context, localPath string) (*models.ProfileImage, error) {
	query := `SELECT local_path, object_key, upload_status, created_at FROM profile_images WHERE local_path = ?`

	img := &models.ProfileImage{}
	var created int64
	err := r.db.QueryRowContext(ctx, query, localPath).Scan(&img.LocalPath, &img.ObjectKey, &img.UploadStatus, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile image: %w", err)
	}
	img.CreatedAt = time.UnixMilli(created)
	return img, nil
}

// GetAllPending returns images not yet uploaded, oldest first.
func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]*models.ProfileImage, error) {
	query := `SELECT local_path, object_key, upload_status, created_at FROM profile_images
			WHERE upload_status = ? ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, models.UploadPending)
	if err != nil {
		return nil, fmt.Errorf("error selecting profile images: %w", err)
	}
	defer rows.Close()

	var result []*models.ProfileImage
	for rows.Next() {
		img := &models.ProfileImage{}
		var created int64
		if err := rows.Scan(&img.LocalPath, &img.ObjectKey, &img.UploadStatus, &created); err != nil {
			return nil, fmt.Errorf("failed to scan profile image: %w", err)
		}
		img.CreatedAt = time.UnixMilli(created)
		result = append(result, img)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkUploaded flags the image at localPath as completed.
func (r *SQLiteRepository) MarkUploaded(ctx context.Context, localPath string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profile_images SET upload_status = ? WHERE local_path = ?`, models.UploadCompleted, localPath)
	if err != nil {
		return fmt.Errorf("failed to mark profile image uploaded: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n != 1 {
		return common.ErrorNotFound
	}
	return nil
}
