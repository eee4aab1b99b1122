package models

import "time"

const (
	UploadPending   = "pending"
	UploadCompleted = "completed"
)

// ProfileImage tracks the mirror upload of one locally saved profile image.
type ProfileImage struct {
	LocalPath    string
	ObjectKey    string
	UploadStatus string
	CreatedAt    time.Time
}
