package models

import "time"

// Account is an identity known to identityd. Email is stored lowercased.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
