// Package common defines shared constants and sentinel errors used across
// client and server layers of SkillSync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorInvalidEmail    = errors.New("invalid email")
	ErrorWeakPassword    = errors.New("password too weak")
	ErrorRecentLoginNeed = errors.New("recent login required")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
