package services

import (
	"context"

	"github.com/dmitrijs2005/skillsync/internal/logging"
)

// Mailer delivers password reset tokens to account owners.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes reset tokens to the log instead of sending mail. It is
// meant for development deployments.
type LogMailer struct {
	Logger logging.Logger
}

func (m LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.Logger.Info(ctx, "password reset requested", "email", email, "token", token)
	return nil
}
