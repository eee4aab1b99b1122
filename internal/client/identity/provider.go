package identity

import "context"

// User is the identity of a signed-in account.
type User struct {
	UID   string
	Email string
}

// Provider is the identity service the session manager depends on.
// Failures are reported as *ProviderError.
type Provider interface {
	// CurrentUser returns the cached session user, or nil when there is no
	// valid session. It never goes to the network.
	CurrentUser(ctx context.Context) (*User, error)
	// CreateAccount registers a new account. It does not start a session.
	CreateAccount(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	// SignOut drops the local session. Calling it without a session is a no-op.
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	// UpdateEmail changes the email of the signed-in account. Providers may
	// refuse with KindRequiresRecentLogin.
	UpdateEmail(ctx context.Context, newEmail string) (*User, error)
	Close() error
}
