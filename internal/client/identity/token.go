package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/repositories/kv"
	"github.com/golang-jwt/jwt/v5"
)

const tokenKey = "id_token"

type idClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCache persists the ID token of the current session. The token is
// decoded without signature verification: it is only used to answer
// "who is signed in" locally, the provider verifies it on every call.
type TokenCache struct {
	store kv.Repository
	now   func() time.Time
}

// NewTokenCache keeps the token in store, which should be the identity
// namespace.
func NewTokenCache(store kv.Repository) *TokenCache {
	return &TokenCache{store: store, now: time.Now}
}

// Load returns the cached token and the user it names. Expired or
// undecodable tokens are discarded and reported as no session.
func (c *TokenCache) Load(ctx context.Context) (string, *User, error) {
	token, ok, err := c.store.Get(ctx, tokenKey)
	if err != nil {
		return "", nil, fmt.Errorf("load id token: %w", err)
	}
	if !ok || token == "" {
		return "", nil, nil
	}

	user, err := c.decode(token)
	if err != nil {
		if cerr := c.Clear(ctx); cerr != nil {
			return "", nil, cerr
		}
		return "", nil, nil
	}
	return token, user, nil
}

// Save replaces the cached token.
func (c *TokenCache) Save(ctx context.Context, token string) error {
	if err := c.store.Put(ctx, tokenKey, token); err != nil {
		return fmt.Errorf("save id token: %w", err)
	}
	return nil
}

// Clear drops the cached token. Clearing an empty cache is not an error.
func (c *TokenCache) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("clear id token: %w", err)
	}
	return nil
}

func (c *TokenCache) decode(token string) (*User, error) {
	var claims idClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time) {
		return nil, jwt.ErrTokenExpired
	}
	if claims.Email == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &User{UID: claims.UID, Email: claims.Email}, nil
}
