// Package auth issues and verifies the HS256 tokens handed out by
// identityd: ID tokens for signed-in clients and short-lived password
// reset tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeID    = "id"
	PurposeReset = "reset"
)

// Claims are the registered claims plus the account identity. AuthTime is
// the Unix time of the sign-in that produced the session; it survives
// token refreshes such as an email change.
type Claims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid"`
	Email    string `json:"email"`
	AuthTime int64  `json:"auth_time"`
	Purpose  string `json:"purpose"`
	// Fingerprint binds a reset token to the password hash it replaces.
	Fingerprint string `json:"fp,omitempty"`
}

// GenerateToken signs c with secretKey. Issued-at and expiry are set from
// the current time.
func GenerateToken(c Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))
	c.Subject = c.UID

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and checks that it was issued for
// purpose. Expired tokens yield common.ErrTokenExpired; anything else
// wrong yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Purpose != purpose || claims.UID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
