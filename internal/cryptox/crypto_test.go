package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the tests fast
var testParams = Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashPassword_Format(t *testing.T) {
	h, err := HashPassword("secret1", testParams)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=1024,t=1,p=1$"), h)
	assert.Len(t, strings.Split(h, "$"), 6)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("secret1", testParams)
	require.NoError(t, err)
	b, err := HashPassword("secret1", testParams)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPassword(t *testing.T) {
	h, err := HashPassword("secret1", testParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("secret1", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("secret2", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_BadEncoding(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong algo", "$bcrypt$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA", ErrInvalidHash},
		{"version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA", ErrIncompatibleVersion},
		{"params", "$argon2id$v=19$x$c2FsdA$aGFzaA", ErrInvalidHash},
		{"zero parallelism", "$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$aGFzaA", ErrInvalidHash},
		{"salt", "$argon2id$v=19$m=1024,t=1,p=1$!!$aGFzaA", ErrInvalidHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyPassword("x", tt.encoded)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
