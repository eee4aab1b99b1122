package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/cryptox"
	"github.com/dmitrijs2005/skillsync/internal/server/auth"
	"github.com/dmitrijs2005/skillsync/internal/server/config"
	"github.com/dmitrijs2005/skillsync/internal/server/models"
	"github.com/dmitrijs2005/skillsync/internal/server/repositories/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	LastEmail string
	LastToken string
	sent      int
	err       error
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.sent++
	m.LastEmail, m.LastToken = email, token
	return m.err
}

// brokenRepo fails every call with err.
type brokenRepo struct{ err error }

func (r brokenRepo) Create(context.Context, *models.Account) (*models.Account, error) {
	return nil, r.err
}
func (r brokenRepo) GetByEmail(context.Context, string) (*models.Account, error) { return nil, r.err }
func (r brokenRepo) GetByID(context.Context, string) (*models.Account, error)    { return nil, r.err }
func (r brokenRepo) UpdateEmail(context.Context, string, string) (*models.Account, error) {
	return nil, r.err
}
func (r brokenRepo) UpdatePasswordHash(context.Context, string, string) error { return r.err }
func (r brokenRepo) Ping(context.Context) error                               { return r.err }

func newTestService(t *testing.T, repo accounts.Repository) (*AccountService, *fakeMailer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"

	m := &fakeMailer{}
	s := NewAccountService(repo, m, nil, cfg)
	s.params = cryptox.Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	return s, m
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, accounts.NewMemoryRepository())

	sess, err := s.CreateAccount(ctx, " Ada@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sess.Account.Email)
	assert.NotEmpty(t, sess.Account.ID)

	claims, err := s.VerifyIDToken(sess.IDToken)
	require.NoError(t, err)
	assert.Equal(t, sess.Account.ID, claims.UID)
	assert.Equal(t, "ada@example.com", claims.Email)

	_, err = s.CreateAccount(ctx, "ada@example.com", "another1")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreateAccount_Validation(t *testing.T) {
	s, _ := newTestService(t, accounts.NewMemoryRepository())

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"no at sign", "nope", "secret1", common.ErrorInvalidEmail},
		{"display name", "Ada <ada@example.com>", "secret1", common.ErrorInvalidEmail},
		{"empty", "", "secret1", common.ErrorInvalidEmail},
		{"short password", "ada@example.com", "12345", common.ErrorWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateAccount(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, accounts.NewMemoryRepository())
	_, err := s.CreateAccount(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	sess, err := s.SignIn(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sess.Account.Email)

	_, err = s.SignIn(ctx, "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.SignIn(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestSignIn_RepositoryFailure(t *testing.T) {
	s, _ := newTestService(t, brokenRepo{err: errors.New("db down")})

	_, err := s.SignIn(context.Background(), "ada@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
	assert.Error(t, s.Ready(context.Background()))
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	s, m := newTestService(t, accounts.NewMemoryRepository())
	_, err := s.CreateAccount(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.SendPasswordReset(ctx, "ada@example.com"))
	require.Equal(t, 1, m.sent)
	assert.Equal(t, "ada@example.com", m.LastEmail)
	token := m.LastToken

	assert.ErrorIs(t, s.ConfirmPasswordReset(ctx, token, "123"), common.ErrorWeakPassword)
	require.NoError(t, s.ConfirmPasswordReset(ctx, token, "brand-new"))

	_, err = s.SignIn(ctx, "ada@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.SignIn(ctx, "ada@example.com", "brand-new")
	require.NoError(t, err)

	assert.ErrorIs(t, s.ConfirmPasswordReset(ctx, token, "third-one"), common.ErrInvalidToken, "token is single use")
}

func TestSendPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	s, m := newTestService(t, accounts.NewMemoryRepository())

	require.NoError(t, s.SendPasswordReset(context.Background(), "ghost@example.com"))
	assert.Zero(t, m.sent)
	assert.ErrorIs(t, s.SendPasswordReset(context.Background(), "ghost"), common.ErrorInvalidEmail)
}

func TestConfirmPasswordReset_RejectsIDToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, accounts.NewMemoryRepository())
	sess, err := s.CreateAccount(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, s.ConfirmPasswordReset(ctx, sess.IDToken, "brand-new"), common.ErrInvalidToken)
}

func TestUpdateEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, accounts.NewMemoryRepository())
	sess, err := s.CreateAccount(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	_, err = s.CreateAccount(ctx, "bob@example.com", "secret1")
	require.NoError(t, err)

	claims, err := s.VerifyIDToken(sess.IDToken)
	require.NoError(t, err)

	_, err = s.UpdateEmail(ctx, claims, "bob@example.com")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.UpdateEmail(ctx, claims, "not an email")
	assert.ErrorIs(t, err, common.ErrorInvalidEmail)

	updated, err := s.UpdateEmail(ctx, claims, "lovelace@example.com")
	require.NoError(t, err)
	assert.Equal(t, "lovelace@example.com", updated.Account.Email)

	newClaims, err := s.VerifyIDToken(updated.IDToken)
	require.NoError(t, err)
	assert.Equal(t, claims.AuthTime, newClaims.AuthTime, "auth time is carried over")
	assert.Equal(t, "lovelace@example.com", newClaims.Email)

	acc, err := s.GetAccount(ctx, claims.UID)
	require.NoError(t, err)
	assert.Equal(t, "lovelace@example.com", acc.Email)
}

func TestUpdateEmail_RequiresRecentLogin(t *testing.T) {
	s, _ := newTestService(t, accounts.NewMemoryRepository())

	stale := &auth.Claims{UID: "u1", AuthTime: time.Now().Add(-time.Hour).Unix()}
	_, err := s.UpdateEmail(context.Background(), stale, "new@example.com")
	assert.ErrorIs(t, err, common.ErrorRecentLoginNeed)
}

func TestConfirmPasswordReset_RunsInTx(t *testing.T) {
	ctx := context.Background()
	repo := accounts.NewMemoryRepository()
	s, m := newTestService(t, repo)

	calls := 0
	s.UseTx(func(ctx context.Context, fn func(context.Context, accounts.Repository) error) error {
		calls++
		return fn(ctx, repo)
	})

	_, err := s.CreateAccount(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, s.SendPasswordReset(ctx, "ada@example.com"))
	require.NoError(t, s.ConfirmPasswordReset(ctx, m.LastToken, "secret2"))
	assert.Equal(t, 1, calls)

	s.UseTx(func(context.Context, func(context.Context, accounts.Repository) error) error {
		return errors.New("tx failed")
	})
	require.NoError(t, s.SendPasswordReset(ctx, "ada@example.com"))
	assert.EqualError(t, s.ConfirmPasswordReset(ctx, m.LastToken, "secret3"), "tx failed")
}
