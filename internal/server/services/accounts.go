// Package services implements identityd's account operations on top of the
// accounts repository.
package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/cryptox"
	"github.com/dmitrijs2005/skillsync/internal/logging"
	"github.com/dmitrijs2005/skillsync/internal/server/auth"
	"github.com/dmitrijs2005/skillsync/internal/server/config"
	"github.com/dmitrijs2005/skillsync/internal/server/models"
	"github.com/dmitrijs2005/skillsync/internal/server/repositories/accounts"
	"github.com/google/uuid"
)

// Session is an account together with a freshly issued ID token.
type Session struct {
	Account *models.Account
	IDToken string
}

// TxFunc runs fn against a repository bound to a single transaction.
type TxFunc func(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error

type AccountService struct {
	repo   accounts.Repository
	tx     TxFunc
	mailer Mailer
	logger logging.Logger

	secret      []byte
	idTTL       time.Duration
	resetTTL    time.Duration
	recentLogin time.Duration
	minPassword int
	params      cryptox.Params

	now   func() time.Time
	newID func() string
}

func NewAccountService(repo accounts.Repository, mailer Mailer, logger logging.Logger, cfg *config.Config) *AccountService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &AccountService{
		repo:        repo,
		mailer:      mailer,
		logger:      logger.With("module", "accounts"),
		secret:      []byte(cfg.SecretKey),
		idTTL:       cfg.IDTokenValidityDuration,
		resetTTL:    cfg.ResetTokenValidityDuration,
		recentLogin: cfg.RecentLoginWindow,
		minPassword: cfg.MinPasswordLength,
		params:      cryptox.DefaultParams,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// UseTx makes read-modify-write operations run through run. Without it they
// use the service repository directly.
func (s *AccountService) UseTx(run TxFunc) {
	s.tx = run
}

func (s *AccountService) inTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	if s.tx == nil {
		return fn(ctx, s.repo)
	}
	return s.tx(ctx, fn)
}

// normalizeEmail accepts a bare address ("ada@example.com", no display
// name) and returns it lowercased.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", common.ErrorInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func (s *AccountService) checkPassword(password string) error {
	if len([]rune(password)) < s.minPassword {
		return common.ErrorWeakPassword
	}
	return nil
}

func (s *AccountService) issueID(acc *models.Account, authTime int64) (*Session, error) {
	token, err := auth.GenerateToken(auth.Claims{
		UID:      acc.ID,
		Email:    acc.Email,
		AuthTime: authTime,
		Purpose:  auth.PurposeID,
	}, s.secret, s.idTTL)
	if err != nil {
		return nil, fmt.Errorf("issue id token: %w", err)
	}
	return &Session{Account: acc, IDToken: token}, nil
}

// CreateAccount registers email with password.
func (s *AccountService) CreateAccount(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password, s.params)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.repo.Create(ctx, &models.Account{ID: s.newID(), Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "uid", acc.ID)
	return s.issueID(acc, s.now().Unix())
}

// SignIn checks the credentials. Unknown emails and wrong passwords both
// yield common.ErrorUnauthorized.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	ok, err := cryptox.VerifyPassword(password, acc.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.issueID(acc, s.now().Unix())
}

// fingerprint identifies a password hash without revealing it.
func fingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

// SendPasswordReset mails a reset token. Unknown addresses succeed silently
// so the call cannot be used to discover accounts.
func (s *AccountService) SendPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset for unknown email")
			return nil
		}
		return fmt.Errorf("error loading account: %w", err)
	}

	token, err := auth.GenerateToken(auth.Claims{
		UID:         acc.ID,
		Email:       acc.Email,
		Purpose:     auth.PurposeReset,
		Fingerprint: fingerprint(acc.PasswordHash),
	}, s.secret, s.resetTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, acc.Email, token); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password. A reset token stops working
// once the password it was issued for has changed.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	claims, err := auth.ParseToken(token, s.secret, auth.PurposeReset)
	if err != nil {
		return err
	}
	if err := s.checkPassword(password); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(password, s.params)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var uid string
	err = s.inTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		acc, err := repo.GetByID(ctx, claims.UID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error loading account: %w", err)
		}
		if subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(fingerprint(acc.PasswordHash))) != 1 {
			return common.ErrInvalidToken
		}
		if err := repo.UpdatePasswordHash(ctx, acc.ID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		uid = acc.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset", "uid", uid)
	return nil
}

// UpdateEmail changes the signed-in account's email. The sign-in behind
// claims must be younger than the recent-login window.
func (s *AccountService) UpdateEmail(ctx context.Context, claims *auth.Claims, newEmail string) (*Session, error) {
	if s.now().Sub(time.Unix(claims.AuthTime, 0)) > s.recentLogin {
		return nil, common.ErrorRecentLoginNeed
	}
	email, err := normalizeEmail(newEmail)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.UpdateEmail(ctx, claims.UID, email)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating email: %w", err)
	}

	s.logger.Info(ctx, "email updated", "uid", acc.ID)
	return s.issueID(acc, claims.AuthTime)
}

func (s *AccountService) GetAccount(ctx context.Context, uid string) (*models.Account, error) {
	return s.repo.GetByID(ctx, uid)
}

// VerifyIDToken checks an ID token and returns its claims.
func (s *AccountService) VerifyIDToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.secret, auth.PurposeID)
}

// Ready reports whether the account store answers.
func (s *AccountService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
