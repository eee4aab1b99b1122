// Package services contains the client's account core: the session manager
// that drives the identity provider and the local profile store.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/identity"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/logging"
)

const DefaultProviderTimeout = 15 * time.Second

// ProfileService is the part of the profile store the session manager
// drives on registration, login and sign-out.
type ProfileService interface {
	SaveAll(ctx context.Context, name, age, skills, location string) error
	EnsureDefault(ctx context.Context, name string) error
	// SwitchIdentity binds the profile to owner; "" unbinds it.
	SwitchIdentity(ctx context.Context, owner string) error
}

// Manager owns the authentication state of one client session. At most one
// provider call runs at a time; results of calls that outlive a sign-out
// are dropped.
type Manager struct {
	provider identity.Provider
	profile  ProfileService
	logger   logging.Logger
	timeout  time.Duration

	signOutOnClose bool

	mu       sync.Mutex
	state    models.Session
	gen      uint64
	version  uint64
	inflight *Operation
	closed   bool

	subs broadcaster[models.Session]
}

// ManagerOption customizes a Manager at construction.
type ManagerOption func(*Manager)

// WithProviderTimeout bounds every provider call.
func WithProviderTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithSignOutOnClose makes Close drop the provider session as well.
func WithSignOutOnClose(v bool) ManagerOption {
	return func(m *Manager) { m.signOutOnClose = v }
}

// NewManager returns a signed-out manager in login mode. Call Initialize
// to restore a cached provider session.
func NewManager(provider identity.Provider, profile ProfileService, logger logging.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.Nop{}
	}
	m := &Manager{
		provider: provider,
		profile:  profile,
		logger:   logger,
		timeout:  DefaultProviderTimeout,
		state:    models.Session{LoginMode: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize restores a cached provider session without going to the
// network.
func (m *Manager) Initialize(ctx context.Context) error {
	user, err := m.provider.CurrentUser(ctx)
	if err != nil {
		return err
	}

	m.mutate(func(s *models.Session) {
		s.Authenticated = user != nil
		s.IdentityEmail = ""
		if user != nil {
			s.IdentityEmail = user.Email
		}
	})

	if user == nil {
		return nil
	}
	if err := m.profile.SwitchIdentity(ctx, owner(user)); err != nil {
		return err
	}
	return m.profile.EnsureDefault(ctx, user.Email)
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel of state snapshots. The current state is
// delivered first. cancel closes the channel.
func (m *Manager) Subscribe(buffer int) (<-chan models.Session, func()) {
	ch, cancel := m.subs.subscribe(buffer)
	m.mu.Lock()
	m.version++
	v, snap := m.version, m.state
	m.mu.Unlock()
	m.subs.publish(v, snap)
	return ch, cancel
}

// SetEmailInput sets the email form field and clears the status.
func (m *Manager) SetEmailInput(v string) {
	m.mutate(func(s *models.Session) {
		s.EmailInput = v
		s.Status = models.Status{}
	})
}

// SetPasswordInput sets the password form field and clears the status.
func (m *Manager) SetPasswordInput(v string) {
	m.mutate(func(s *models.Session) {
		s.PasswordInput = v
		s.Status = models.Status{}
	})
}

// ToggleMode switches between login and registration and clears the form.
func (m *Manager) ToggleMode() {
	m.mutate(func(s *models.Session) {
		s.LoginMode = !s.LoginMode
		s.EmailInput = ""
		s.PasswordInput = ""
		s.Status = models.Status{}
	})
}

// Report posts st into the status slot. It is how the profile store
// surfaces its outcomes.
func (m *Manager) Report(st models.Status) {
	m.mutate(func(s *models.Session) { s.Status = st })
}

// mutate applies fn under the lock and publishes the result.
func (m *Manager) mutate(fn func(s *models.Session)) {
	m.mu.Lock()
	fn(&m.state)
	m.version++
	v, snap := m.version, m.state
	m.mu.Unlock()
	m.subs.publish(v, snap)
}

// Register creates an account from the form inputs and seeds the local
// profile. On success the form switches to login mode.
func (m *Manager) Register(ctx context.Context, seed models.ProfileSeed) *Operation {
	return m.dispatch(ctx, task{
		name: "register",
		validate: func(s *models.Session) string {
			if common.IsBlank(s.EmailInput) || common.IsBlank(s.PasswordInput) {
				return msgRegisterMissing
			}
			return ""
		},
		run: func(ctx context.Context, in models.Session) error {
			_, err := m.provider.CreateAccount(ctx, in.EmailInput, in.PasswordInput)
			return err
		},
		commit: func(ctx context.Context) {
			err := m.profile.SaveAll(ctx,
				common.IfBlank(seed.Name, DefaultName),
				common.IfBlank(seed.Age, DefaultAge),
				common.IfBlank(seed.Skills, DefaultSkills),
				DefaultLocation)
			if err != nil {
				m.logger.Warn(ctx, "seed profile failed", "error", err)
			}
		},
		apply: func(s *models.Session, err error) models.Status {
			if err == nil {
				s.LoginMode = true
				return models.Success(msgRegisterOK)
			}
			switch identity.Classify(err) {
			case identity.KindCredentialsInUse:
				return models.Failure(models.ReasonCredentialsInUse, msgRegisterInUse)
			case identity.KindMalformedEmail:
				return models.Failure(models.ReasonMalformedEmail, msgRegisterBadEmail)
			}
			return providerFailure(err, msgRegisterFailed)
		},
	})
}

// Login signs in with the form inputs.
func (m *Manager) Login(ctx context.Context) *Operation {
	var user *identity.User
	return m.dispatch(ctx, task{
		name: "login",
		validate: func(s *models.Session) string {
			if common.IsBlank(s.EmailInput) || common.IsBlank(s.PasswordInput) {
				return msgLoginMissing
			}
			return ""
		},
		run: func(ctx context.Context, in models.Session) error {
			u, err := m.provider.SignIn(ctx, in.EmailInput, in.PasswordInput)
			if err != nil {
				return err
			}
			if u == nil {
				return &identity.ProviderError{Kind: identity.KindOther, Message: msgLoginFailed}
			}
			user = u
			return nil
		},
		commit: func(ctx context.Context) {
			if err := m.profile.SwitchIdentity(ctx, owner(user)); err != nil {
				m.logger.Warn(ctx, "switch profile failed", "error", err)
			}
			if err := m.profile.EnsureDefault(ctx, user.Email); err != nil {
				m.logger.Warn(ctx, "default profile failed", "error", err)
			}
		},
		discard: func(ctx context.Context) {
			// the session ended while signing in: leave neither a provider
			// session nor a profile binding behind
			if err := m.provider.SignOut(ctx); err != nil {
				m.logger.Warn(ctx, "drop stale session failed", "error", err)
			}
			if err := m.profile.SwitchIdentity(ctx, ""); err != nil {
				m.logger.Warn(ctx, "unbind stale profile failed", "error", err)
			}
		},
		apply: func(s *models.Session, err error) models.Status {
			if err == nil {
				s.Authenticated = true
				s.IdentityEmail = user.Email
				return models.Success(msgLoginOK)
			}
			if identity.Classify(err) == identity.KindInvalidCredentials {
				return models.Failure(models.ReasonInvalidCredentials, msgLoginInvalid)
			}
			return providerFailure(err, msgLoginFailed)
		},
	})
}

// SendPasswordReset asks the provider to mail a reset link to the email
// input.
func (m *Manager) SendPasswordReset(ctx context.Context) *Operation {
	return m.dispatch(ctx, task{
		name: "password reset",
		validate: func(s *models.Session) string {
			if common.IsBlank(s.EmailInput) {
				return msgResetMissing
			}
			return ""
		},
		run: func(ctx context.Context, in models.Session) error {
			return m.provider.SendPasswordReset(ctx, in.EmailInput)
		},
		apply: func(_ *models.Session, err error) models.Status {
			if err == nil {
				return models.Success(msgResetOK)
			}
			return providerFailure(err, msgResetFailed)
		},
	})
}

// UpdateIdentityEmail changes the signed-in account's email. A refusal is
// never retried; the user is told to sign in again.
func (m *Manager) UpdateIdentityEmail(ctx context.Context, newEmail string) *Operation {
	var user *identity.User
	return m.dispatch(ctx, task{
		name: "update email",
		validate: func(s *models.Session) string {
			if !s.Authenticated || common.IsBlank(newEmail) {
				return msgUpdateEmailInvalid
			}
			return ""
		},
		run: func(ctx context.Context, _ models.Session) error {
			u, err := m.provider.UpdateEmail(ctx, newEmail)
			user = u
			return err
		},
		apply: func(s *models.Session, err error) models.Status {
			if err == nil {
				s.IdentityEmail = newEmail
				if user != nil && user.Email != "" {
					s.IdentityEmail = user.Email
				}
				return models.Success(msgUpdateEmailOK)
			}
			reason := models.ReasonOther
			if identity.Classify(err) == identity.KindRequiresRecentLogin {
				reason = models.ReasonRequiresRecentLogin
			}
			return models.Failure(reason, msgUpdateEmailFailed)
		},
	})
}

// SignOut ends the session locally. Any running operation is cancelled and
// its result discarded.
func (m *Manager) SignOut(ctx context.Context) error {
	m.endSession(func(s *models.Session) {
		s.Status = models.Status{}
	})
	return m.dropProviderSession(ctx)
}

// Close tears the manager down: in-flight work is cancelled, subscriptions
// are closed, and the provider session is dropped when configured to.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.endSession(func(s *models.Session) {
		s.Status = models.Status{}
	})
	m.subs.close()

	if !m.signOutOnClose {
		return nil
	}
	return m.dropProviderSession(ctx)
}

func (m *Manager) endSession(fn func(s *models.Session)) {
	m.mu.Lock()
	m.gen++
	if m.inflight != nil {
		m.inflight.Cancel()
		m.inflight = nil
	}
	m.state.Authenticated = false
	m.state.IdentityEmail = ""
	m.state.Pending = false
	fn(&m.state)
	m.version++
	v, snap := m.version, m.state
	m.mu.Unlock()
	m.subs.publish(v, snap)
}

func (m *Manager) dropProviderSession(ctx context.Context) error {
	var errs []error
	if err := m.provider.SignOut(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := m.profile.SwitchIdentity(ctx, ""); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// task describes one provider-backed operation.
type task struct {
	name string
	// validate runs under the lock; a non-empty message rejects the call.
	validate func(s *models.Session) string
	// run performs the provider call off the lock on a copy of the state
	// taken at dispatch time.
	run func(ctx context.Context, in models.Session) error
	// commit applies local side effects of a successful run. It runs off
	// the lock, only while the operation is still current.
	commit func(ctx context.Context)
	// discard undoes a successful run whose result will not be applied.
	discard func(ctx context.Context)
	// apply runs under the lock and returns the status to publish.
	apply func(s *models.Session, err error) models.Status
}

func (m *Manager) dispatch(ctx context.Context, t task) *Operation {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Completed(Result{Err: ErrClosed})
	}
	if m.inflight != nil {
		m.mu.Unlock()
		return Completed(Result{Err: ErrOperationInProgress})
	}

	if msg := t.validate(&m.state); msg != "" {
		st := models.Failure(models.ReasonValidation, msg)
		m.state.Status = st
		m.version++
		v, snap := m.version, m.state
		m.mu.Unlock()
		m.subs.publish(v, snap)
		return Completed(Result{Status: st, Err: &ValidationError{Message: msg}})
	}

	opCtx, cancel := context.WithTimeout(ctx, m.timeout)
	op := newOperation(cancel)
	m.inflight = op
	m.state.Pending = true
	gen := m.gen
	in := m.state
	m.version++
	v, snap := m.version, m.state
	m.mu.Unlock()
	m.subs.publish(v, snap)

	go m.execute(opCtx, op, gen, in, t)
	return op
}

func (m *Manager) execute(ctx context.Context, op *Operation, gen uint64, in models.Session, t task) {
	defer op.cancel()

	err := t.run(ctx, in)
	// read before anything cancels ctx on the way out
	canceled := errors.Is(ctx.Err(), context.Canceled)
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)

	if err == nil && t.commit != nil {
		if !m.current(gen, op) {
			m.drop(ctx, op, t, true)
			return
		}
		t.commit(context.WithoutCancel(ctx))
	}

	m.mu.Lock()
	if gen != m.gen || m.inflight != op {
		m.mu.Unlock()
		m.drop(ctx, op, t, err == nil)
		return
	}

	m.inflight = nil
	m.state.Pending = false

	var res Result
	switch {
	case err != nil && canceled:
		res = Result{Status: m.state.Status, Err: err}
	default:
		if timedOut && err != nil {
			err = &identity.ProviderError{Kind: identity.KindOther, Message: "identity service unavailable", Err: err}
		}
		st := t.apply(&m.state, err)
		m.state.Status = st
		m.state.EmailInput = ""
		m.state.PasswordInput = ""
		res = Result{Status: st, Err: err}
	}
	m.version++
	v, snap := m.version, m.state
	m.mu.Unlock()

	if err != nil {
		m.logger.Info(ctx, t.name+" failed", "error", err)
	}
	m.subs.publish(v, snap)
	op.finish(res)
}

func (m *Manager) current(gen uint64, op *Operation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen && m.inflight == op
}

// drop finishes op without applying its result. succeeded means the
// provider call went through and has to be undone.
func (m *Manager) drop(ctx context.Context, op *Operation, t task, succeeded bool) {
	if succeeded && t.discard != nil {
		t.discard(context.WithoutCancel(ctx))
	}
	m.logger.Debug(ctx, "discarded stale result", "op", t.name)
	op.finish(Result{Err: ErrOperationDiscarded})
}

// providerFailure builds the status for an unclassified provider error:
// the provider's own message when it has one, fallback otherwise.
func providerFailure(err error, fallback string) models.Status {
	return models.Failure(models.ReasonOther, common.IfBlank(identity.Message(err), fallback))
}

func owner(u *identity.User) string {
	return common.IfBlank(u.UID, u.Email)
}
