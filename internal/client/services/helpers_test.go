package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/skillsync/internal/client/identity"
	"github.com/dmitrijs2005/skillsync/internal/client/migrations"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- local database ----

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func setupDB(t *testing.T) *sql.DB {
	return openDB(t, filepath.Join(t.TempDir(), "local.db"))
}

func profileKV(db *sql.DB) kv.Repository {
	return kv.NewSQLiteRepository(db, common.ProfileNamespace)
}

func newProfile(t *testing.T, db *sql.DB, cfg ProfileConfig, opts ...ProfileOption) *ProfileStore {
	t.Helper()
	if cfg.ImageDir == "" {
		cfg.ImageDir = t.TempDir()
	}
	p, err := NewProfileStore(context.Background(), profileKV(db), cfg, opts...)
	require.NoError(t, err)
	return p
}

// ---- fake identity provider ----

type fakeProvider struct {
	mu sync.Mutex

	CurrentUserRet *identity.User
	CurrentUserErr error

	CreateErr  error
	SignInRet  *identity.User
	SignInErr  error
	ResetErr   error
	UpdateRet  *identity.User
	UpdateErr  error
	SignOutErr error

	// gate, when set, blocks every network call until it is closed or the
	// call's context ends.
	gate chan struct{}

	CreateCalls  int
	SignInCalls  int
	ResetCalls   int
	UpdateCalls  int
	SignOutCalls int

	LastEmail    string
	LastPassword string
	LastNewEmail string
}

func (f *fakeProvider) wait(ctx context.Context) error {
	f.mu.Lock()
	g := f.gate
	f.mu.Unlock()
	if g == nil {
		return nil
	}
	select {
	case <-g:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeProvider) calls() (create, signIn, reset, update, signOut int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CreateCalls, f.SignInCalls, f.ResetCalls, f.UpdateCalls, f.SignOutCalls
}

func (f *fakeProvider) CurrentUser(context.Context) (*identity.User, error) {
	return f.CurrentUserRet, f.CurrentUserErr
}

func (f *fakeProvider) CreateAccount(ctx context.Context, email, password string) (*identity.User, error) {
	f.mu.Lock()
	f.CreateCalls++
	f.LastEmail, f.LastPassword = email, password
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	return &identity.User{UID: "new", Email: email}, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.User, error) {
	f.mu.Lock()
	f.SignInCalls++
	f.LastEmail, f.LastPassword = email, password
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	if f.SignInRet != nil {
		return f.SignInRet, nil
	}
	return &identity.User{UID: "u1", Email: email}, nil
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignOutCalls++
	return f.SignOutErr
}

func (f *fakeProvider) SendPasswordReset(ctx context.Context, email string) error {
	f.mu.Lock()
	f.ResetCalls++
	f.LastEmail = email
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.ResetErr
}

func (f *fakeProvider) UpdateEmail(ctx context.Context, newEmail string) (*identity.User, error) {
	f.mu.Lock()
	f.UpdateCalls++
	f.LastNewEmail = newEmail
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeProvider) Close() error { return nil }

// ---- status sink ----

type recordingReporter struct {
	mu       sync.Mutex
	statuses []models.Status
}

func (r *recordingReporter) Report(st models.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, st)
}

func (r *recordingReporter) last() models.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return models.Status{}
	}
	return r.statuses[len(r.statuses)-1]
}

// ---- wiring ----

type fixture struct {
	db       *sql.DB
	provider *fakeProvider
	profile  *ProfileStore
	manager  *Manager
}

func newFixture(t *testing.T, opts ...ManagerOption) *fixture {
	t.Helper()
	db := setupDB(t)
	prov := &fakeProvider{}
	profile := newProfile(t, db, ProfileConfig{})
	m := NewManager(prov, profile, nil, opts...)
	profile.SetReporter(m)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return &fixture{db: db, provider: prov, profile: profile, manager: m}
}

func (f *fixture) fill(email, password string) {
	f.manager.SetEmailInput(email)
	f.manager.SetPasswordInput(password)
}
