package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/config"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
	"github.com/dmitrijs2005/skillsync/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionAPI is the part of services.Manager the commands drive.
type sessionAPI interface {
	Snapshot() models.Session
	SetEmailInput(v string)
	SetPasswordInput(v string)
	ToggleMode()
	Register(ctx context.Context, seed models.ProfileSeed) *services.Operation
	Login(ctx context.Context) *services.Operation
	SendPasswordReset(ctx context.Context) *services.Operation
	UpdateIdentityEmail(ctx context.Context, newEmail string) *services.Operation
	SignOut(ctx context.Context) error
	Close(ctx context.Context) error
}

// profileAPI is the part of services.ProfileStore the commands drive.
type profileAPI interface {
	Snapshot() models.ProfileDetails
	SetField(ctx context.Context, f models.Field, value string) error
	UpdateDetails(ctx context.Context, u models.ProfileUpdate) services.Result
	ProfileImageRef() string
	SaveProfileImage(ctx context.Context, src services.ImageSource) services.Result
	SyncPendingImages(ctx context.Context) (int, error)
	Close()
}

// accountAPI covers provider calls that bypass the session manager.
type accountAPI interface {
	ConfirmPasswordReset(ctx context.Context, token, password string) error
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	session sessionAPI
	profile profileAPI
	account accountAPI
	reader  *bufio.Reader
	out     io.Writer

	closers []func() error

	mu   sync.Mutex
	mode Mode
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated
}

// Run starts the connectivity watcher and the REPL, and tears everything
// down when the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close(context.Background())

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to SkillSync (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close shuts down the session manager, the profile store and every
// resource opened by NewApp, in reverse order.
func (a *App) Close(ctx context.Context) {
	if err := a.session.Close(ctx); err != nil {
		a.logger.Warn(ctx, "close session", "error", err)
	}
	a.profile.Close()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(ctx, "close resource", "error", err)
		}
	}
	a.closers = nil
}

// StartOnlineStatusWatcher pings the identity service every interval until
// ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.account.Ping(pctx)
	cancel()
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func newApp(cfg *config.Config, logger logging.Logger, session sessionAPI, profile profileAPI, account accountAPI) *App {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &App{
		config:  cfg,
		logger:  logger,
		session: session,
		profile: profile,
		account: account,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}
