// Package server wires identityd: account storage, the account service and
// the gRPC and HTTP listeners.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/skillsync/internal/logging"
	"github.com/dmitrijs2005/skillsync/internal/server/config"
	"github.com/dmitrijs2005/skillsync/internal/server/httpapi"
	"github.com/dmitrijs2005/skillsync/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/skillsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/skillsync/internal/server/services"

	gs "github.com/dmitrijs2005/skillsync/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
}

// NewApp opens storage and builds the account service. An empty DSN keeps
// accounts in memory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, "json", c.LogLevel)
	app := &App{config: c, logger: logger}

	var repo accounts.Repository
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, accounts are kept in memory")
		repo = accounts.NewMemoryRepository()
	} else {
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		repo = repomanager.NewPostgresRepositoryManager().Accounts(db)
	}

	app.accounts = services.NewAccountService(repo, services.LogMailer{Logger: logger}, logger, c)
	if app.db != nil {
		app.accounts.UseTx(repomanager.NewPostgresRepositoryManager().TxFunc(app.db))
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.accounts)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is done or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close failed", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
