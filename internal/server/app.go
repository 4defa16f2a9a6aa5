// Package server initializes and runs the authentication server.
// It selects the account store, applies schema migrations when a
// database is configured, wires the services and starts the HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avoronkov/authcore/internal/logging"
	"github.com/avoronkov/authcore/internal/server/config"
	"github.com/avoronkov/authcore/internal/server/httpapi"
	"github.com/avoronkov/authcore/internal/server/repositories"
	"github.com/avoronkov/authcore/internal/server/repositories/accounts"
	"github.com/avoronkov/authcore/internal/server/services"
	"github.com/avoronkov/authcore/internal/server/token"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	repo, err := initRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	key, err := cfg.SigningKey()
	if err != nil {
		return nil, err
	}

	tm, err := token.NewManager(key, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	as := services.NewAccountService(repo, services.NewBcryptHasher())
	auth := services.NewAuthService(as, tm)

	srv, err := httpapi.NewServer(cfg.Addr, logger, auth, as, tm)
	if err != nil {
		return nil, err
	}

	return &App{config: cfg, logger: logger, server: srv}, nil
}

// initRepository picks the account store: Postgres when a DSN is
// configured, an in-memory store otherwise.
func initRepository(ctx context.Context, cfg *config.Config, logger logging.Logger) (accounts.Repository, error) {
	if cfg.DatabaseDSN == "" {
		logger.Info(ctx, "No database DSN configured, using in-memory account store")
		return accounts.NewMemoryRepository(), nil
	}

	db, err := repositories.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repositories.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return accounts.NewPostgresRepository(db), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
