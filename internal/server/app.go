// Package server initializes and runs the vault server: it opens the
// database, applies migrations, seeds the bootstrap account and serves the
// HTTP API until an OS signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/yebin817/passvault/internal/cryptox"
	"github.com/yebin817/passvault/internal/logging"
	"github.com/yebin817/passvault/internal/server/api"
	"github.com/yebin817/passvault/internal/server/config"
	"github.com/yebin817/passvault/internal/server/repositories/repomanager"
	"github.com/yebin817/passvault/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	users  *services.UserService
	vault  *services.VaultService
	reset  *services.ResetService
	repos  repomanager.RepositoryManager
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cipher, err := cryptox.New(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		users:  services.NewUserService(db, rm, cfg),
		vault:  services.NewVaultService(db, rm, cipher),
		reset:  services.NewResetService(db, rm, cfg),
		repos:  rm,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	handler := api.NewHandler(app.users, app.vault, app.reset, []byte(app.config.SecretKey), app.logger)
	s := api.NewServer(app.config.EndpointAddr, handler, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
		return
	}

	err := app.users.EnsureBootstrapUser(ctx,
		app.config.BootstrapUsername, app.config.BootstrapEmail, app.config.BootstrapPassword)
	if err != nil {
		app.logger.Error(ctx, "bootstrap user error", "error", err)
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
