package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/waryduchess/NorthwestBank-Backend/internal/db"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers"
	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository/postgres"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/account"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/auth"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/auth/tokenmanager"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/ledger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/notifier"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger   logger.Logger
	notifier *notifier.Notifier
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.RefreshToken())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	userService := user.NewService(user.DefaultHasher, storage)
	authService, err := auth.NewService(tokenManager, userService)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	accountService := account.NewService(storage)
	ledgerService := ledger.NewService(storage)

	// Notification delivery is optional, the ledger stages rows either way
	var notifierService *notifier.Notifier
	if c.AmqpURL != "" {
		notifierService, err = notifier.New(c.AmqpURL, storage, logger)
		if err != nil {
			return nil, fmt.Errorf("error while creating notifier. Err: %w", err)
		}
	}

	mux := handlers.NewRouter(authService, accountService, ledgerService, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		notifier:   notifierService,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	var notifierStopped <-chan struct{}
	if s.notifier != nil {
		notifierStopped = s.notifier.Run(srvCtx)
	}

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	if notifierStopped != nil {
		<-notifierStopped
	}

	return err
}
