// Command console serves the SAMARTH admin console.
//
// @title        SAMARTH Admin Console API
// @version      1.0
// @description  Session and integration endpoints of the SAMARTH admin console.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/api"
	"github.com/samarth/admin-console/internal/core/service"
	"github.com/samarth/admin-console/internal/infrastructure/backend"
	"github.com/samarth/admin-console/internal/infrastructure/config"
	opshttp "github.com/samarth/admin-console/internal/infrastructure/http"
	"github.com/samarth/admin-console/internal/infrastructure/queue"
	"github.com/samarth/admin-console/internal/infrastructure/storage"
	"github.com/samarth/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "samarth-console",
	})

	// --- Session storage ---
	store, closeStore, err := storage.Open(ctx, cfg.Storage, logger.Component("storage"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	// --- Backend and session ---
	client := backend.New(backend.Config{
		BaseURL: cfg.BackendURL(),
		Timeout: cfg.Backend.Timeout,
	}, logger.Component("backend"))
	session := service.NewSessionStore(store, client, logger.Component("session"))

	// The store logs a failed hydration and resolves logged out.
	go func() { _ = session.Initialize(ctx) }()

	// --- Sync workers ---
	dispatcher := queue.NewDispatcher(cfg.Sync.Workers, service.NewSyncService(session, client, logger.Component("sync")), logger.Component("dispatcher"))
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// --- HTTP ---
	consoleRouter, err := api.NewRouter(api.Options{
		Session:        session,
		Backend:        client,
		Queue:          dispatcher,
		Log:            logger.Component("http"),
		LoginRateLimit: cfg.LoginRateLimit,
	})
	if err != nil {
		return err
	}
	opsRouter := opshttp.NewOpsRouter(store, session)

	errCh := make(chan error, 2)
	serve := func(name, port string, h http.Handler) *http.Server {
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("listener", name).Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s listener: %w", name, err)
			}
		}()
		return srv
	}

	log.Info().
		Str("env", cfg.Env).
		Str("api_base", cfg.BackendURL()).
		Str("storage", cfg.Storage.Driver).
		Msg("starting console")

	servers := []*http.Server{
		serve("console", cfg.Port, consoleRouter),
		serve("ops", cfg.OpsPort, opsRouter),
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		return err
	}

	return shutdown(servers, log)
}

func shutdown(servers []*http.Server, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Str("addr", srv.Addr).Msg("shutdown")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
