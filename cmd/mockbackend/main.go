// Command mockbackend serves an in-memory SAMARTH API for local development.
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

	"github.com/samarth/admin-console/internal/devbackend"
	"github.com/samarth/admin-console/internal/pkg/config"
	"github.com/samarth/admin-console/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mockbackend: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "samarth-mockbackend"})
	if cfg.UsesDefaultSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	srv, err := devbackend.New(devbackend.Options{
		Secret:       cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		SeedPassword: cfg.SeedPassword,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build dev backend")
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", httpSrv.Addr).Msg("mock SAMARTH API listening, seeded users: superadmin, admin")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
}
