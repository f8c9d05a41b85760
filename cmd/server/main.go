// Command server runs the rental marketplace HTTP API.
//
// It loads configuration from the environment (optionally via a .env file),
// opens the SQLite database and runs migrations, wires the payment gateway,
// document store, search index and token issuer, registers all routes, and
// serves until interrupted. Shutdown is graceful: in-flight requests get a
// drain window before the process exits.
//
// @title       Renterra Rental Marketplace API
// @version     1.0
// @description REST backend for peer-to-peer rentals: listings, rental requests, agreements, payments, and reviews.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/renterra/go-rental-backend/internal/auth"
	"github.com/renterra/go-rental-backend/internal/config"
	httpapi "github.com/renterra/go-rental-backend/internal/http"
	"github.com/renterra/go-rental-backend/internal/observability"
	"github.com/renterra/go-rental-backend/internal/payments"
	"github.com/renterra/go-rental-backend/internal/repo"
	"github.com/renterra/go-rental-backend/internal/search"
	"github.com/renterra/go-rental-backend/internal/storage"
	"github.com/renterra/go-rental-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op unless enabled).
	if cfg.OTEL.Enabled {
		shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				log.Warn().Err(err).Msg("otel shutdown")
			}
		}()
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	var gateway payments.Gateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = payments.NewStripeGateway(cfg.Payment.StripeSecretKey)
		log.Info().Msg("payments: stripe gateway")
	} else {
		gateway = payments.NewFakeGateway()
		log.Warn().Msg("payments: STRIPE_SECRET_KEY unset, using in-memory fake gateway")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()

	deps := httpapi.Deps{
		DB:      db,
		Store:   store,
		Index:   search.NewProductIndex(),
		Issuer:  auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Gateway: gateway,
		Cfg:     cfg,
	}
	productSvc, err := httpapi.RegisterRoutes(r, deps)
	if err != nil {
		return err
	}

	// Rebuild the search index from persisted listings before accepting traffic.
	if err := productSvc.WarmIndex(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
