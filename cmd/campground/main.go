// Command campground runs the campsite management API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ombrage/campground/internal/app"
	"github.com/ombrage/campground/internal/app/httpapi"
	"github.com/ombrage/campground/internal/app/metrics"
	"github.com/ombrage/campground/internal/app/services/bookings"
	"github.com/ombrage/campground/internal/app/services/inventories"
	"github.com/ombrage/campground/internal/app/storage/postgres"
	"github.com/ombrage/campground/internal/auth"
	"github.com/ombrage/campground/internal/config"
	"github.com/ombrage/campground/internal/database"
	"github.com/ombrage/campground/internal/middleware"
	"github.com/ombrage/campground/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	_ = godotenv.Load() // allow .env for local runs

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewDefault("campground").WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	log := logger.New("campground", cfg.Logging.Level, os.Stdout)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores := app.Stores{}
	if cfg.Database.DSN != "" {
		store, err := postgres.New(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := database.Migrate(store.DB()); err != nil {
			return err
		}
		log.Info("database migrations applied")

		stores = app.Stores{
			Users:       store,
			Campsites:   store,
			Bookings:    store,
			Inventories: store,
			Orders:      store,
			Products:    store,
			Events:      store,
		}
	} else {
		log.Warn("no database DSN configured, using in-memory store")
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.StaffSecret, cfg.Auth.GuestSecret, cfg.Auth.StaffTTL, cfg.Auth.GuestTTL)
	application := app.New(stores, tokens, app.Options{
		Bookings:    bookings.Options{RevalidateOverlapOnUpdate: cfg.Bookings.RevalidateOverlapOnUpdate},
		Inventories: inventories.Options{RecheckAlternationOnUpdate: cfg.Inventories.RecheckAlternationOnUpdate},
	}, log)

	m := metrics.New()
	authn := middleware.NewAuthenticator(tokens, application.Stores.Users, log.WithField("component", "auth"))
	handler := httpapi.NewHandler(application, authn, m, log.WithField("component", "httpapi"))

	var root http.Handler = handler.Router()
	if cfg.RateLimit.RequestsPerMinute > 0 {
		root = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst).Middleware(root)
	}
	root = middleware.CORS(cfg.CORS.AllowedOrigins)(root)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
