package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/tutorbill/invoice-service/internal/app"
	"github.com/tutorbill/invoice-service/internal/app/httpapi"
	"github.com/tutorbill/invoice-service/internal/app/storage/postgres"
	"github.com/tutorbill/invoice-service/internal/config"
	"github.com/tutorbill/invoice-service/pkg/logger"
)

func main() {
	_ = godotenv.Load() // allow .env for local runs

	cfg, err := config.FromEnv()
	if err != nil {
		logger.NewDefault("server").WithError(err).Fatal("load configuration")
	}

	log := logger.New("server", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores := buildStores(ctx, cfg, log)

	application := app.New(app.Config{
		SecretKey:  cfg.SecretKey,
		BcryptCost: cfg.BcryptCost,
	}, stores, log)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           httpapi.NewHandler(application, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}

// buildStores connects to Postgres when DATABASE_URL is set, falling back to
// the in-memory store otherwise. A failed ping is logged but does not stop
// the listener from starting.
func buildStores(ctx context.Context, cfg config.Config, log *logger.Logger) app.Stores {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set; using in-memory store")
		return app.Stores{}
	}

	db, err := sqlx.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Warn("open database; using in-memory store")
		return app.Stores{}
	}

	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Warn("database unreachable at startup; continuing")
	} else if err := postgres.Apply(ctx, db.DB); err != nil {
		log.WithError(err).Warn("apply migrations")
	} else {
		log.Info("connected to postgres")
	}

	store := postgres.New(db)
	return app.Stores{Users: store, Invoices: store}
}
