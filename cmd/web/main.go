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

	"github.com/AdamBeresnev/tryouts/internal/clock"
	"github.com/AdamBeresnev/tryouts/internal/config"
	"github.com/AdamBeresnev/tryouts/internal/db"
	"github.com/AdamBeresnev/tryouts/internal/events"
	"github.com/AdamBeresnev/tryouts/internal/logger"
	"github.com/AdamBeresnev/tryouts/internal/service"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TRYOUTS_CONFIG_PATH"))
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer log.Sync()
	zap.ReplaceGlobals(log)

	database, err := db.InitDB(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.NATS.URL != "" {
		client, err := events.Connect(ctx, cfg.NATS, log)
		if err != nil {
			return err
		}
		defer client.Close()
		notifier = events.NewPublisher(client.JetStream(), cfg.NATS.SubjectPrefix, cfg.NATS.Timeout, log)
		log.Info("publishing events to NATS", zap.String("stream", cfg.NATS.Stream))
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	app := newApplication(database, sessionManager, clock.System{}, notifier)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down server", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
