package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/expensetracker/internal/api"
	"github.com/punchamoorthee/expensetracker/internal/config"
	"github.com/punchamoorthee/expensetracker/internal/events"
	"github.com/punchamoorthee/expensetracker/internal/logging"
	"github.com/punchamoorthee/expensetracker/internal/service"
	"github.com/punchamoorthee/expensetracker/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := store.Migrate(cfg.DataBackend, cfg.DSN()); err != nil {
			logger.WithError(err).Fatal("unable to migrate database")
		}
	}

	// Initialize Layers
	expenseStore, err := store.Open(ctx, cfg.DataBackend, cfg.DSN())
	if err != nil {
		logger.WithError(err).WithField("backend", cfg.DataBackend).Fatal("unable to open expense store")
	}
	defer expenseStore.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.WithError(err).Fatal("unable to connect to message broker")
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	ledger := service.NewExpenseLedger(expenseStore, publisher, logger)
	handler := api.NewHandler(ledger, logger)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        api.NewRouter(handler),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	logger.WithFields(logrus.Fields{"port": cfg.Port, "backend": cfg.DataBackend}).Info("server starting")
	if err := serve(ctx, srv, logger); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
	logger.Info("server stopped")
}

// serve runs srv until ctx is done or the listener fails, then shuts it down.
func serve(ctx context.Context, srv *http.Server, logger *logrus.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
