package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"coderhack/internal/domain"
	"coderhack/internal/entrypoint/httpapi"
	"coderhack/internal/logging"
	"coderhack/internal/usecase"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	log := logging.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal(err)
	}
}

// run serves until SIGINT/SIGTERM. Deferred cleanup runs on every return path.
func run(cfg appConfig, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CollectorAddr != "" {
		mp, err := initMetrics(ctx, cfg.CollectorAddr)
		if err != nil {
			log.WithError(err).Warn("metrics export disabled")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = mp.Shutdown(shutdownCtx)
			}()
		}
	}

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return pkgerrors.Wrapf(err, "open %s store", cfg.StoreBackend)
	}
	defer closeStore()

	uc := usecase.New(repo, log)
	if cfg.SeedDemoUsers {
		seedIfNeeded(ctx, uc, log)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.New(uc, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on :%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return pkgerrors.Wrap(err, "server failed")
		}
	case <-ctx.Done():
		log.Info("gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}
	return nil
}

var demoUsers = []struct {
	UserID   string
	Username string
	Score    int
}{
	{"user123", "John Doe", 45},
	{"ninja01", "Ada", 12},
	{"master7", "Grace", 88},
}

// seedIfNeeded registers the demo users that are missing.
func seedIfNeeded(ctx context.Context, uc *usecase.Usecase, log logrus.FieldLogger) {
	for _, d := range demoUsers {
		if _, err := uc.RegisterUser(ctx, d.UserID, d.Username); err != nil {
			if !errors.Is(err, domain.ErrAlreadyExists) {
				log.WithError(err).WithField("user_id", d.UserID).Warn("seed register failed")
			}
			continue
		}
		if _, err := uc.UpdateScore(ctx, d.UserID, d.Score); err != nil {
			log.WithError(err).WithField("user_id", d.UserID).Warn("seed score failed")
		}
	}
}
