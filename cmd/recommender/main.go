// Command recommender serves product recommendations over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/api"
	"github.com/persistorai/recommender/internal/config"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	setLogLevel(log, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func setLogLevel(log *logrus.Logger, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("log_level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(cfg, log)
	if err != nil {
		return err
	}

	if cfg.WarmOnStart {
		go app.warm(ctx)
	}

	srv := newHTTPServer(cfg.Addr(), api.NewRouter(app.deps))

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := newHTTPServer(cfg.MetricsAddr(), metricsMux)

	errCh := make(chan error, 2)
	for _, s := range []*http.Server{srv, metricsSrv} {
		go func() {
			log.WithField("addr", s.Addr).Info("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"version":      config.Version,
		"artifact_dir": cfg.ArtifactDir,
		"bucket_sync":  cfg.BucketSyncEnabled(),
		"scraper":      cfg.ScraperEnabled,
	}).Info("recommender started")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-errCh:
		log.WithError(runErr).Error("listener failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, s := range []*http.Server{srv, metricsSrv} {
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).WithField("addr", s.Addr).Warn("graceful shutdown failed")
		}
	}

	log.Info("shutdown complete")

	return runErr
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
