package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/api"
	"github.com/persistorai/recommender/internal/artifact"
	"github.com/persistorai/recommender/internal/config"
	"github.com/persistorai/recommender/internal/scraper"
	"github.com/persistorai/recommender/internal/service"
)

// app holds the wired services behind the router.
type app struct {
	store *artifact.Store
	deps  *api.RouterDeps
	log   *logrus.Logger
}

// buildApp wires the artifact store and services from configuration. Nothing
// is loaded here: snapshots load on first use or via warm.
func buildApp(cfg *config.Config, log *logrus.Logger) (*app, error) {
	var opts []artifact.Option
	if cfg.BucketSyncEnabled() {
		syncer, err := artifact.NewBucketSync(artifact.BucketConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey.Value(),
			SecretKey: cfg.S3SecretKey.Value(),
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.ArtifactBucket,
			Prefix:    cfg.ArtifactPrefix,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("creating bucket sync: %w", err)
		}
		opts = append(opts, artifact.WithSyncer(syncer), artifact.WithSyncTimeout(cfg.ArtifactSyncTimeout))
	}

	store := artifact.New(cfg.ArtifactDir, log, opts...)

	products := service.NewProductService(store, log)

	var live service.LivePricer
	if cfg.ScraperEnabled {
		live = scraper.New(cfg.ScraperBaseURL, cfg.ScraperTimeout, log)
	}

	deps := &api.RouterDeps{
		Log:          log,
		Products:     products,
		Matcher:      service.NewMatchService(store, cfg.MatchMinScore, log),
		Recommender:  service.NewRecommendService(store, service.DefaultRerankPolicy(), cfg.RecommendCacheSize, log),
		Prices:       service.NewPriceService(products, live, log),
		Artifacts:    store,
		CORSOrigins:  cfg.CORSOrigins,
		CORSAllowAll: cfg.CORSAllowAll,
		Version:      config.Version,
		CatalogLimit: cfg.CatalogLimit,
		DefaultTopN:  cfg.DefaultTopN,
		MaxTopN:      cfg.MaxTopN,
	}

	return &app{store: store, deps: deps, log: log}, nil
}

// warm loads the snapshot and the similarity model ahead of the first request.
func (a *app) warm(ctx context.Context) {
	if err := a.store.EnsureModelsLoaded(ctx); err != nil {
		a.log.WithError(err).Warn("warm start interrupted")
		return
	}

	a.log.WithFields(logrus.Fields{
		"products":         a.store.Stats().Products,
		"models_available": a.store.ModelsAvailable(),
	}).Info("artifacts warmed")
}
