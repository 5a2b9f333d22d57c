package classifier

import (
	"context"
	"time"

	"talentflow/internal/artifact"
	"talentflow/internal/cache"
	"talentflow/internal/config"
	"talentflow/internal/errors"
	"talentflow/internal/model"
	"talentflow/internal/observability"
)

// LoadArtifacts reads the configured model and preprocessors, from disk or
// the object store.
func LoadArtifacts(ctx context.Context, cfg config.ArtifactsConfig, logger *errors.Logger, om *observability.ObservabilityManager) (model.Classifier, *artifact.Bundle, error) {
	start := time.Now()

	source, err := artifact.NewSource(artifact.StoreConfig{
		Endpoint:  cfg.Store.Endpoint,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		UseSSL:    cfg.Store.UseSSL,
		Region:    cfg.Store.Region,
	})
	if err != nil {
		return nil, nil, errors.NewArtifactError(errors.ErrCodeMissingArtifact, "object store client could not be created", err)
	}

	loader := &artifact.Loader{Source: source, ManifestPath: cfg.ManifestPath, Logger: logger}
	clf, bundle, err := loader.Load(ctx, cfg.ModelPath, cfg.PreprocessorsPath)
	om.RecordArtifactLoad(ctx, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return clf, bundle, nil
}

// NewFromConfig loads the artifacts and connects the optional prediction
// cache. An unreachable cache is logged and skipped.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *errors.Logger, om *observability.ObservabilityManager, opts ...Option) (*Service, error) {
	logger = errors.OrNop(logger)

	clf, bundle, err := LoadArtifacts(ctx, cfg.Artifacts, logger, om)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(ctx, cfg.Cache, logger)
	if err != nil {
		logger.LogError(err, "Prediction cache disabled")
		store = nil
	}

	base := []Option{WithLogger(logger), WithObservability(om)}
	if store != nil {
		base = append(base, WithCache(store, cfg.Cache.KeyPrefix, cfg.Cache.TTL))
	}
	return New(clf, bundle, append(base, opts...)...)
}

// Close releases the prediction cache.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
