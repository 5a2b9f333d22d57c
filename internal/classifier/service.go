// Package classifier composes feature extraction, encoding and inference
// into the single classify operation.
package classifier

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"talentflow/internal/artifact"
	"talentflow/internal/cache"
	"talentflow/internal/errors"
	"talentflow/internal/features"
	"talentflow/internal/inference"
	"talentflow/internal/model"
	"talentflow/internal/observability"
	"talentflow/internal/types"
	"talentflow/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "talentflow.classifier"

// Service classifies resumes against one loaded bundle. It is safe for
// concurrent use: the bundle and model are read-only after construction.
type Service struct {
	clf       model.Classifier
	bundle    *artifact.Bundle
	extractor *features.Extractor

	store     cache.Store
	keyPrefix string
	ttl       time.Duration

	logger *errors.Logger
	om     *observability.ObservabilityManager
	tracer trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables result caching in store.
func WithCache(store cache.Store, keyPrefix string, ttl time.Duration) Option {
	return func(s *Service) {
		s.store = store
		s.keyPrefix = keyPrefix
		s.ttl = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *errors.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithObservability records spans and metrics through om.
func WithObservability(om *observability.ObservabilityManager) Option {
	return func(s *Service) { s.om = om }
}

// WithClock fixes the instant ongoing experiences end at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.extractor = &features.Extractor{Now: now} }
}

// New builds a Service. The classifier and bundle must be compatible.
func New(clf model.Classifier, bundle *artifact.Bundle, opts ...Option) (*Service, error) {
	if clf == nil || bundle == nil {
		return nil, errors.NewArtifactError(errors.ErrCodeMissingArtifact, "classifier and bundle are required", nil)
	}
	if err := artifact.CheckCompatible(clf, bundle); err != nil {
		return nil, err
	}

	s := &Service{
		clf:       clf,
		bundle:    bundle,
		extractor: features.NewExtractor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = errors.OrNop(s.logger)
	s.tracer = s.om.Tracer(tracerName)
	return s, nil
}

// Version returns the loaded bundle version.
func (s *Service) Version() string { return s.bundle.Version }

// Summary describes the loaded bundle.
func (s *Service) Summary() types.BundleSummary {
	return s.bundle.Summary(s.clf.NumFeatures())
}

// CacheStats reports the prediction cache state.
func (s *Service) CacheStats() map[string]any {
	return cache.Stats(s.store)
}

// Classify predicts the experience level of resume. Only a missing userId
// is rejected; all other content is accepted and degrades gracefully.
func (s *Service) Classify(ctx context.Context, resume *types.ResumeRecord) (*types.ClassificationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "classifier.classify")
	defer span.End()

	result, cached, err := s.classify(ctx, resume)
	latency := time.Since(start)

	userID := ""
	if resume != nil {
		userID = resume.UserID
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.om.TrackClassification(ctx, "", 0, latency, err)
		s.logger.LogError(err, "Classification failed", "user_id", userID)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("classifier.level", result.PredictedExperienceLevel),
		attribute.Float64("classifier.confidence", result.ConfidenceScore),
		attribute.Bool("classifier.cached", cached),
	)
	s.om.TrackClassification(ctx, result.PredictedExperienceLevel, result.ConfidenceScore, latency, nil)
	s.logger.Info("Resume classified",
		"user_id", userID,
		"level", result.PredictedExperienceLevel,
		"confidence", fmt.Sprintf("%.2f", result.ConfidenceScore),
		"hash", shortHash(result.ContentHash),
		"cached", cached,
		"latency_ms", latency.Milliseconds())
	return result, nil
}

func (s *Service) classify(ctx context.Context, resume *types.ResumeRecord) (*types.ClassificationResult, bool, error) {
	if resume == nil || !resume.HasUserID() {
		return nil, false, errors.NewValidationError(errors.ErrCodeInvalidInput, "userId is required", nil)
	}

	hash, err := utils.ContentHash(resume)
	if err != nil {
		return nil, false, errors.NewInternalError(errors.ErrCodeInvalidFormat, "resume could not be hashed", err)
	}

	key := cache.Key(s.keyPrefix, s.bundle.Version, hash)
	if cached, ok := s.lookup(ctx, key, hash, resume.UserID); ok {
		return cached, true, nil
	}

	_, extractSpan := s.tracer.Start(ctx, "extract")
	feats := s.extractor.Extract(resume)
	extractSpan.SetAttributes(
		attribute.Float64("features.total_years", feats.TotalYearsExperience),
		attribute.Int("features.jobs", feats.NumberOfJobs),
	)
	extractSpan.End()

	_, encodeSpan := s.tracer.Start(ctx, "encode")
	vector := s.bundle.Encode(feats)
	encodeSpan.SetAttributes(attribute.Int("encoding.width", len(vector)))
	encodeSpan.End()

	_, inferSpan := s.tracer.Start(ctx, "infer")
	pred, err := inference.Classify(vector, s.clf, s.bundle.Labels)
	if err != nil {
		inferSpan.RecordError(err)
		inferSpan.End()
		if appErr, ok := errors.As(err); ok {
			appErr.WithContext("user_id", resume.UserID)
		}
		return nil, false, err
	}
	inferSpan.SetAttributes(attribute.Int("inference.class", pred.Class))
	inferSpan.End()

	result := &types.ClassificationResult{
		UserID:                   resume.UserID,
		PredictedExperienceLevel: pred.Label,
		ConfidenceScore:          pred.Confidence,
		ContentHash:              hash,
	}
	s.save(ctx, key, result)
	return result, false, nil
}

// lookup returns a cached result. Cache failures, and entries that do not
// belong to this payload, are logged and treated as misses.
func (s *Service) lookup(ctx context.Context, key, hash, userID string) (*types.ClassificationResult, bool) {
	if s.store == nil {
		return nil, false
	}

	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Prediction cache lookup failed", "error", err.Error())
		}
		s.om.RecordCacheLookup(ctx, false)
		return nil, false
	}

	var result types.ClassificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err.Error())
		s.om.RecordCacheLookup(ctx, false)
		return nil, false
	}
	if result.ContentHash != hash || result.UserID != userID || result.PredictedExperienceLevel == "" {
		s.logger.Warn("Discarding mismatched cache entry", "key", key)
		s.om.RecordCacheLookup(ctx, false)
		return nil, false
	}
	s.om.RecordCacheLookup(ctx, true)
	return &result, true
}

func (s *Service) save(ctx context.Context, key string, result *types.ClassificationResult) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("Prediction cache write failed", "error", err.Error())
	}
}

// shortHash abbreviates a content hash for log lines.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
