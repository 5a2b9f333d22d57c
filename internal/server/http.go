package server

import (
	"context"
	"time"

	"talentflow/internal/config"
	apperrors "talentflow/internal/errors"
	"talentflow/internal/observability"
	"talentflow/internal/types"
)

// Classifier is the core operation the HTTP layer exposes.
type Classifier interface {
	Classify(ctx context.Context, resume *types.ResumeRecord) (*types.ClassificationResult, error)
	Summary() types.BundleSummary
	CacheStats() map[string]any
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// InfoResponse is served on the root path.
type InfoResponse struct {
	API     string `json:"api"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig          config.TLSConfig
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	CORS config.CORSConfig

	// Debug exposes error detail in 500 responses.
	Debug bool

	Classifier    Classifier
	Observability *observability.ObservabilityManager
	Logger        *apperrors.Logger
}

// NewServer creates a Server around a loaded classifier.
func NewServer(appCfg *config.Config, version string, clf Classifier, om *observability.ObservabilityManager, logger *apperrors.Logger) *Server {
	logger = apperrors.OrNop(logger)
	cfg := appCfg.Server

	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	rateLimit := cfg.RateLimit
	var rateLimiter *RateLimiter
	if rateLimit.Enabled {
		rateLimiter = NewRateLimiter(rateLimit.RequestsPerMin, rateLimit.Window, rateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Version:         version,
		AppConfig:       appCfg,
		TLSConfig:       cfg.TLS,
		APIKeys:         apiKeyMap,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		MaxRequestSize:  cfg.MaxRequestSize,
		RateLimit:       &rateLimit,
		RateLimiter:     rateLimiter,
		CORS:            cfg.CORS,
		Debug:           appCfg.App.Debug,
		Classifier:      clf,
		Observability:   om,
		Logger:          logger,
	}
}
