package cli

import (
	"context"
	"fmt"
	"time"

	"talentflow/internal/classifier"
	"talentflow/internal/config"
	"talentflow/internal/errors"
	"talentflow/internal/observability"

	"github.com/spf13/cobra"
)

// newService builds the classifier for a one-shot command. The returned
// cleanup closes the cache and flushes telemetry.
func newService(ctx context.Context, cfg *config.Config, logger *errors.Logger, opts ...classifier.Option) (*classifier.Service, func(), error) {
	om, err := observability.NewObservabilityManager(
		observability.ForCLI(observability.GetObservabilityConfig(cfg, Version)), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	svc, err := classifier.NewFromConfig(ctx, cfg, logger, om, opts...)
	if err != nil {
		shutdownObservability(om, logger)
		return nil, nil, err
	}

	cleanup := func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close prediction cache", "error", err.Error())
		}
		shutdownObservability(om, logger)
	}
	return svc, cleanup, nil
}

func shutdownObservability(om *observability.ObservabilityManager, logger *errors.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		logger.Warn("Failed to shut down observability", "error", err.Error())
	}
}

// clockOption reads --now. An empty flag keeps the wall clock.
func clockOption(cmd *cobra.Command) ([]classifier.Option, error) {
	raw, _ := cmd.Flags().GetString("now")
	if raw == "" {
		return nil, nil
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("--now must be an RFC3339 timestamp, got %q", raw), err)
	}
	return []classifier.Option{classifier.WithClock(func() time.Time { return now })}, nil
}

// outputConfig reads the shared --format and --output flags.
func outputConfig(cmd *cobra.Command, cfg *config.Config) (string, string) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.App.DefaultFormat
	}
	if format == "" {
		format = "json"
	}
	output, _ := cmd.Flags().GetString("output")
	return format, output
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Output format: json, text, markdown (default from config)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().String("now", "", "Reference instant for ongoing experiences (RFC3339)")
}
