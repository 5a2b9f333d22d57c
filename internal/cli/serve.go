package cli

import (
	"fmt"

	"talentflow/internal/classifier"
	"talentflow/internal/observability"
	"talentflow/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP classification service",
	Long: `Start an HTTP server that classifies resumes.

Available endpoints:
- GET /: Service info
- POST /classify-resume/: Classify a resume JSON payload
- GET /health: Health check with artifact, cache and certificate status
- GET /stats: Rate limiting and cache statistics

The artifact bundle is loaded before the listener starts; a bundle that
is missing or incompatible aborts startup.

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	override := func(flag string, target *string) {
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetString(flag)
		}
	}
	override("port", &cfg.Server.Port)
	override("host", &cfg.Server.Host)
	override("tls-mode", &cfg.Server.TLS.Mode)
	override("cert-file", &cfg.Server.TLS.CertFile)
	override("key-file", &cfg.Server.TLS.KeyFile)
	override("ca-file", &cfg.Server.TLS.CAFile)

	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer shutdownObservability(om, logger)

	svc, err := classifier.NewFromConfig(ctx, cfg, logger, om)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close prediction cache", "error", err.Error())
		}
	}()

	logger.Info("Artifacts loaded", "version", svc.Version())
	return server.NewServer(cfg, Version, svc, om, logger).Start(ctx)
}
