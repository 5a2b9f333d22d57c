package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"talentflow/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig holds configuration for observability
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// Metrics holds all custom metrics for TalentFlow
type Metrics struct {
	// Classification metrics
	Classifications        metric.Int64Counter
	ClassificationDuration metric.Float64Histogram
	ConfidenceScore        metric.Float64Histogram

	// Infrastructure metrics
	CacheLookups         metric.Int64Counter
	RateLimitHits        metric.Int64Counter
	ArtifactLoadDuration metric.Float64Histogram
}

// ObservabilityManager manages OpenTelemetry setup. A nil manager, or one
// built with Enabled false, records nothing.
type ObservabilityManager struct {
	config         ObservabilityConfig
	fullConfig     *config.Config
	resource       *resource.Resource
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	readers        []sdkmetric.Reader
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewObservabilityManager creates a new observability manager
func NewObservabilityManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*ObservabilityManager, error) {
	om := &ObservabilityManager{config: obsConfig, fullConfig: fullConfig}
	if !obsConfig.Enabled {
		return om, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(obsConfig.ServiceName),
			semconv.ServiceVersion(obsConfig.ServiceVersion),
			attribute.String("service.instance.id", om.getServiceInstanceID()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}
	om.resource = res

	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := om.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

// initTracing sets up OpenTelemetry tracing
func (om *ObservabilityManager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.config.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.otlpEnabled():
		exporter, err = om.createOTLPExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.resource),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(om.config.SampleRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// initMetrics sets up OpenTelemetry metrics
func (om *ObservabilityManager) initMetrics() error {
	readers, err := om.setupMetricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(om.resource)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(opts...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.readers = readers
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(om.config.ServiceName))
	if err != nil {
		return err
	}
	om.metrics = metrics
	return nil
}

// setupMetricReaders sets up all metric readers based on configuration
func (om *ObservabilityManager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	interval := om.getMetricsCollectionInterval()

	if om.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.otlpEnabled() {
		exporter, err := om.createOTLPMetricsExporter()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.config.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(om.config.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		server := StartPrometheusServer(mux, om.config.Prometheus.Port)
		om.shutdownFuncs = append(om.shutdownFuncs, server.Shutdown)
		readers = append(readers, reader)
	}

	// A manual reader keeps instruments live when nothing exports them.
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

// newMetrics creates all custom instruments on meter
func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.Classifications, err = meter.Int64Counter(
		"talentflow_classifications_total",
		metric.WithDescription("Total number of resume classifications"),
	); err != nil {
		return nil, fmt.Errorf("failed to create classifications metric: %w", err)
	}

	if m.ClassificationDuration, err = meter.Float64Histogram(
		"talentflow_classification_duration_seconds",
		metric.WithDescription("Time spent classifying a resume"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create classification duration metric: %w", err)
	}

	if m.ConfidenceScore, err = meter.Float64Histogram(
		"talentflow_confidence_score",
		metric.WithDescription("Confidence of the predicted experience level"),
		metric.WithExplicitBucketBoundaries(0.25, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1),
	); err != nil {
		return nil, fmt.Errorf("failed to create confidence metric: %w", err)
	}

	if m.CacheLookups, err = meter.Int64Counter(
		"talentflow_cache_lookups_total",
		metric.WithDescription("Prediction cache lookups by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache lookups metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"talentflow_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	if m.ArtifactLoadDuration, err = meter.Float64Histogram(
		"talentflow_artifact_load_duration_seconds",
		metric.WithDescription("Time spent loading the model and preprocessors"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create artifact load metric: %w", err)
	}

	return m, nil
}

// enabled reports whether om records anything.
func (om *ObservabilityManager) enabled() bool {
	return om != nil && om.config.Enabled && om.metrics != nil
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.enabled() {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Tracer returns a tracer for the service
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if om == nil || !om.config.Enabled || om.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown gracefully shuts down all observability components
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// TrackClassification records the outcome of one classification. level is
// empty for failures.
func (om *ObservabilityManager) TrackClassification(ctx context.Context, level string, confidence float64, duration time.Duration, err error) {
	if !om.enabled() || !om.customMetrics().Classification.Enabled {
		return
	}

	if level == "" {
		level = "none"
	}
	attrs := metric.WithAttributes(
		attribute.String("level", level),
		attribute.Bool("success", err == nil),
	)
	om.metrics.Classifications.Add(ctx, 1, attrs)

	if om.customMetrics().Classification.TrackDuration {
		om.metrics.ClassificationDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if err == nil && om.customMetrics().Classification.TrackConfidence {
		om.metrics.ConfidenceScore.Record(ctx, confidence, metric.WithAttributes(attribute.String("level", level)))
	}
}

// RecordCacheLookup counts a prediction cache lookup.
func (om *ObservabilityManager) RecordCacheLookup(ctx context.Context, hit bool) {
	if !om.enabled() || !om.customMetrics().Infrastructure.TrackCache {
		return
	}
	om.metrics.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

// RecordRateLimitHit counts a rejected request.
func (om *ObservabilityManager) RecordRateLimitHit(ctx context.Context, attributes ...attribute.KeyValue) {
	if !om.enabled() || !om.customMetrics().Infrastructure.TrackRateLimits {
		return
	}
	om.metrics.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attributes...))
}

// RecordArtifactLoad records how long loading the bundle took.
func (om *ObservabilityManager) RecordArtifactLoad(ctx context.Context, duration time.Duration, err error) {
	if !om.enabled() {
		return
	}
	om.metrics.ArtifactLoadDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.Bool("success", err == nil)))
}

// customMetrics returns the metric switches, all on when no config is set.
func (om *ObservabilityManager) customMetrics() config.CustomMetricsConfig {
	if om.fullConfig == nil {
		return config.CustomMetricsConfig{
			Classification: config.ClassificationMetricsConfig{Enabled: true, TrackDuration: true, TrackConfidence: true},
			Infrastructure: config.InfrastructureMetricsConfig{TrackRateLimits: true, TrackCache: true},
		}
	}
	return om.fullConfig.Observability.CustomMetrics
}

// No-op exporter for when no trace backend is configured
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

func (om *ObservabilityManager) otlpEnabled() bool {
	return om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled
}

// createOTLPExporter creates an OTLP HTTP trace exporter
func (om *ObservabilityManager) createOTLPExporter() (trace.SpanExporter, error) {
	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

// createOTLPMetricsExporter creates an OTLP HTTP metrics exporter
func (om *ObservabilityManager) createOTLPMetricsExporter() (sdkmetric.Exporter, error) {
	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return exporter, nil
}

// getServiceInstanceID returns the service instance ID from config
func (om *ObservabilityManager) getServiceInstanceID() string {
	if om.fullConfig != nil && om.fullConfig.Observability.ServiceInstance != "" {
		return om.fullConfig.Observability.ServiceInstance
	}
	return om.config.ServiceName + "-1"
}

// getMetricsCollectionInterval returns the configured metrics collection interval
func (om *ObservabilityManager) getMetricsCollectionInterval() time.Duration {
	if om.fullConfig != nil && om.fullConfig.Observability.Metrics.CollectionInterval > 0 {
		return om.fullConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}
