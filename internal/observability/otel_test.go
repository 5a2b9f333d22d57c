package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentflow/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestManager(t *testing.T, full *config.Config) *ObservabilityManager {
	t.Helper()
	om, err := NewObservabilityManager(ObservabilityConfig{
		ServiceName:    "talentflow-test",
		ServiceVersion: "test",
		Enabled:        true,
		SampleRate:     1,
	}, full)
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om
}

func collect(t *testing.T, om *ObservabilityManager) map[string]metricdata.Metrics {
	t.Helper()
	require.Len(t, om.readers, 1)
	reader, ok := om.readers[0].(*sdkmetric.ManualReader)
	require.True(t, ok)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestTrackClassification(t *testing.T) {
	om := newTestManager(t, nil)
	ctx := context.Background()

	om.TrackClassification(ctx, "Júnior", 0.8, 20*time.Millisecond, nil)
	om.TrackClassification(ctx, "Júnior", 0.6, 10*time.Millisecond, nil)
	om.TrackClassification(ctx, "", 0, time.Millisecond, errors.New("boom"))

	metrics := collect(t, om)

	counter, ok := metrics["talentflow_classifications_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[attribute.Distinct]int64{}
	for _, dp := range counter.DataPoints {
		counts[dp.Attributes.Equivalent()] = dp.Value
	}
	success := attribute.NewSet(attribute.String("level", "Júnior"), attribute.Bool("success", true))
	failure := attribute.NewSet(attribute.String("level", "none"), attribute.Bool("success", false))
	assert.Equal(t, int64(2), counts[success.Equivalent()])
	assert.Equal(t, int64(1), counts[failure.Equivalent()])

	confidence, ok := metrics["talentflow_confidence_score"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, confidence.DataPoints, 1)
	assert.Equal(t, uint64(2), confidence.DataPoints[0].Count)
	assert.InDelta(t, 1.4, confidence.DataPoints[0].Sum, 1e-9)

	_, ok = metrics["talentflow_classification_duration_seconds"]
	assert.True(t, ok)
}

func TestCustomMetricSwitches(t *testing.T) {
	full := &config.Config{}
	full.Observability.CustomMetrics.Classification.Enabled = true
	full.Observability.CustomMetrics.Infrastructure.TrackCache = false
	om := newTestManager(t, full)
	ctx := context.Background()

	om.TrackClassification(ctx, "Pleno", 0.5, time.Millisecond, nil)
	om.RecordCacheLookup(ctx, true)
	om.RecordRateLimitHit(ctx)

	metrics := collect(t, om)
	assert.Contains(t, metrics, "talentflow_classifications_total")
	assert.NotContains(t, metrics, "talentflow_confidence_score")
	assert.NotContains(t, metrics, "talentflow_classification_duration_seconds")
	assert.NotContains(t, metrics, "talentflow_cache_lookups_total")
	assert.NotContains(t, metrics, "talentflow_rate_limit_hits_total")
}

func TestInfrastructureMetrics(t *testing.T) {
	om := newTestManager(t, nil)
	ctx := context.Background()

	om.RecordCacheLookup(ctx, true)
	om.RecordCacheLookup(ctx, false)
	om.RecordRateLimitHit(ctx, attribute.String("limit_type", "ip"))
	om.RecordArtifactLoad(ctx, 150*time.Millisecond, nil)

	metrics := collect(t, om)
	lookups, ok := metrics["talentflow_cache_lookups_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, lookups.DataPoints, 2)

	load, ok := metrics["talentflow_artifact_load_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.InDelta(t, 0.15, load.DataPoints[0].Sum, 1e-9)
}

func TestDisabledManagerIsNoop(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	om.TrackClassification(ctx, "Sênior", 0.9, time.Second, nil)
	om.RecordCacheLookup(ctx, false)

	_, span := om.Tracer("test").Start(ctx, "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, om.Shutdown(ctx))

	var nilManager *ObservabilityManager
	nilManager.TrackClassification(ctx, "Sênior", 0.9, time.Second, nil)
	nilManager.RecordArtifactLoad(ctx, time.Second, nil)
	assert.NotNil(t, nilManager.Tracer("test"))
	assert.NoError(t, nilManager.Shutdown(ctx))
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.ServiceName = "talentflow"
	cfg.Observability.Enabled = true
	cfg.Observability.Prometheus.Enabled = true
	cfg.Observability.Prometheus.Port = "9100"

	obs := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.True(t, obs.Prometheus.Enabled)
	assert.Equal(t, "9100", obs.Prometheus.Port)
	assert.False(t, ForCLI(obs).Prometheus.Enabled)

	cfg.Observability.ServiceVersion = "pinned"
	assert.Equal(t, "pinned", GetObservabilityConfig(cfg, "1.2.3").ServiceVersion)
}
