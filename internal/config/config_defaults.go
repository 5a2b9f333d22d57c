package config

import (
	"time"

	"github.com/spf13/viper"
)

// profile holds the values that change between environments.
type profile struct {
	debug       bool
	logLevel    string
	corsOrigins []string
}

const webAppOrigin = "https://talent-flow-webapp.web.app"

var profiles = map[string]profile{
	EnvDevelopment: {
		debug:       true,
		logLevel:    "debug",
		corsOrigins: []string{"http://localhost", "http://localhost:4200", webAppOrigin},
	},
	EnvTesting: {
		debug:       true,
		logLevel:    "info",
		corsOrigins: []string{"http://localhost", "http://localhost:4200"},
	},
	EnvProduction: {
		debug:       false,
		logLevel:    "warn",
		corsOrigins: []string{webAppOrigin},
	},
}

// profileFor returns the profile for env, falling back to development.
func profileFor(env string) profile {
	if p, ok := profiles[env]; ok {
		return p
	}
	return profiles[EnvDevelopment]
}

// setDefaults sets the default configuration values.
// app.debug, app.logLevel and server.cors.allowedOrigins are left unset so
// the environment profile can fill them.
func setDefaults(v *viper.Viper) {
	// App Configuration
	v.SetDefault("app.environment", EnvDevelopment)
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Artifacts
	v.SetDefault("artifacts.modelPath", "ml/talent_flow_classifier.json")
	v.SetDefault("artifacts.preprocessorsPath", "ml/talent_flow_preprocessors.json")
	v.SetDefault("artifacts.manifestPath", "")
	v.SetDefault("artifacts.store.endpoint", "")
	v.SetDefault("artifacts.store.accessKey", "")
	v.SetDefault("artifacts.store.secretKey", "")
	v.SetDefault("artifacts.store.useSSL", true)
	v.SetDefault("artifacts.store.region", "")

	// Server Configuration
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.maxRequestSize", 1024*1024)
	v.SetDefault("server.cors.allowCredentials", true)

	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.tls.autoReload.enabled", true)
	v.SetDefault("server.tls.autoReload.debounceDelay", time.Second)

	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", 10*time.Minute)

	// Prediction cache
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.keyPrefix", "talentflow")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.poolSize", 10)
	v.SetDefault("cache.dialTimeout", 2*time.Second)
	v.SetDefault("cache.readTimeout", 500*time.Millisecond)
	v.SetDefault("cache.writeTimeout", 500*time.Millisecond)
	v.SetDefault("cache.circuitBreaker.enabled", true)
	v.SetDefault("cache.circuitBreaker.maxRequests", 3)
	v.SetDefault("cache.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("cache.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("cache.circuitBreaker.minRequests", 5)
	v.SetDefault("cache.circuitBreaker.failureThreshold", 0.6)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.objectStore", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "talentflow")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.classification.enabled", true)
	v.SetDefault("observability.customMetrics.classification.trackDuration", true)
	v.SetDefault("observability.customMetrics.classification.trackConfidence", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCache", true)

	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
