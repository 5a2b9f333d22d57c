package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks applies API key fallbacks from environment variables
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("TALENTFLOW_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitList(apiKeysEnv)
		}
	}
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "" {
		c.Server.TLS.Mode = "disabled"
	}

	// Set default client auth policy for mutual TLS if not specified
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}

	// Set default TLS version if not specified
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// isSensitive reports whether an environment variable should be masked.
func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "key") || strings.Contains(lower, "password") || strings.Contains(lower, "token")
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"TALENTFLOW_APP_ENVIRONMENT",
		"TALENTFLOW_APP_LOGLEVEL",
		"TALENTFLOW_ARTIFACTS_MODELPATH",
		"TALENTFLOW_ARTIFACTS_PREPROCESSORSPATH",
		"TALENTFLOW_ARTIFACTS_STORE_ENDPOINT",
		"TALENTFLOW_ARTIFACTS_STORE_SECRETKEY",
		"TALENTFLOW_SERVER_PORT",
		"TALENTFLOW_SERVER_HOST",
		"TALENTFLOW_CACHE_ADDRESS",
		"TALENTFLOW_CACHE_PASSWORD",
		"TALENTFLOW_VAULT_ENABLED",
		// Legacy names
		"ENVIRONMENT",
		"DEBUG",
		"LOG_LEVEL",
		"MODEL_PATH",
		"PREPROCESSORS_PATH",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitive(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Environment: %s (debug: %t)", c.App.Environment, c.App.Debug)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Model: %s", c.Artifacts.ModelPath)
	log.Printf("[CONFIG] Preprocessors: %s", c.Artifacts.PreprocessorsPath)
	if c.Artifacts.Store.Endpoint != "" {
		log.Printf("[CONFIG] Object Store: %s", c.Artifacts.Store.Endpoint)
	}
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] CORS Origins: %s", strings.Join(c.Server.CORS.AllowedOrigins, ", "))
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	if len(c.Server.APIKeys) > 0 {
		log.Printf("[CONFIG] API Keys: ***%d CONFIGURED***", len(c.Server.APIKeys))
	}
	log.Printf("[CONFIG] Cache Enabled: %t", c.Cache.Enabled)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
