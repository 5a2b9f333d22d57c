package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets variables that would leak into viper from the host.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"ENVIRONMENT", "DEBUG", "LOG_LEVEL", "MODEL_PATH", "PREPROCESSORS_PATH"} {
		if _, ok := os.LookupEnv(name); ok {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func load(t *testing.T) *Config {
	t.Helper()
	cfg, err := fromViper(newViper())
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := load(t)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "ml/talent_flow_classifier.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "ml/talent_flow_preprocessors.json", cfg.Artifacts.PreprocessorsPath)
	assert.Equal(t, []string{"http://localhost", "http://localhost:4200", "https://talent-flow-webapp.web.app"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
	assert.NoError(t, cfg.Validate())
}

func TestEnvironmentProfiles(t *testing.T) {
	tests := []struct {
		env      string
		debug    bool
		logLevel string
		origins  []string
	}{
		{"testing", true, "info", []string{"http://localhost", "http://localhost:4200"}},
		{"production", false, "warn", []string{"https://talent-flow-webapp.web.app"}},
		{"PRODUCTION", false, "warn", []string{"https://talent-flow-webapp.web.app"}},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TALENTFLOW_APP_ENVIRONMENT", tt.env)
			cfg := load(t)

			assert.Equal(t, tt.debug, cfg.App.Debug)
			assert.Equal(t, tt.logLevel, cfg.App.LogLevel)
			assert.Equal(t, tt.origins, cfg.Server.CORS.AllowedOrigins)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLegacyEnvironmentNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("MODEL_PATH", "/models/forest.json")
	t.Setenv("PREPROCESSORS_PATH", "s3://ml/pre.json")

	cfg := load(t)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "ERROR", cfg.App.LogLevel)
	assert.Equal(t, "/models/forest.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "s3://ml/pre.json", cfg.Artifacts.PreprocessorsPath)
}

func TestPrefixedNamesWinOverLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODEL_PATH", "/legacy.json")
	t.Setenv("TALENTFLOW_ARTIFACTS_MODELPATH", "/current.json")

	cfg := load(t)
	assert.Equal(t, "/current.json", cfg.Artifacts.ModelPath)
}

func TestExplicitValuesBeatProfile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
app:
  environment: production
  logLevel: info
server:
  port: "9000"
  cors:
    allowedOrigins: ["https://example.org"]
`), 0600))

	v := newViper()
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.False(t, cfg.App.Debug)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.CORS.AllowedOrigins)
}

func TestAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALENTFLOW_SERVER_APIKEYS", "one, two ,,")
	cfg := load(t)
	assert.Equal(t, []string{"one", "two"}, cfg.Server.APIKeys)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:     "unknown environment",
			mutate:   func(c *Config) { c.App.Environment = "staging" },
			errorMsg: "invalid environment",
		},
		{
			name:     "missing model path",
			mutate:   func(c *Config) { c.Artifacts.ModelPath = "" },
			errorMsg: "model path is required",
		},
		{
			name:     "missing preprocessors path",
			mutate:   func(c *Config) { c.Artifacts.PreprocessorsPath = "" },
			errorMsg: "preprocessors path is required",
		},
		{
			name:     "bad default format",
			mutate:   func(c *Config) { c.App.DefaultFormat = "xml" },
			errorMsg: "invalid default format: xml",
		},
		{
			name: "cache without address",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.Address = ""
			},
			errorMsg: "cache address is required",
		},
		{
			name:     "bad tls mode",
			mutate:   func(c *Config) { c.Server.TLS.Mode = "bogus" },
			errorMsg: "TLS configuration error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := load(t)
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errorMsg)
		})
	}
}
