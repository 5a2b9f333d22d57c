package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Precedence Order:
// 1. Vault (if configured) - Highest priority, secrets only
// 2. Environment Variables (TALENTFLOW_*, plus the legacy names below)
// 3. Config File values
// 4. Environment profile defaults (development, testing, production)
// 5. Default values - Lowest priority
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Artifacts     ArtifactsConfig     `mapstructure:"artifacts"`
	Server        ServerConfig        `mapstructure:"server"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// Environments
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// AppConfig holds general application configuration
type AppConfig struct {
	Environment      string   `mapstructure:"environment"`
	Debug            bool     `mapstructure:"debug"`
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ArtifactsConfig locates the fitted model and preprocessors.
// Paths may be local files or s3://bucket/key objects.
type ArtifactsConfig struct {
	ModelPath         string      `mapstructure:"modelPath"`
	PreprocessorsPath string      `mapstructure:"preprocessorsPath"`
	ManifestPath      string      `mapstructure:"manifestPath"`
	Store             StoreConfig `mapstructure:"store"`
}

// StoreConfig holds object store connection settings
type StoreConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	UseSSL    bool   `mapstructure:"useSSL"`
	Region    string `mapstructure:"region"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	MaxRequestSize  int64         `mapstructure:"maxRequestSize"`

	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`     // TLS mode: "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)
	CAFile   string `mapstructure:"caFile"`   // CA certificate file for client cert verification (PEM, required for mutual mode)

	// Certificate content (used when loaded from Vault instead of files)
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string `mapstructure:"minVersion"`       // "1.2", "1.3"
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // "require", "request", "verify"

	AutoReload AutoReloadConfig `mapstructure:"autoReload"`
}

// AutoReloadConfig controls reloading of file based certificates
type AutoReloadConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Idle time after which a client's limiter is dropped
}

// CORSConfig holds cross-origin settings for the web client
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowedOrigins"`
	AllowCredentials bool     `mapstructure:"allowCredentials"`
}

// CacheConfig holds the optional Redis prediction cache configuration
type CacheConfig struct {
	Enabled        bool                 `mapstructure:"enabled"`
	Address        string               `mapstructure:"address"`
	Password       string               `mapstructure:"password"`
	DB             int                  `mapstructure:"db"`
	KeyPrefix      string               `mapstructure:"keyPrefix"`
	TTL            time.Duration        `mapstructure:"ttl"`
	PoolSize       int                  `mapstructure:"poolSize"`
	DialTimeout    time.Duration        `mapstructure:"dialTimeout"`
	ReadTimeout    time.Duration        `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration        `mapstructure:"writeTimeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	Classification ClassificationMetricsConfig `mapstructure:"classification"`
	Infrastructure InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// ClassificationMetricsConfig holds classification metrics configuration
type ClassificationMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackConfidence bool `mapstructure:"trackConfidence"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackCache      bool `mapstructure:"trackCache"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// legacyEnv maps config keys to the environment variable names used by
// earlier deployments of the service.
var legacyEnv = map[string]string{
	"app.environment":             "ENVIRONMENT",
	"app.debug":                   "DEBUG",
	"app.logLevel":                "LOG_LEVEL",
	"artifacts.modelPath":         "MODEL_PATH",
	"artifacts.preprocessorsPath": "PREPROCESSORS_PATH",
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := newViper()
	log.Println("[CONFIG] Applied default configuration values")
	log.Println("[CONFIG] Configured environment variable handling with prefix 'TALENTFLOW'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/talentflow/")
	v.AddConfigPath("$HOME/.talentflow")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/talentflow/, $HOME/.talentflow, .")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	config, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TALENTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		envName := "TALENTFLOW_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envName, legacy)
	}
	return v
}

// fromViper unmarshals v and fills environment profile defaults for values
// v does not set.
func fromViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.App.Environment = strings.ToLower(strings.TrimSpace(config.App.Environment))
	profile := profileFor(config.App.Environment)
	if !v.IsSet("app.debug") {
		config.App.Debug = profile.debug
	}
	if !v.IsSet("app.logLevel") {
		config.App.LogLevel = profile.logLevel
	}
	if !v.IsSet("server.cors.allowedOrigins") {
		config.Server.CORS.AllowedOrigins = append([]string(nil), profile.corsOrigins...)
	}

	config.applyFallbacks()
	log.Println("[CONFIG] Applied environment profile and configuration fallbacks")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, ok := profiles[c.App.Environment]; !ok {
		return fmt.Errorf("invalid environment: %q (must be 'development', 'testing', or 'production')", c.App.Environment)
	}

	if c.Artifacts.ModelPath == "" {
		return fmt.Errorf("model path is required (set TALENTFLOW_ARTIFACTS_MODELPATH or MODEL_PATH)")
	}
	if c.Artifacts.PreprocessorsPath == "" {
		return fmt.Errorf("preprocessors path is required (set TALENTFLOW_ARTIFACTS_PREPROCESSORSPATH or PREPROCESSORS_PATH)")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.Cache.Enabled && c.Cache.Address == "" {
		return fmt.Errorf("cache address is required when the cache is enabled")
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// IsProduction reports whether the service runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}
