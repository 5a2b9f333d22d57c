package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"talentflow/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault. Every path points at
// a KVv2 secret.
type VaultSecrets struct {
	// APIKeys holds a "keys" field with comma-separated values
	APIKeys string `mapstructure:"apiKeys"`
	// ObjectStore holds "access_key" and "secret_key", and optionally
	// "endpoint" and "cache_password"
	ObjectStore string `mapstructure:"objectStore"`
	// TLSCerts holds PEM content in "cert", "key" and "ca"
	TLSCerts string `mapstructure:"tlsCerts"`
}

// SecretReader reads KVv2 secrets. *VaultClient implements it.
type SecretReader interface {
	GetSecretV2(path string) (*VaultSecret, error)
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration.
// It returns nil when Vault is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	logger = errors.OrNop(logger)
	if !config.Enabled {
		logger.Debug("Vault integration disabled")
		return nil, nil
	}

	logger.Debug("Initializing Vault client",
		"address", config.Address,
		"namespace", config.Namespace,
		"token_file", config.TokenFile,
		"has_token", config.Token != "")

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}
	client, err := api.NewClient(vaultConfig)
	if err != nil {
		logger.LogError(err, "Failed to create Vault client")
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)
	logger.Debug("Vault token configured", "token_prefix", token[:min(len(token), 8)]+"...")

	health, err := client.Sys().Health()
	if err != nil {
		logger.LogError(err, "Failed to connect to Vault", "address", config.Address)
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	logger.Info("Successfully connected to Vault",
		"address", config.Address,
		"version", health.Version,
		"sealed", health.Sealed)

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		logger.Debug("Reading Vault token from file", "file", config.TokenFile)
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// VaultSecret represents a secret read from Vault's KVv2 engine.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// GetSecretV2 retrieves a secret from a Vault KVv2 store.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	vc.logger.Debug("Reading secret from Vault", "path", path)
	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		vc.logger.LogError(err, "Failed to read secret from Vault", "path", path)
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return parseKVv2(secret.Data, path)
}

// parseKVv2 unpacks the data and metadata.version fields of a KVv2 read.
func parseKVv2(raw map[string]any, path string) (*VaultSecret, error) {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}

	metadata, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue parses version value from various types
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// String returns the string stored under key.
func (s *VaultSecret) String(key string) (string, bool) {
	value, ok := s.Data[key].(string)
	return value, ok
}

// maskSecret keeps the first and last four characters of long values.
func maskSecret(value string) string {
	switch {
	case len(value) > 8:
		return value[:4] + "****" + value[len(value)-4:]
	case value != "":
		return "****"
	default:
		return ""
	}
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	logger = errors.OrNop(logger)
	if !config.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	logger.Info("Loading secrets from Vault",
		"api_keys_path", config.Vault.Secrets.APIKeys,
		"object_store_path", config.Vault.Secrets.ObjectStore,
		"tls_certs_path", config.Vault.Secrets.TLSCerts)

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize Vault client")
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if client == nil {
		return nil
	}
	return applySecrets(client, config, logger)
}

// applySecrets copies every configured secret from r into config.
func applySecrets(r SecretReader, config *Config, logger *errors.Logger) error {
	paths := config.Vault.Secrets

	if err := loadAPIKeys(r, paths.APIKeys, config, logger); err != nil {
		return err
	}
	if err := loadObjectStoreCredentials(r, paths.ObjectStore, config, logger); err != nil {
		return err
	}
	if err := loadTLSCerts(r, paths.TLSCerts, config, logger); err != nil {
		return err
	}

	logger.Info("Successfully completed applying secrets from Vault")
	return nil
}

func loadAPIKeys(r SecretReader, path string, config *Config, logger *errors.Logger) error {
	if path == "" {
		return nil
	}

	secret, err := r.GetSecretV2(path)
	if err != nil {
		return fmt.Errorf("failed to load API keys from vault: %w", err)
	}
	value, ok := secret.String("keys")
	if !ok {
		return fmt.Errorf("failed to load API keys from vault: key 'keys' missing or not a string in %s", path)
	}

	keys := splitList(value)
	if len(keys) == 0 {
		logger.Warn("No API keys found in Vault", "path", path)
		return nil
	}
	config.Server.APIKeys = keys
	logger.Info("API keys loaded from Vault", "count", len(keys))
	return nil
}

func loadObjectStoreCredentials(r SecretReader, path string, config *Config, logger *errors.Logger) error {
	if path == "" {
		return nil
	}

	secret, err := r.GetSecretV2(path)
	if err != nil {
		return fmt.Errorf("failed to load object store credentials from vault: %w", err)
	}

	accessKey, _ := secret.String("access_key")
	secretKey, _ := secret.String("secret_key")
	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("object store secret at %s must contain access_key and secret_key", path)
	}

	store := &config.Artifacts.Store
	store.AccessKey = accessKey
	store.SecretKey = secretKey
	if endpoint, ok := secret.String("endpoint"); ok && endpoint != "" {
		store.Endpoint = endpoint
	}
	if password, ok := secret.String("cache_password"); ok && password != "" {
		config.Cache.Password = password
	}

	logger.Info("Object store credentials loaded from Vault",
		"access_key", maskSecret(accessKey),
		"endpoint", store.Endpoint,
		"version", secret.Version)
	return nil
}

func loadTLSCerts(r SecretReader, path string, config *Config, logger *errors.Logger) error {
	if path == "" {
		return nil
	}

	secret, err := r.GetSecretV2(path)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
	}
	if err := validateTLSDeprecatedFields(secret); err != nil {
		return err
	}

	loaded := loadTLSCertificateContent(&config.Server.TLS, secret)
	logger.Info("TLS certificates loaded from Vault", "certificates_loaded", loaded)
	return nil
}

// loadTLSCertificateContent copies the PEM fields present in secret and
// returns how many were set.
func loadTLSCertificateContent(t *TLSConfig, secret *VaultSecret) int {
	targets := map[string]*string{
		"cert": &t.CertContent,
		"key":  &t.KeyContent,
		"ca":   &t.CAContent,
	}

	count := 0
	for key, target := range targets {
		if content, ok := secret.String(key); ok && content != "" {
			*target = content
			count++
		}
	}
	return count
}

// validateTLSDeprecatedFields rejects secrets that still store file paths.
func validateTLSDeprecatedFields(secret *VaultSecret) error {
	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		if _, found := secret.Data[field]; found {
			return fmt.Errorf("vault TLS configuration error: '%s' field is no longer supported. Store certificate content in '%s' field instead",
				field, strings.TrimSuffix(field, "_file"))
		}
	}
	return nil
}
