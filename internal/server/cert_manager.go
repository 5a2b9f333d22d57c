package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"talentflow/internal/config"
	"talentflow/internal/errors"
)

// expiryWarning is how close to NotAfter a certificate is reported unhealthy.
const expiryWarning = 7 * 24 * time.Hour

// CertificateManager holds the serving certificate and client CA pool and
// swaps them when the files on disk change.
type CertificateManager struct {
	mu sync.RWMutex

	cert   *tls.Certificate
	caPool *x509.CertPool
	expiry time.Time

	lastReloadTime    time.Time
	reloadCount       int64
	reloadFailures    int64
	lastReloadError   string
	lastReloadSuccess bool

	watcher *CertWatcher
	config  config.TLSConfig
	logger  *errors.Logger
	now     func() time.Time
}

// NewCertificateManager loads the configured certificate material.
func NewCertificateManager(tlsConfig config.TLSConfig, logger *errors.Logger) (*CertificateManager, error) {
	m := &CertificateManager{
		config: tlsConfig,
		logger: errors.OrNop(logger),
		now:    time.Now,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// load reads certificate, key and CA into the manager.
func (m *CertificateManager) load() error {
	certPEM, err := m.material(m.config.CertContent, m.config.CertFile, "certificate")
	if err != nil {
		return err
	}
	keyPEM, err := m.material(m.config.KeyContent, m.config.KeyFile, "private key")
	if err != nil {
		return err
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return fmt.Errorf("failed to load server certificate: %w", err)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse server certificate: %w", err)
	}
	cert.Leaf = leaf

	var pool *x509.CertPool
	if m.config.Mode == config.TLSModeMutual {
		caPEM, err := m.material(m.config.CAContent, m.config.CAFile, "CA certificate")
		if err != nil {
			return err
		}
		pool = x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return fmt.Errorf("failed to parse CA certificate")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cert = &cert
	m.caPool = pool
	m.expiry = leaf.NotAfter
	m.lastReloadTime = m.now()
	return nil
}

func (m *CertificateManager) material(content, file, what string) ([]byte, error) {
	if content != "" {
		return []byte(content), nil
	}
	if file == "" {
		return nil, fmt.Errorf("no %s configured", what)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return data, nil
}

// Reload re-reads the certificate files. A failed reload keeps the
// previous certificate in service.
func (m *CertificateManager) Reload() error {
	err := m.load()

	m.mu.Lock()
	m.reloadCount++
	m.lastReloadSuccess = err == nil
	if err != nil {
		m.reloadFailures++
		m.lastReloadError = err.Error()
	} else {
		m.lastReloadError = ""
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.LogError(err, "Certificate reload failed, keeping previous certificate")
		return err
	}
	m.logger.Info("Certificates reloaded", "expires_at", m.Expiry())
	return nil
}

// TLSConfig returns a server config that always serves the current material.
func (m *CertificateManager) TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: m.config.MinTLSVersion(),
		ClientAuth: m.config.ClientAuthType(),
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			m.mu.RLock()
			defer m.mu.RUnlock()
			return m.cert, nil
		},
		GetConfigForClient: func(*tls.ClientHelloInfo) (*tls.Config, error) {
			m.mu.RLock()
			defer m.mu.RUnlock()
			return &tls.Config{
				MinVersion:   m.config.MinTLSVersion(),
				ClientAuth:   m.config.ClientAuthType(),
				Certificates: []tls.Certificate{*m.cert},
				ClientCAs:    m.caPool,
			}, nil
		},
	}
}

// StartWatching enables hot reload for file based certificates.
func (m *CertificateManager) StartWatching() error {
	if !m.config.AutoReload.Enabled || !m.config.UsesFiles() {
		return nil
	}
	caFile := ""
	if m.config.Mode == config.TLSModeMutual && m.config.CAContent == "" {
		caFile = m.config.CAFile
	}

	watcher := NewCertWatcher(m.config.CertFile, m.config.KeyFile, caFile,
		m.config.AutoReload.DebounceDelay, func() { _ = m.Reload() }, m.logger)
	if err := watcher.Start(); err != nil {
		return err
	}

	m.mu.Lock()
	m.watcher = watcher
	m.mu.Unlock()
	return nil
}

// Stop stops the file watcher, if any.
func (m *CertificateManager) Stop() error {
	m.mu.RLock()
	watcher := m.watcher
	m.mu.RUnlock()
	if watcher == nil {
		return nil
	}
	return watcher.Stop()
}

// Expiry returns NotAfter of the serving certificate.
func (m *CertificateManager) Expiry() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiry
}

// Status summarizes certificate health for /health.
func (m *CertificateManager) Status() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	remaining := m.expiry.Sub(m.now())
	status := map[string]any{
		"mode":                 m.config.Mode,
		"expires_at":           m.expiry.UTC().Format(time.RFC3339),
		"days_until_expiry":    int(remaining.Hours() / 24),
		"healthy":              remaining > expiryWarning,
		"auto_reload":          m.watcher != nil && m.watcher.IsRunning(),
		"last_reload":          m.lastReloadTime.UTC().Format(time.RFC3339),
		"reload_count":         m.reloadCount,
		"reload_failure_count": m.reloadFailures,
	}
	if m.reloadCount > 0 {
		status["last_reload_success"] = m.lastReloadSuccess
	}
	if m.lastReloadError != "" {
		status["last_reload_error"] = m.lastReloadError
	}
	return status
}
