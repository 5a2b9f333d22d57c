package config

import (
	"crypto/tls"
	"fmt"
)

// TLS modes
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
	TLSModeMutual   = "mutual"
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	t := c.Server.TLS

	if err := validateTLSMode(t); err != nil {
		return err
	}
	return validateTLSVersion(t)
}

func validateTLSMode(t TLSConfig) error {
	switch t.Mode {
	case TLSModeDisabled:
		return nil
	case TLSModeServer:
		return validateServerModeTLS(t)
	case TLSModeMutual:
		return validateMutualModeTLS(t)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", t.Mode)
	}
}

func validateServerModeTLS(t TLSConfig) error {
	if err := validateCertAndKeyRequired(t, "server mode"); err != nil {
		return err
	}
	return validateSingleSources(t.pemSources()[:2])
}

func validateMutualModeTLS(t TLSConfig) error {
	if err := validateCertAndKeyRequired(t, "mutual mode"); err != nil {
		return err
	}
	if t.CAFile == "" && t.CAContent == "" {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	if err := validateSingleSources(t.pemSources()); err != nil {
		return err
	}
	return validateClientAuthPolicy(t)
}

func validateCertAndKeyRequired(t TLSConfig, mode string) error {
	if (t.CertFile == "" && t.CertContent == "") || (t.KeyFile == "" && t.KeyContent == "") {
		return fmt.Errorf("TLS certificate and key are required for %s (provide either files or content)", mode)
	}
	return nil
}

// pemSource names one PEM input that may come from a file or inline content.
type pemSource struct {
	name    string
	file    string
	content string
}

// pemSources lists cert, key and CA in that order.
func (t TLSConfig) pemSources() []pemSource {
	return []pemSource{
		{name: "cert", file: t.CertFile, content: t.CertContent},
		{name: "key", file: t.KeyFile, content: t.KeyContent},
		{name: "ca", file: t.CAFile, content: t.CAContent},
	}
}

func validateSingleSources(sources []pemSource) error {
	for _, s := range sources {
		if s.file != "" && s.content != "" {
			return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", s.name, s.name)
		}
	}
	return nil
}

func validateClientAuthPolicy(t TLSConfig) error {
	switch t.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", t.ClientAuthPolicy)
	}
}

func validateTLSVersion(t TLSConfig) error {
	switch t.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", t.MinVersion)
	}
}

// MinTLSVersion maps MinVersion to a crypto/tls constant. Empty means 1.2.
func (t TLSConfig) MinTLSVersion() uint16 {
	if t.MinVersion == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// ClientAuthType maps the configured policy for mutual mode.
func (t TLSConfig) ClientAuthType() tls.ClientAuthType {
	if t.Mode != TLSModeMutual {
		return tls.NoClientCert
	}
	switch t.ClientAuthPolicy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}

// UsesFiles reports whether the server certificate is read from disk.
func (t TLSConfig) UsesFiles() bool {
	return t.CertContent == "" && t.KeyContent == ""
}
