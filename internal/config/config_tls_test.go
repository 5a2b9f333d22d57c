package config

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name     string
		tls      TLSConfig
		errorMsg string
	}{
		{
			name: "disabled mode",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name: "server mode with files",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
		},
		{
			name: "server mode with content",
			tls: TLSConfig{
				Mode:        "server",
				CertContent: "cert-content",
				KeyContent:  "key-content",
				MinVersion:  "1.3",
			},
		},
		{
			name: "mutual mode valid",
			tls: TLSConfig{
				Mode:             "mutual",
				CertFile:         "/path/to/cert.pem",
				KeyFile:          "/path/to/key.pem",
				CAContent:        "ca-content",
				ClientAuthPolicy: "verify",
			},
		},
		{
			name:     "invalid mode",
			tls:      TLSConfig{Mode: "invalid"},
			errorMsg: "invalid TLS mode: invalid",
		},
		{
			name:     "server mode missing key",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem"},
			errorMsg: "TLS certificate and key are required for server mode",
		},
		{
			name: "duplicate cert sources",
			tls: TLSConfig{
				Mode:        "server",
				CertFile:    "/path/to/cert.pem",
				CertContent: "cert-content",
				KeyFile:     "/path/to/key.pem",
			},
			errorMsg: "cannot specify both certFile and certContent",
		},
		{
			name: "duplicate key sources",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				KeyContent: "key-content",
			},
			errorMsg: "cannot specify both keyFile and keyContent",
		},
		{
			name: "server mode ignores duplicate CA sources",
			tls: TLSConfig{
				Mode:      "server",
				CertFile:  "/path/to/cert.pem",
				KeyFile:   "/path/to/key.pem",
				CAFile:    "/path/to/ca.pem",
				CAContent: "ca-content",
			},
		},
		{
			name: "mutual mode missing CA",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			errorMsg: "CA certificate is required for mutual TLS mode",
		},
		{
			name: "mutual mode duplicate CA sources",
			tls: TLSConfig{
				Mode:      "mutual",
				CertFile:  "/path/to/cert.pem",
				KeyFile:   "/path/to/key.pem",
				CAFile:    "/path/to/ca.pem",
				CAContent: "ca-content",
			},
			errorMsg: "cannot specify both caFile and caContent",
		},
		{
			name: "invalid client auth policy",
			tls: TLSConfig{
				Mode:             "mutual",
				CertFile:         "/path/to/cert.pem",
				KeyFile:          "/path/to/key.pem",
				CAFile:           "/path/to/ca.pem",
				ClientAuthPolicy: "invalid",
			},
			errorMsg: "invalid clientAuthPolicy: invalid",
		},
		{
			name: "invalid version",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				MinVersion: "1.0",
			},
			errorMsg: "invalid TLS minVersion: 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Server: ServerConfig{TLS: tt.tls}}
			err := cfg.ValidateTLSConfig()

			if tt.errorMsg != "" {
				assert.ErrorContains(t, err, tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTLSConfigMappings(t *testing.T) {
	assert.Equal(t, uint16(tls.VersionTLS12), TLSConfig{}.MinTLSVersion())
	assert.Equal(t, uint16(tls.VersionTLS13), TLSConfig{MinVersion: "1.3"}.MinTLSVersion())

	assert.Equal(t, tls.NoClientCert, TLSConfig{Mode: "server", ClientAuthPolicy: "verify"}.ClientAuthType())
	assert.Equal(t, tls.RequireAndVerifyClientCert, TLSConfig{Mode: "mutual"}.ClientAuthType())
	assert.Equal(t, tls.RequestClientCert, TLSConfig{Mode: "mutual", ClientAuthPolicy: "request"}.ClientAuthType())
	assert.Equal(t, tls.VerifyClientCertIfGiven, TLSConfig{Mode: "mutual", ClientAuthPolicy: "verify"}.ClientAuthType())

	assert.True(t, TLSConfig{CertFile: "a", KeyFile: "b"}.UsesFiles())
	assert.False(t, TLSConfig{CertContent: "a", KeyContent: "b"}.UsesFiles())
}
