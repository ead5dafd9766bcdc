package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name     string
		tls      TLSConfig
		errorMsg string
	}{
		{name: "disabled mode", tls: TLSConfig{Mode: "disabled"}},
		{
			name: "server mode with files",
			tls:  TLSConfig{Mode: "server", CertFile: "/certs/server.pem", KeyFile: "/certs/server.key"},
		},
		{
			name: "server mode with content",
			tls:  TLSConfig{Mode: "server", CertContent: "cert", KeyContent: "key", MinVersion: "1.3"},
		},
		{
			name:     "server mode missing key",
			tls:      TLSConfig{Mode: "server", CertFile: "/certs/server.pem"},
			errorMsg: "TLS certificate and key are required for server mode",
		},
		{
			name:     "server mode duplicate cert",
			tls:      TLSConfig{Mode: "server", CertFile: "/certs/server.pem", CertContent: "cert", KeyFile: "/certs/server.key"},
			errorMsg: "cannot specify both certFile and certContent",
		},
		{
			name: "mutual mode valid",
			tls:  TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k", CAFile: "ca", ClientAuthPolicy: "verify"},
		},
		{
			name:     "mutual mode missing CA",
			tls:      TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k"},
			errorMsg: "CA certificate is required for mutual TLS mode",
		},
		{
			name:     "mutual mode duplicate CA",
			tls:      TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k", CAFile: "ca", CAContent: "ca"},
			errorMsg: "cannot specify both caFile and caContent",
		},
		{
			name:     "mutual mode bad policy",
			tls:      TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k", CAFile: "ca", ClientAuthPolicy: "maybe"},
			errorMsg: "invalid clientAuthPolicy: maybe",
		},
		{
			name:     "invalid mode",
			tls:      TLSConfig{Mode: "sometimes"},
			errorMsg: "invalid TLS mode: sometimes",
		},
		{
			name:     "invalid version",
			tls:      TLSConfig{Mode: "disabled", MinVersion: "1.1"},
			errorMsg: "invalid TLS minVersion: 1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{TLS: tt.tls}}
			err := cfg.ValidateTLSConfig()

			if tt.errorMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
