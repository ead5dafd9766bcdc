package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescore/internal/config"
)

func selfSignedPEM(t *testing.T) (certPEM, keyPEM string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "resumescore.test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certPEM, keyPEM
}

func TestBuildTLSConfig(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t)
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "tls.crt"), filepath.Join(dir, "tls.key")
	require.NoError(t, os.WriteFile(certFile, []byte(certPEM), 0o600))
	require.NoError(t, os.WriteFile(keyFile, []byte(keyPEM), 0o600))

	tests := []struct {
		name           string
		tls            config.TLSConfig
		wantErr        string
		wantClientAuth tls.ClientAuthType
		wantMinVersion uint16
	}{
		{
			name:           "server mode from content",
			tls:            config.TLSConfig{Mode: "server", CertContent: certPEM, KeyContent: keyPEM},
			wantClientAuth: tls.NoClientCert,
			wantMinVersion: tls.VersionTLS12,
		},
		{
			name:           "mutual with default policy",
			tls:            config.TLSConfig{Mode: "mutual", CertContent: certPEM, KeyContent: keyPEM, CAContent: certPEM, MinVersion: "1.3"},
			wantClientAuth: tls.RequireAndVerifyClientCert,
			wantMinVersion: tls.VersionTLS13,
		},
		{
			name:           "mutual with verify policy",
			tls:            config.TLSConfig{Mode: "mutual", CertContent: certPEM, KeyContent: keyPEM, CAContent: certPEM, ClientAuthPolicy: "verify"},
			wantClientAuth: tls.VerifyClientCertIfGiven,
			wantMinVersion: tls.VersionTLS12,
		},
		{
			name:           "server mode from files",
			tls:            config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: keyFile},
			wantClientAuth: tls.NoClientCert,
			wantMinVersion: tls.VersionTLS12,
		},
		{
			name:    "unreadable key file",
			tls:     config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: filepath.Join(dir, "missing.key")},
			wantErr: "server key",
		},
		{
			name:    "missing certificate",
			tls:     config.TLSConfig{Mode: "server"},
			wantErr: "TLS certificate and key are required",
		},
		{
			name:    "mutual without CA",
			tls:     config.TLSConfig{Mode: "mutual", CertContent: certPEM, KeyContent: keyPEM},
			wantErr: "CA certificate is required for mutual TLS mode",
		},
		{
			name:    "garbage CA",
			tls:     config.TLSConfig{Mode: "mutual", CertContent: certPEM, KeyContent: keyPEM, CAContent: "not pem"},
			wantErr: "failed to append CA cert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{TLSConfig: tt.tls}
			got, err := s.buildTLSConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.Certificates, 1)
			assert.Equal(t, tt.wantClientAuth, got.ClientAuth)
			assert.Equal(t, tt.wantMinVersion, got.MinVersion)
		})
	}
}

func TestConfigureTLS_Modes(t *testing.T) {
	httpServer := &http.Server{Addr: "127.0.0.1:0"}

	s := &Server{TLSConfig: config.TLSConfig{Mode: "disabled"}}
	require.NoError(t, s.configureTLS(httpServer))
	assert.Nil(t, httpServer.TLSConfig)

	s.TLSConfig.Mode = "bogus"
	assert.ErrorContains(t, s.configureTLS(httpServer), "invalid TLS mode: bogus")
}
