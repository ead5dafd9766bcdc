package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
)

// configureTLS attaches a TLS config to httpServer unless the mode is disabled
func (s *Server) configureTLS(httpServer *http.Server) error {
	mode := s.TLSConfig.Mode
	switch mode {
	case "", "disabled":
		fmt.Printf("Listening on http://%s (TLS disabled)\n", httpServer.Addr)
		return nil
	case "server", "mutual":
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", mode)
	}

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig
	fmt.Printf("Listening on https://%s (TLS mode %s, minimum version %s)\n",
		httpServer.Addr, mode, tls.VersionName(tlsConfig.MinVersion))
	return nil
}

// buildTLSConfig assembles the server certificate and, for mutual mode, the client CA pool
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	t := s.TLSConfig

	certPEM, err := pemFrom(t.CertContent, t.CertFile)
	if err != nil {
		return nil, fmt.Errorf("server certificate: %w", err)
	}
	keyPEM, err := pemFrom(t.KeyContent, t.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("server key: %w", err)
	}
	if certPEM == nil || keyPEM == nil {
		return nil, fmt.Errorf("TLS certificate and key are required (set certFile/keyFile or load them from Vault)")
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid server certificate/key pair: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if t.MinVersion == "1.3" {
		tlsConfig.MinVersion = tls.VersionTLS13
	}
	if t.Mode != "mutual" {
		return tlsConfig, nil
	}

	caPEM, err := pemFrom(t.CAContent, t.CAFile)
	if err != nil {
		return nil, fmt.Errorf("client CA: %w", err)
	}
	if caPEM == nil {
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (set caFile or load it from Vault)")
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("failed to append CA certificate: no PEM blocks found")
	}

	tlsConfig.ClientCAs = pool
	tlsConfig.ClientAuth = clientAuthPolicy(t.ClientAuthPolicy)
	return tlsConfig, nil
}

// pemFrom prefers inline PEM content over a file path. Both empty yields nil, nil.
func pemFrom(content, path string) ([]byte, error) {
	if content != "" {
		return []byte(content), nil
	}
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
