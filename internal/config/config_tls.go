package config

import "fmt"

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	if err := validateTLSMode(tls); err != nil {
		return err
	}
	return validateTLSVersion(tls)
}

func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		return validateCertSources(tls, false)
	case "mutual":
		if err := validateCertSources(tls, true); err != nil {
			return err
		}
		return validateClientAuthPolicy(tls)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
}

// pemSource is one certificate input that may come from a file or from inline content
type pemSource struct {
	name    string
	file    string
	content string
}

func (p pemSource) missing() bool   { return p.file == "" && p.content == "" }
func (p pemSource) ambiguous() bool { return p.file != "" && p.content != "" }

// validateCertSources requires the certificate and key (and the CA when
// needCA is set), each supplied exactly once
func validateCertSources(tls TLSConfig, needCA bool) error {
	cert := pemSource{"cert", tls.CertFile, tls.CertContent}
	key := pemSource{"key", tls.KeyFile, tls.KeyContent}
	ca := pemSource{"ca", tls.CAFile, tls.CAContent}

	if cert.missing() || key.missing() {
		mode := "server mode"
		if needCA {
			mode = "mutual mode"
		}
		return fmt.Errorf("TLS certificate and key are required for %s (provide either files or content)", mode)
	}
	if needCA && ca.missing() {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	sources := []pemSource{cert, key}
	if needCA {
		sources = append(sources, ca)
	}
	for _, src := range sources {
		if src.ambiguous() {
			return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", src.name, src.name)
		}
	}
	return nil
}

func validateClientAuthPolicy(tls TLSConfig) error {
	switch tls.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
	}
}

func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}
