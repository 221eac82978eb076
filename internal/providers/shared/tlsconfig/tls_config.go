package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/faults"
)

// BuildTLSConfig returns nil when no TLS settings are configured, so callers
// keep the transport defaults. scope prefixes error messages, for example
// "backend".
func BuildTLSConfig(settings *config.TLS, scope string) (*tls.Config, error) {
	if settings == nil {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: settings.InsecureSkipVerify,
	}

	if caFile := strings.TrimSpace(settings.CACertFile); caFile != "" {
		pool, err := loadCertPool(caFile)
		if err != nil {
			return nil, faults.NewValidationError(fmt.Sprintf("%s.tls.ca-cert-file is not usable", scope), err)
		}
		tlsConfig.RootCAs = pool
	}

	certFile := strings.TrimSpace(settings.ClientCertFile)
	keyFile := strings.TrimSpace(settings.ClientKeyFile)
	switch {
	case certFile == "" && keyFile == "":
	case certFile == "" || keyFile == "":
		return nil, faults.NewValidationError(fmt.Sprintf("%s.tls requires both client-cert-file and client-key-file", scope), nil)
	default:
		certificate, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, faults.NewValidationError(fmt.Sprintf("%s.tls client certificate pair is invalid", scope), err)
		}
		tlsConfig.Certificates = []tls.Certificate{certificate}
	}

	return tlsConfig, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("%s contains no PEM certificates", path)
	}
	return pool, nil
}
