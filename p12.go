package pagseguro

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

var errCertificateExpired = errors.New("client certificate expired")

// newTransport returns nil when neither a client certificate nor custom
// roots are configured, leaving http.DefaultTransport in place.
func newTransport(cfg Config, roots *x509.CertPool) (*http.Transport, error) {
	if cfg.P12Path == "" && roots == nil {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    roots,
	}

	if cfg.P12Path != "" {
		cert, err := readClientCertificate(cfg.P12Path, cfg.P12Password, time.Now())
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}

// readClientCertificate decodes a PKCS#12 bundle. The leaf goes first in
// the presented chain, followed by any intermediates shipped in the bundle.
func readClientCertificate(path, password string, now time.Time) (tls.Certificate, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("read client certificate: %w", err)
	}

	key, leaf, intermediates, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decode client certificate %s: %w", filepath.Base(path), err)
	}
	if now.After(leaf.NotAfter) {
		return tls.Certificate{}, fmt.Errorf("%w: %s not valid after %s",
			errCertificateExpired, leaf.Subject.CommonName, leaf.NotAfter.Format(time.RFC3339))
	}

	cert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ic := range intermediates {
		cert.Certificate = append(cert.Certificate, ic.Raw)
	}
	return cert, nil
}
