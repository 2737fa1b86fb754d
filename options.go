package pagseguro

import (
	"crypto/x509"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Option customizes a Client built by NewClient.
type Option func(*Client)

// WithHTTPClient replaces the transport. The configured timeout, client
// certificate and root CAs are not applied to a caller-supplied Doer.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for request and error events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDFunc sets the generator used for the X-Request-ID header.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		c.requestID = fn
	}
}

// WithRootCAs replaces the system roots used to verify the server certificate.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *Client) {
		c.rootCAs = pool
	}
}

func newRequestID() string {
	return uuid.New().String()
}
