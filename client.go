package pagseguro

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/evaldobarbosa/pagseguro/models"
)

const (
	headerContentType = "Content-Type"
	headerRequestID   = "X-Request-ID"
	contentTypeForm   = "application/x-www-form-urlencoded; charset=UTF-8"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Doer = (*http.Client)(nil)

// Client interacts with the PagSeguro web services.
type Client struct {
	cfg        Config
	httpClient Doer
	baseURL    string
	logger     zerolog.Logger
	requestID  func() string
	rootCAs    *x509.CertPool
}

// NewClient creates a new PagSeguro client.
// It validates the configuration, loads the optional P12 client certificate,
// and prepares the HTTP client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		baseURL:   strings.TrimSuffix(cfg.DefaultBaseURL(), "/"),
		logger:    zerolog.Nop(),
		requestID: newRequestID,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport, err := newTransport(cfg, c.rootCAs)
		if err != nil {
			return nil, fmt.Errorf("pagseguro: failed to load client certificate: %w", err)
		}
		httpClient := &http.Client{Timeout: cfg.timeout()}
		if transport != nil {
			httpClient.Transport = transport
		}
		c.httpClient = httpClient
	}

	return c, nil
}

// BaseURL returns the web service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs an authenticated GET against path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (models.APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post performs an authenticated form-encoded POST against path.
func (c *Client) Post(ctx context.Context, path string, query, form url.Values) (models.APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, query, form)
}

func (c *Client) do(ctx context.Context, method, path string, query, form url.Values) (models.APIResponse, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return models.APIResponse{}, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}
	if form != nil {
		req.Header.Set(headerContentType, contentTypeForm)
	}

	requestID := c.requestID()
	req.Header.Set(headerRequestID, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.APIResponse{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if echoed := resp.Header.Get(headerRequestID); echoed != "" {
		requestID = echoed
	}

	if resp.StatusCode != http.StatusOK {
		pErr := NewError(resp)
		pErr.RequestID = requestID
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", pErr.StatusCode).
			Int("field_errors", len(pErr.FieldErrors)).
			Str("request_id", requestID).
			Msg("pagseguro returned an error")
		return models.APIResponse{}, pErr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.APIResponse{}, fmt.Errorf("%w: %w", ErrReadResponse, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(respBody)).
		Str("request_id", requestID).
		Msg("pagseguro request completed")

	return models.APIResponse{
		HTTPStatus: resp.StatusCode,
		Body:       respBody,
		Headers:    resp.Header,
		RequestID:  requestID,
	}, nil
}

// buildURL joins path to the base URL and appends the account credentials.
func (c *Client) buildURL(path string, query url.Values) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	params := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	params.Set("email", c.cfg.Email)
	params.Set("token", c.cfg.Token)

	return c.baseURL + path + "?" + params.Encode()
}

// DecodeXML unmarshals a successful XML reply into out.
// PagSeguro replies declared as ISO-8859-1 are transcoded first.
func DecodeXML(resp models.APIResponse, out any) error {
	dec := xml.NewDecoder(bytes.NewReader(resp.Body))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return nil
}
