package models

import "net/http"

// APIResponse is a successful PagSeguro reply together with its HTTP metadata.
type APIResponse struct {
	// HTTPStatus is the HTTP status code returned by PagSeguro.
	HTTPStatus int

	// Body is the raw XML response body.
	Body []byte

	// Headers are the response headers.
	Headers http.Header

	// RequestID is the X-Request-ID sent with (or echoed back for) the call.
	RequestID string
}
