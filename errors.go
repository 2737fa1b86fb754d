package pagseguro

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrResponse is matched by every *Error.
	ErrResponse = errors.New("pagseguro: unsuccessful response")
	// ErrRequestFailed wraps transport failures.
	ErrRequestFailed = errors.New("pagseguro: request failed")
	// ErrCreateRequest wraps failures building the outgoing request.
	ErrCreateRequest = errors.New("pagseguro: failed to create request")
	// ErrReadResponse wraps failures reading a successful reply body.
	ErrReadResponse = errors.New("pagseguro: failed to read response")
	// ErrDecodeResponse wraps XML decoding failures in DecodeXML.
	ErrDecodeResponse = errors.New("pagseguro: failed to decode response")
)

// FieldError is a single validation error reported by PagSeguro.
type FieldError struct {
	Code    string
	Message string
}

func (f FieldError) String() string {
	return "[" + f.Code + "] " + f.Message
}

// Error is returned when PagSeguro answers with an unsuccessful HTTP status.
// Message is always non-empty; FieldErrors is only populated for a 400 whose
// body carries an <errors> document.
type Error struct {
	StatusCode  int
	Message     string
	FieldErrors []FieldError
	Body        []byte
	RequestID   string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return ErrResponse
}

// HasFieldErrors reports whether the gateway returned structured validation errors.
func (e *Error) HasFieldErrors() bool {
	return len(e.FieldErrors) > 0
}

// NewError reads resp.Body to completion and translates the response.
// The caller still owns (and must close) the body.
func NewError(resp *http.Response) *Error {
	var body []byte
	if resp.Body != nil {
		// a short read keeps what was received
		body, _ = io.ReadAll(resp.Body)
	}
	return Translate(resp.StatusCode, body)
}

// Translate builds an *Error from a status code and a fully read body.
//
// A 400 body is parsed as
//
//	<errors>
//	  <error><code>11004</code><message>Currency is required.</message></error>
//	</errors>
//
// and the messages are aggregated one per line. Anything else, including a
// 400 body that does not parse or holds no <error> elements, produces the
// generic "[status] A HTTP error has occurred: body" message.
func Translate(statusCode int, body []byte) *Error {
	e := &Error{
		StatusCode: statusCode,
		Body:       body,
	}

	if statusCode == http.StatusBadRequest {
		e.FieldErrors = parseFieldErrors(body)
	}

	if len(e.FieldErrors) == 0 {
		e.Message = fmt.Sprintf("[%d] A HTTP error has occurred: %s", statusCode, body)
		return e
	}

	lines := make([]string, 0, len(e.FieldErrors))
	for _, f := range e.FieldErrors {
		lines = append(lines, f.String())
	}
	e.Message = "Some errors occurred:\n" + strings.Join(lines, "\n")
	return e
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr, true
	}
	return nil, false
}

// parseFieldErrors returns nil for any body that is not a well-formed
// <errors> document.
func parseFieldErrors(body []byte) []FieldError {
	if len(body) == 0 {
		return nil
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(body); err != nil {
		return nil
	}
	if !singleRoot(doc) {
		return nil
	}

	root := doc.Root()
	if root == nil || root.Tag != "errors" {
		return nil
	}

	var out []FieldError
	for _, el := range root.SelectElements("error") {
		out = append(out, FieldError{
			Code:    childText(el, "code"),
			Message: childText(el, "message"),
		})
	}
	return out
}

// singleRoot reports whether the document holds exactly one element at the
// top level, with nothing but prolog tokens and whitespace around it.
func singleRoot(doc *etree.Document) bool {
	elements := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			elements++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return false
			}
		case *etree.ProcInst, *etree.Comment, *etree.Directive:
		default:
			return false
		}
	}
	return elements == 1
}

func childText(parent *etree.Element, tag string) string {
	c := parent.SelectElement(tag)
	if c == nil {
		return ""
	}
	var sb strings.Builder
	appendText(&sb, c)
	return strings.TrimSpace(sb.String())
}

// appendText collects the character data of el and all of its descendants.
func appendText(sb *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			appendText(sb, t)
		}
	}
}

// PagSeguro historically answers with encoding="ISO-8859-1".
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}
