package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

const (
	// DefaultContentType is sent when Options.ContentType is empty.
	DefaultContentType = "application/json"

	// ModeCORS is the only request mode a Descriptor is built with.
	ModeCORS = "cors"

	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Options carries the independently optional parts of a request.
type Options struct {
	// Body is attached when non-nil. A non-nil empty slice sends an empty body.
	Body []byte
	// Token is sent as "Authorization: Bearer <Token>" when non-empty.
	Token string
	// ContentType overrides DefaultContentType when non-empty.
	ContentType string
}

// Descriptor is an HTTP request before dispatch. It is built fresh for
// every call and never shared.
type Descriptor struct {
	Method string
	Mode   string
	Body   []byte
	Header http.Header
}

// BuildDescriptor returns the descriptor for method and opts. The method is
// kept verbatim.
func BuildDescriptor(method string, opts Options) Descriptor {
	return Descriptor{
		Method: method,
		Mode:   ModeCORS,
		Body:   opts.Body,
		Header: buildHeader(opts.Token, opts.ContentType),
	}
}

// buildHeader always sets exactly one Content-Type and sets Authorization
// only for a non-empty token.
func buildHeader(token, contentType string) http.Header {
	h := make(http.Header, 2)
	if token != "" {
		h.Set(HeaderAuthorization, "Bearer "+token)
	}
	if contentType == "" {
		contentType = DefaultContentType
	}
	h.Set(HeaderContentType, contentType)
	return h
}

// NewRequest turns the descriptor into an *http.Request for url.
// Failures match ErrCreateRequest and wrap the cause.
func (d Descriptor) NewRequest(ctx context.Context, url string) (*http.Request, error) {
	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}
	for k, vs := range d.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	applyMode(req, d.Mode)
	return req, nil
}
