// Package dispatch builds bearer-authenticated requests and sends them
// through an injected host fetch capability.
//
// One Dispatcher type serves both result shapes: Dispatcher[*http.Response]
// returns the unread response, Dispatcher[string] returns the body text
// encoded as a JSON string literal.
package dispatch

import (
	"context"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"fetchr/internal/httpclient"
)

// Dispatcher sends requests through client and hands each successful
// response to transform. It holds no per-call state and is safe for
// concurrent use.
type Dispatcher[T any] struct {
	client    httpclient.HTTPClient
	transform Transform[T]
	cors      bool
	log       logrus.FieldLogger
}

type settings struct {
	cors bool
	log  logrus.FieldLogger
}

// Option configures a Dispatcher.
type Option func(*settings)

// WithCORSHeaders makes every request go through SetupCORS before dispatch.
func WithCORSHeaders() Option {
	return func(s *settings) { s.cors = true }
}

// WithLogger sets the logger for debug entries. Tokens are never logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Dispatcher. It panics if client or transform is nil: without
// a host fetch capability nothing can be sent.
func New[T any](client httpclient.HTTPClient, transform Transform[T], opts ...Option) *Dispatcher[T] {
	if client == nil {
		panic("dispatch: nil HTTPClient")
	}
	if transform == nil {
		panic("dispatch: nil Transform")
	}
	s := settings{log: discardLogger()}
	for _, o := range opts {
		o(&s)
	}
	return &Dispatcher[T]{client: client, transform: transform, cors: s.cors, log: s.log}
}

// NewRaw returns a Dispatcher that returns unread responses.
func NewRaw(client httpclient.HTTPClient, opts ...Option) *Dispatcher[*http.Response] {
	return New(client, Raw, opts...)
}

// NewQuoted returns a Dispatcher that returns the body as a JSON string literal.
func NewQuoted(client httpclient.HTTPClient, opts ...Option) *Dispatcher[string] {
	return New(client, QuotedText, opts...)
}

// Request sends method to url with opts. Client and transform errors are
// returned unchanged.
func (d *Dispatcher[T]) Request(ctx context.Context, method, url string, opts Options) (T, error) {
	var zero T
	req, err := BuildDescriptor(method, opts).NewRequest(ctx, url)
	if err != nil {
		return zero, err
	}
	if d.cors {
		SetupCORS(req)
	}

	entry := d.log.WithFields(logrus.Fields{"method": req.Method, "url": url})
	entry.Debug("dispatching request")
	resp, err := d.client.Do(req)
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return zero, err
	}
	if resp == nil {
		return zero, ErrNoResponse
	}
	entry.WithField("status", resp.StatusCode).Debug("response received")
	return d.transform(resp)
}

// Get sends a GET without a body. Only opts.Token is used.
func (d *Dispatcher[T]) Get(ctx context.Context, url string, opts Options) (T, error) {
	return d.Request(ctx, http.MethodGet, url, Options{Token: opts.Token})
}

// Post sends body unmodified. opts.Body is ignored.
func (d *Dispatcher[T]) Post(ctx context.Context, url string, body []byte, opts Options) (T, error) {
	return d.Request(ctx, http.MethodPost, url, withBody(body, opts))
}

// Put sends body unmodified. opts.Body is ignored.
func (d *Dispatcher[T]) Put(ctx context.Context, url string, body []byte, opts Options) (T, error) {
	return d.Request(ctx, http.MethodPut, url, withBody(body, opts))
}

// Delete sends a DELETE without a body. Only opts.Token is used.
func (d *Dispatcher[T]) Delete(ctx context.Context, url string, opts Options) (T, error) {
	return d.Request(ctx, http.MethodDelete, url, Options{Token: opts.Token})
}

func withBody(body []byte, opts Options) Options {
	if body == nil {
		body = []byte{}
	}
	return Options{Body: body, Token: opts.Token, ContentType: opts.ContentType}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
