// Package output sends a request through a dispatcher and writes the
// result in one of the supported formats.
package output

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fetchr/internal/dispatch"
	"fetchr/internal/httpclient"
)

// Format selects the transform applied to a response.
type Format string

const (
	// FormatText prints the body as received.
	FormatText Format = "text"
	// FormatQuoted prints the body as a JSON string literal.
	FormatQuoted Format = "quoted"
	// FormatRaw prints the status line and headers and leaves the body unread.
	FormatRaw Format = "raw"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatQuoted, FormatRaw}

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q; use text, quoted or raw", s)
}

// Call describes one request.
type Call struct {
	Method  string
	URL     string
	Options dispatch.Options
	// Generic sends Method verbatim through Dispatcher.Request instead of
	// the verb helper for GET, POST, PUT and DELETE.
	Generic bool
}

// Send dispatches c through client and writes the result to w.
func Send(ctx context.Context, w io.Writer, client httpclient.HTTPClient, f Format, c Call, opts ...dispatch.Option) error {
	switch f {
	case FormatRaw:
		resp, err := call(ctx, dispatch.NewRaw(client, opts...), c)
		if err != nil {
			return err
		}
		return writeRaw(w, resp)
	case FormatQuoted:
		s, err := call(ctx, dispatch.NewQuoted(client, opts...), c)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	case FormatText, "":
		s, err := call(ctx, dispatch.New(client, dispatch.Text, opts...), c)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err = io.WriteString(w, s)
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func call[T any](ctx context.Context, d *dispatch.Dispatcher[T], c Call) (T, error) {
	if c.Generic {
		return d.Request(ctx, c.Method, c.URL, c.Options)
	}
	switch c.Method {
	case http.MethodGet:
		return d.Get(ctx, c.URL, c.Options)
	case http.MethodPost:
		return d.Post(ctx, c.URL, c.Options.Body, c.Options)
	case http.MethodPut:
		return d.Put(ctx, c.URL, c.Options.Body, c.Options)
	case http.MethodDelete:
		return d.Delete(ctx, c.URL, c.Options)
	default:
		return d.Request(ctx, c.Method, c.URL, c.Options)
	}
}

// writeRaw closes the body without reading it.
func writeRaw(w io.Writer, resp *http.Response) error {
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	if _, err := fmt.Fprintf(w, "%d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode)); err != nil {
		return err
	}
	if resp.Header == nil {
		return nil
	}
	return resp.Header.Write(w)
}
