package dispatch

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Transform turns a successful response into the value a dispatcher returns.
type Transform[T any] func(resp *http.Response) (T, error)

// Raw returns the response without reading the body. The caller closes it.
func Raw(resp *http.Response) (*http.Response, error) {
	return resp, nil
}

// Text reads and closes the body and returns it as a string. Read errors
// are returned unchanged.
func Text(resp *http.Response) (string, error) {
	if resp.Body == nil {
		return "", nil
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// QuotedText is Text followed by QuoteJSON.
func QuotedText(resp *http.Response) (string, error) {
	text, err := Text(resp)
	if err != nil {
		return "", err
	}
	return QuoteJSON(text), nil
}

// QuoteJSON encodes s as a JSON string literal, the way JSON.stringify does
// for a string: quotes, backslashes and control characters are escaped,
// HTML characters are not.
func QuoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // a string always encodes
	return strings.TrimSuffix(buf.String(), "\n")
}
