package httpclient

import (
	"net/http"
	"sync"
)

// HTTPClient defines the interface for making HTTP requests.
// It is the host fetch capability every request goes through.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientFunc adapts a plain function to HTTPClient.
type ClientFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f ClientFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

var (
	mu     sync.RWMutex
	client HTTPClient = http.DefaultClient
)

// SetClient replaces the package default client. A nil client restores
// http.DefaultClient.
func SetClient(c HTTPClient) {
	mu.Lock()
	defer mu.Unlock()
	if c == nil {
		c = http.DefaultClient
	}
	client = c
}

// Client returns the package default client.
func Client() HTTPClient {
	mu.RLock()
	defer mu.RUnlock()
	return client
}
