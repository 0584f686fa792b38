package dispatch

import "net/http"

const (
	CORSAllowOrigin  = "*"
	CORSAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	CORSAllowHeaders = "Content-Type, Authorization"
)

// SetupCORS sets the permissive Access-Control-Allow-* headers on req.
//
// These are response headers. Browsers ignore them on outgoing requests and
// a server only honours them if it chooses to, so this does not grant
// cross-origin access. Dispatchers apply it only when built with
// WithCORSHeaders.
func SetupCORS(req *http.Request) {
	req.Header.Set("Access-Control-Allow-Origin", CORSAllowOrigin)
	req.Header.Set("Access-Control-Allow-Methods", CORSAllowMethods)
	req.Header.Set("Access-Control-Allow-Headers", CORSAllowHeaders)
}
