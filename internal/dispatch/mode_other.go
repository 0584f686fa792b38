//go:build !(js && wasm)

package dispatch

import "net/http"

// Native transports have no request mode.
func applyMode(*http.Request, string) {}
