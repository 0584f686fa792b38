//go:build js && wasm

package dispatch

import "net/http"

// jsFetchMode is read and stripped by the net/http wasm transport, which
// passes its value to fetch as the request mode.
const jsFetchMode = "js.fetch:mode"

func applyMode(req *http.Request, mode string) {
	if mode != "" {
		req.Header.Set(jsFetchMode, mode)
	}
}
