//go:build js && wasm

package httpclient

import "syscall/js"

// HostAvailable reports whether a global browsing context with fetch exists.
// net/http on js/wasm issues every request through it.
func HostAvailable() bool {
	window := js.Global().Get("window")
	if window.IsUndefined() || window.IsNull() {
		return false
	}
	return window.Get("fetch").Type() == js.TypeFunction
}
