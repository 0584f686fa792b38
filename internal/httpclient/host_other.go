//go:build !(js && wasm)

package httpclient

// HostAvailable always reports true outside the browser; net/http dials
// directly.
func HostAvailable() bool { return true }
