//go:build js && wasm

// Command fetchr-wasm exposes the dispatcher to JavaScript as
// globalThis.fetchr. Requests go through the browser fetch via net/http.
package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"syscall/js"

	"github.com/sirupsen/logrus"

	"fetchr/internal/dispatch"
	"fetchr/internal/httpclient"
)

func main() {
	log := logrus.New()
	if !httpclient.HostAvailable() {
		log.Fatal("no global `window` with fetch exists")
	}

	var opts []dispatch.Option
	opts = append(opts, dispatch.WithLogger(log))
	if cfg := js.Global().Get("fetchrConfig"); cfg.Type() == js.TypeObject {
		if cfg.Get("corsHeaders").Truthy() {
			opts = append(opts, dispatch.WithCORSHeaders())
		}
		if cfg.Get("debug").Truthy() {
			log.SetLevel(logrus.DebugLevel)
		}
	}

	js.Global().Set("fetchr", js.ValueOf(api(httpclient.Client(), opts...)))

	log.Debug("fetchr ready")
	select {}
}

// api builds the object published as globalThis.fetchr.
func api(client httpclient.HTTPClient, opts ...dispatch.Option) map[string]any {
	fns := exports(dispatch.NewQuoted(client, opts...), quoted)
	fns["raw"] = js.ValueOf(exports(dispatch.NewRaw(client, opts...), jsResponse))
	fns["setup_cors"] = js.FuncOf(setupCORS)
	return fns
}

func quoted(s string) js.Value { return js.ValueOf(s) }

// exports builds request/get/post/put/delete with the positional
// signatures (url, data, token, content_type) JavaScript callers use.
// undefined, null and "" all mean "not supplied".
func exports[T any](d *dispatch.Dispatcher[T], encode func(T) js.Value) map[string]any {
	wrap := func(call func(ctx context.Context, args []js.Value) (T, error)) js.Func {
		return promiseFunc(func(args []js.Value) (js.Value, error) {
			v, err := call(context.Background(), args)
			if err != nil {
				return js.Undefined(), err
			}
			return encode(v), nil
		})
	}
	return map[string]any{
		"request": wrap(func(ctx context.Context, args []js.Value) (T, error) {
			return d.Request(ctx, stringArg(args, 0), stringArg(args, 1), dispatch.Options{
				Body:        bodyArg(args, 2),
				Token:       stringArg(args, 3),
				ContentType: stringArg(args, 4),
			})
		}),
		"get": wrap(func(ctx context.Context, args []js.Value) (T, error) {
			return d.Get(ctx, stringArg(args, 0), dispatch.Options{Token: stringArg(args, 1)})
		}),
		"post": wrap(func(ctx context.Context, args []js.Value) (T, error) {
			return d.Post(ctx, stringArg(args, 0), bodyArg(args, 1), dispatch.Options{
				Token:       stringArg(args, 2),
				ContentType: stringArg(args, 3),
			})
		}),
		"put": wrap(func(ctx context.Context, args []js.Value) (T, error) {
			return d.Put(ctx, stringArg(args, 0), bodyArg(args, 1), dispatch.Options{
				Token:       stringArg(args, 2),
				ContentType: stringArg(args, 3),
			})
		}),
		"delete": wrap(func(ctx context.Context, args []js.Value) (T, error) {
			return d.Delete(ctx, stringArg(args, 0), dispatch.Options{Token: stringArg(args, 1)})
		}),
	}
}

// promiseFunc returns a JS function that runs fn on its own goroutine and
// settles a Promise with the result. Errors reject with an Error.
func promiseFunc(fn func(args []js.Value) (js.Value, error)) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) any {
		args = append([]js.Value(nil), args...)
		executor := js.FuncOf(func(_ js.Value, p []js.Value) any {
			resolve, reject := p[0], p[1]
			go func() {
				v, err := fn(args)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New(err.Error()))
					return
				}
				resolve.Invoke(v)
			}()
			return nil
		})
		// the Promise constructor runs the executor synchronously
		defer executor.Release()
		return js.Global().Get("Promise").New(executor)
	})
}

func stringArg(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

// bodyArg accepts a string or a Uint8Array. Anything else is no body.
func bodyArg(args []js.Value, i int) []byte {
	if i >= len(args) {
		return nil
	}
	v := args[i]
	switch {
	case v.Type() == js.TypeString:
		return []byte(v.String())
	case v.InstanceOf(js.Global().Get("Uint8Array")):
		b := make([]byte, v.Length())
		js.CopyBytesToGo(b, v)
		return b
	default:
		return nil
	}
}

var errBodyRead = errors.New("body already read")

// jsResponse mirrors the parts of a fetch Response a caller inspects.
// The body stays unread until text() or close() is called, and one of them
// must be called to release it. Only the first call reaches the body; a
// later text() rejects with errBodyRead.
func jsResponse(resp *http.Response) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("status", resp.StatusCode)
	obj.Set("statusText", http.StatusText(resp.StatusCode))
	obj.Set("ok", resp.StatusCode >= 200 && resp.StatusCode < 300)
	if resp.Request != nil {
		obj.Set("url", resp.Request.URL.String())
	}

	headers := js.Global().Get("Object").New()
	for k, vs := range resp.Header {
		headers.Set(strings.ToLower(k), strings.Join(vs, ", "))
	}
	obj.Set("headers", headers)

	var once sync.Once
	claim := func() (first bool) {
		once.Do(func() { first = true })
		return first
	}
	// text and close stay alive as long as obj; they are never released.
	obj.Set("text", promiseFunc(func([]js.Value) (js.Value, error) {
		if !claim() {
			return js.Undefined(), errBodyRead
		}
		s, err := dispatch.Text(resp)
		if err != nil {
			return js.Undefined(), err
		}
		return js.ValueOf(s), nil
	}))
	obj.Set("close", js.FuncOf(func(js.Value, []js.Value) any {
		if claim() && resp.Body != nil {
			resp.Body.Close()
		}
		return nil
	}))
	return obj
}

// setupCORS sets the Access-Control-Allow-* headers on a JS Request's
// header set, like dispatch.SetupCORS does for *http.Request.
func setupCORS(_ js.Value, args []js.Value) any {
	if len(args) == 0 || args[0].Type() != js.TypeObject {
		return nil
	}
	headers := args[0].Get("headers")
	headers.Call("set", "Access-Control-Allow-Origin", dispatch.CORSAllowOrigin)
	headers.Call("set", "Access-Control-Allow-Methods", dispatch.CORSAllowMethods)
	headers.Call("set", "Access-Control-Allow-Headers", dispatch.CORSAllowHeaders)
	return nil
}
