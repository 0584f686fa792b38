package dispatch

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestQuoteJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", `"hello"`},
		{"", `""`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\dir`, `"C:\\dir"`},
		{"a\nb\tc", `"a\nb\tc"`},
		{"<a href='x'>&</a>", `"<a href='x'>&</a>"`},
		{"héllo ✓", `"héllo ✓"`},
		{`{"k":"v"}`, `"{\"k\":\"v\"}"`},
	}
	for _, tt := range tests {
		if got := QuoteJSON(tt.in); got != tt.want {
			t.Errorf("QuoteJSON(%q) = %s; want %s", tt.in, got, tt.want)
		}
	}
}

func TestQuotedText(t *testing.T) {
	body := &closeRecorder{Reader: strings.NewReader("hello")}
	got, err := QuotedText(&http.Response{StatusCode: http.StatusOK, Body: body})
	if err != nil {
		t.Fatalf("QuotedText error: %v", err)
	}
	if got != `"hello"` {
		t.Errorf("QuotedText = %s; want %s", got, `"hello"`)
	}
	if !body.closed {
		t.Errorf("body was not closed")
	}
}

func TestText_ReadErrorUnchanged(t *testing.T) {
	want := errors.New("stream reset")
	_, err := Text(&http.Response{Body: io.NopCloser(errReader{err: want})})
	if err != want {
		t.Errorf("Text error = %v; want %v", err, want)
	}
}

func TestText_NilBody(t *testing.T) {
	got, err := Text(&http.Response{StatusCode: http.StatusNoContent})
	if err != nil || got != "" {
		t.Errorf("Text = %q, %v; want empty, nil", got, err)
	}
}

func TestRaw_DoesNotReadBody(t *testing.T) {
	body := &closeRecorder{Reader: strings.NewReader("unread")}
	resp := &http.Response{StatusCode: http.StatusOK, Body: body}
	got, err := Raw(resp)
	if err != nil {
		t.Fatalf("Raw error: %v", err)
	}
	if got != resp {
		t.Errorf("Raw returned a different response")
	}
	if body.closed {
		t.Errorf("Raw closed the body")
	}
	data, _ := io.ReadAll(got.Body)
	if string(data) != "unread" {
		t.Errorf("body = %q; want it untouched", data)
	}
}
