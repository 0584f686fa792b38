package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"fetchr/internal/httpclient"
	"fetchr/internal/output"
)

// fakeClient records the last request and answers with body.
type fakeClient struct {
	last *http.Request
	body string
	err  error
}

func (f *fakeClient) Do(req *http.Request) (*http.Response, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

var _ httpclient.HTTPClient = (*fakeClient)(nil)

func newSession(fc *fakeClient) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	logger, _ := test.NewNullLogger()
	return NewSession(fc, &out, logger), &out
}

func TestExec_Settings(t *testing.T) {
	s, out := newSession(&fakeClient{})
	ctx := context.Background()
	for _, line := range []string{"token abc", "type text/plain", "format quoted"} {
		if err := s.Exec(ctx, line); err != nil {
			t.Fatalf("Exec(%q) error: %v", line, err)
		}
	}
	if s.Token != "abc" || s.ContentType != "text/plain" || s.Format != output.FormatQuoted {
		t.Errorf("session = %+v", s)
	}
	if strings.Contains(out.String(), "abc") {
		t.Errorf("token echoed: %q", out.String())
	}
	for _, line := range []string{"token -", "type -"} {
		if err := s.Exec(ctx, line); err != nil {
			t.Fatalf("Exec(%q) error: %v", line, err)
		}
	}
	if s.Token != "" || s.ContentType != "" {
		t.Errorf("settings not cleared: %+v", s)
	}
}

func TestExec_Errors(t *testing.T) {
	s, _ := newSession(&fakeClient{})
	for _, line := range []string{"token", "type", "format xml", "GET"} {
		if err := s.Exec(context.Background(), line); err == nil {
			t.Errorf("Exec(%q) succeeded; want error", line)
		}
	}
}

func TestExec_QuitAndBlank(t *testing.T) {
	s, _ := newSession(&fakeClient{})
	for _, line := range []string{"quit", "EXIT", "  exit  "} {
		if err := s.Exec(context.Background(), line); !errors.Is(err, ErrQuit) {
			t.Errorf("Exec(%q) = %v; want ErrQuit", line, err)
		}
	}
	if err := s.Exec(context.Background(), "   "); err != nil {
		t.Errorf("blank line error: %v", err)
	}
}

func TestExec_Request(t *testing.T) {
	fc := &fakeClient{body: "hello"}
	s, out := newSession(fc)
	ctx := context.Background()
	if err := s.Exec(ctx, "token abc"); err != nil {
		t.Fatal(err)
	}
	if err := s.Exec(ctx, "format quoted"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := s.Exec(ctx, `post http://example.com/items {"a": 1,  "b": 2}`); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if fc.last.Method != http.MethodPost {
		t.Errorf("Method = %q; want POST", fc.last.Method)
	}
	if got := fc.last.Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
	data, _ := io.ReadAll(fc.last.Body)
	if string(data) != `{"a": 1,  "b": 2}` {
		t.Errorf("body = %q", data)
	}
	if out.String() != "\"hello\"\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestExec_PutWithoutBody(t *testing.T) {
	fc := &fakeClient{}
	s, _ := newSession(fc)
	if err := s.Exec(context.Background(), "PUT http://example.com/x"); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if fc.last.Body == nil {
		t.Errorf("PUT without body sent no body")
	}
}

func TestExec_BodyRejectedForGetAndDelete(t *testing.T) {
	for _, line := range []string{"GET http://example.com some body", "delete http://example.com {}"} {
		fc := &fakeClient{}
		s, _ := newSession(fc)
		err := s.Exec(context.Background(), line)
		if err == nil || !strings.Contains(err.Error(), "takes no body") {
			t.Errorf("Exec(%q) error = %v; want takes no body", line, err)
		}
		if fc.last != nil {
			t.Errorf("Exec(%q) sent a request", line)
		}
	}
}

func TestExec_RequestErrorReturned(t *testing.T) {
	want := errors.New("no route to host")
	s, _ := newSession(&fakeClient{err: want})
	if err := s.Exec(context.Background(), "GET http://example.com"); err != want {
		t.Errorf("Exec error = %v; want %v", err, want)
	}
}

func TestCut(t *testing.T) {
	tests := []struct {
		in, word, rest string
	}{
		{"", "", ""},
		{"GET", "GET", ""},
		{"  GET   http://x  ", "GET", "http://x"},
		{"POST\thttp://x a  b", "POST", "http://x a  b"},
	}
	for _, tt := range tests {
		w, r := cut(tt.in)
		if w != tt.word || r != tt.rest {
			t.Errorf("cut(%q) = %q, %q; want %q, %q", tt.in, w, r, tt.word, tt.rest)
		}
	}
}
