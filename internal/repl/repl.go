// Package repl runs an interactive request session on top of readline.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"

	"fetchr/internal/dispatch"
	"fetchr/internal/httpclient"
	"fetchr/internal/output"
)

// ErrQuit is returned by Exec for quit and exit.
var ErrQuit = errors.New("quit")

const helpText = `commands:
  METHOD URL [BODY]      send a request (GET, POST, PUT, DELETE or any other method);
                         GET and DELETE take no body
  token VALUE | token -  set or clear the bearer token
  type VALUE | type -    set or clear the Content-Type
  format text|quoted|raw choose how responses are printed
  help                   show this help
  quit | exit            leave the session
`

// Session holds the per-session request settings.
type Session struct {
	Token       string
	ContentType string
	Format      output.Format

	client httpclient.HTTPClient
	out    io.Writer
	log    logrus.FieldLogger
}

// NewSession returns a session that sends through client and writes to out.
func NewSession(client httpclient.HTTPClient, out io.Writer, log logrus.FieldLogger) *Session {
	return &Session{Format: output.FormatText, client: client, out: out, log: log}
}

// Exec runs one input line.
func (s *Session) Exec(ctx context.Context, line string) error {
	word, rest := cut(line)
	switch strings.ToLower(word) {
	case "":
		return nil
	case "quit", "exit":
		return ErrQuit
	case "help", "?":
		_, err := io.WriteString(s.out, helpText)
		return err
	case "token":
		if rest == "" {
			return errors.New("usage: token VALUE | token -")
		}
		if rest == "-" {
			s.Token = ""
			return s.say("token cleared")
		}
		s.Token = rest
		return s.say("token set")
	case "type":
		if rest == "" {
			return errors.New("usage: type VALUE | type -")
		}
		if rest == "-" {
			s.ContentType = ""
			return s.say("content type reset to " + dispatch.DefaultContentType)
		}
		s.ContentType = rest
		return s.say("content type set to " + rest)
	case "format":
		f, err := output.ParseFormat(rest)
		if err != nil {
			return err
		}
		s.Format = f
		return s.say("format set to " + string(f))
	}

	url, body := cut(rest)
	if url == "" {
		return fmt.Errorf("usage: %s URL [BODY]", strings.ToUpper(word))
	}
	c := output.Call{
		Method:  strings.ToUpper(word),
		URL:     url,
		Options: dispatch.Options{Token: s.Token, ContentType: s.ContentType},
	}
	switch {
	case body != "" && (c.Method == http.MethodGet || c.Method == http.MethodDelete):
		return fmt.Errorf("usage: %s URL (%s takes no body)", c.Method, c.Method)
	case body != "":
		c.Options.Body = []byte(body)
	case c.Method == http.MethodPost || c.Method == http.MethodPut:
		c.Options.Body = []byte{}
	}
	return output.Send(ctx, s.out, s.client, s.Format, c, dispatch.WithLogger(s.log))
}

func (s *Session) say(msg string) error {
	_, err := fmt.Fprintln(s.out, msg)
	return err
}

// cut splits off the first whitespace-separated word and returns it with
// the trimmed remainder, whose inner spacing is kept.
func cut(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// Run reads lines with readline until EOF, interrupt on an empty line, or
// quit. Request errors are printed and the loop continues. cfg may be nil.
func Run(ctx context.Context, s *Session, cfg *readline.Config) error {
	if cfg == nil {
		cfg = &readline.Config{}
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "fetchr> "
	}
	if cfg.InterruptPrompt == "" {
		cfg.InterruptPrompt = "^C"
	}
	if cfg.EOFPrompt == "" {
		cfg.EOFPrompt = "exit"
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		if err := s.Exec(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}
