package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fetchr/internal/config"
	"fetchr/internal/devserver"
	"fetchr/internal/dispatch"
	"fetchr/internal/httpclient"
	"fetchr/internal/output"
	"fetchr/internal/repl"
)

// Version information set during build
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// log is configured from --verbose before any command runs.
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "fetchr",
	Short: "Send bearer-authenticated HTTP requests",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to parse --verbose flag: %w", err)
		}
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(logrus.WarnLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

var requestCmd = &cobra.Command{
	Use:          "request METHOD URL [DATA]",
	Short:        "Send a request with an arbitrary method",
	Args:         cobra.RangeArgs(2, 3),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := output.Call{Method: args[0], URL: args[1], Generic: true}
		if len(args) == 3 {
			data, err := readData(cmd, args[2])
			if err != nil {
				return err
			}
			c.Options.Body = data
		}
		return send(cmd, c)
	},
}

var getCmd = &cobra.Command{
	Use:          "get URL",
	Short:        "Send a GET request",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(cmd, output.Call{Method: "GET", URL: args[0]})
	},
}

var postCmd = &cobra.Command{
	Use:          "post URL DATA",
	Short:        "Send a POST request; DATA may be - for stdin or @file",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendWithBody(cmd, "POST", args)
	},
}

var putCmd = &cobra.Command{
	Use:          "put URL DATA",
	Short:        "Send a PUT request; DATA may be - for stdin or @file",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendWithBody(cmd, "PUT", args)
	},
}

var deleteCmd = &cobra.Command{
	Use:          "delete URL",
	Short:        "Send a DELETE request",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(cmd, output.Call{Method: "DELETE", URL: args[0]})
	},
}

// replCmd starts the interactive session.
var replCmd = &cobra.Command{
	Use:          "repl",
	Short:        "Start an interactive request session",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := repl.NewSession(httpclient.Client(), cmd.OutOrStdout(), log)
		token, _ := cmd.Flags().GetString("token")
		contentType, _ := cmd.Flags().GetString("content-type")
		s.Token, s.ContentType = token, contentType
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}
		s.Format = format

		cfg := &readline.Config{}
		if path, err := config.ConfigPath(); err == nil {
			cfg.HistoryFile = filepath.Join(filepath.Dir(path), "history")
		}
		return repl.Run(cmd.Context(), s, cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Serve the browser build with CORS and an /echo endpoint",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			return fmt.Errorf("failed to parse --addr flag: %w", err)
		}
		dir, err := cmd.Flags().GetString("dir")
		if err != nil {
			return fmt.Errorf("failed to parse --dir flag: %w", err)
		}
		if log.GetLevel() < logrus.InfoLevel {
			log.SetLevel(logrus.InfoLevel)
		}
		return devserver.Serve(cmd.Context(), addr, devserver.NewRouter(dir, log), log)
	},
}

// noun-first command structure to follow GitHub CLI style
var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage bearer tokens per host",
}

var tokensListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List hosts that have a token",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		hosts := make([]string, 0, len(cfg.Tokens))
		for h := range cfg.Tokens {
			hosts = append(hosts, h)
		}
		slices.Sort(hosts)
		for _, h := range hosts {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", h, mask(cfg.Tokens[h]))
		}
		return nil
	},
}

var tokensSetCmd = &cobra.Command{
	Use:          "set",
	Short:        "Set the bearer token for a host",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		token, _ := cmd.Flags().GetString("value")
		if host == "" || token == "" {
			_ = cmd.Help()
			return errors.New("host and value must be provided")
		}
		if err := config.SetToken(host, token); err != nil {
			return fmt.Errorf("error saving token: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved token for %s\n", host)
		return nil
	},
}

var tokensDeleteCmd = &cobra.Command{
	Use:          "delete",
	Short:        "Remove the bearer token for a host",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		if host == "" {
			_ = cmd.Help()
			return errors.New("host must be provided")
		}
		if err := config.DeleteToken(host); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed token for %s\n", host)
		return nil
	},
}

var tokensPathCmd = &cobra.Command{
	Use:          "path",
	Short:        "Show path to the config file",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("error getting config path: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage the default Content-Type",
}

var typeShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Show the default Content-Type",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ct, err := config.GetDefaultContentType()
		if err != nil {
			return fmt.Errorf("error loading default: %w", err)
		}
		if ct == "" {
			ct = dispatch.DefaultContentType
		}
		fmt.Fprintln(cmd.OutOrStdout(), ct)
		return nil
	},
}

var typeSetCmd = &cobra.Command{
	Use:          "set CONTENT_TYPE",
	Short:        "Set the default Content-Type; - restores application/json",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ct := args[0]
		if ct == "-" {
			ct = ""
		}
		if err := config.SetDefaultContentType(ct); err != nil {
			return fmt.Errorf("error saving default: %w", err)
		}
		if ct == "" {
			ct = dispatch.DefaultContentType
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved default Content-Type: %s\n", ct)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:          "version",
	Short:        "Show version information",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "fetchr version %s\n", version)
		fmt.Fprintf(out, "commit: %s\n", commit)
		fmt.Fprintf(out, "date: %s\n", date)
		return nil
	},
}

func sendWithBody(cmd *cobra.Command, method string, args []string) error {
	data, err := readData(cmd, args[1])
	if err != nil {
		return err
	}
	return send(cmd, output.Call{Method: method, URL: args[0], Options: dispatch.Options{Body: data}})
}

// send fills token and content type from flags or config and prints the result.
func send(cmd *cobra.Command, c output.Call) error {
	token, err := tokenFor(cmd, c.URL)
	if err != nil {
		return err
	}
	contentType, err := contentTypeFor(cmd)
	if err != nil {
		return err
	}
	format, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	c.Options.Token, c.Options.ContentType = token, contentType

	opts := []dispatch.Option{dispatch.WithLogger(log)}
	if withCORS, _ := cmd.Flags().GetBool("cors-headers"); withCORS {
		opts = append(opts, dispatch.WithCORSHeaders())
	}
	return output.Send(cmd.Context(), cmd.OutOrStdout(), httpclient.Client(), format, c, opts...)
}

// tokenFor prefers --token, then the token stored for the URL's host.
func tokenFor(cmd *cobra.Command, rawURL string) (string, error) {
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return "", fmt.Errorf("failed to parse --token flag: %w", err)
	}
	if token != "" {
		return token, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// the dispatcher reports malformed URLs
		return "", nil
	}
	token, err = config.GetToken(u.Host)
	if err != nil {
		return "", fmt.Errorf("error reading tokens: %w", err)
	}
	if token == "" && u.Port() != "" {
		token, err = config.GetToken(u.Hostname())
		if err != nil {
			return "", fmt.Errorf("error reading tokens: %w", err)
		}
	}
	if token != "" {
		log.WithField("host", u.Host).Debug("using stored token")
	}
	return token, nil
}

// contentTypeFor prefers --content-type, then the stored default.
func contentTypeFor(cmd *cobra.Command) (string, error) {
	ct, err := cmd.Flags().GetString("content-type")
	if err != nil {
		return "", fmt.Errorf("failed to parse --content-type flag: %w", err)
	}
	if ct != "" {
		return ct, nil
	}
	ct, err = config.GetDefaultContentType()
	if err != nil {
		return "", fmt.Errorf("error loading default: %w", err)
	}
	return ct, nil
}

func formatFlag(cmd *cobra.Command) (output.Format, error) {
	f, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to parse --format flag: %w", err)
	}
	return output.ParseFormat(f)
}

// readData resolves a DATA argument: - reads stdin, @path reads a file,
// anything else is sent as is.
func readData(cmd *cobra.Command, arg string) ([]byte, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("error reading data file: %w", err)
		}
		return data, nil
	default:
		return []byte(arg), nil
	}
}

func mask(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}

// setup wires flags and commands explicitly.
func setup() {
	// flag wiring
	rootCmd.PersistentFlags().StringP("token", "t", "", "bearer token (default: stored token for the URL host)")
	rootCmd.PersistentFlags().StringP("content-type", "c", "", "Content-Type header (default: stored default or application/json)")
	rootCmd.PersistentFlags().StringP("format", "f", string(output.FormatText), "output format: text, quoted or raw")
	rootCmd.PersistentFlags().Bool("cors-headers", false, "also set Access-Control-Allow-* headers on the outgoing request")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests to stderr")

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	serveCmd.Flags().String("dir", "", "directory with the browser build to serve")

	// flag wiring for tokens commands
	tokensSetCmd.Flags().String("host", "", "host, optionally with port")
	tokensSetCmd.Flags().String("value", "", "bearer token")
	tokensDeleteCmd.Flags().String("host", "", "host, optionally with port")

	// command wiring
	rootCmd.AddCommand(requestCmd, getCmd, postCmd, putCmd, deleteCmd, replCmd, serveCmd, tokensCmd, typeCmd, versionCmd)
	tokensCmd.AddCommand(tokensListCmd, tokensSetCmd, tokensDeleteCmd, tokensPathCmd)
	typeCmd.AddCommand(typeShowCmd, typeSetCmd)
}

func run() error {
	setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}
