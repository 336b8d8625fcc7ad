package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sdui-cli/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool
	var datastarURL string

	cmd := &cobra.Command{
		Use:   "web <file|->",
		Short: "Host a document in the browser",
		Long: strings.TrimSpace(`
Host a document on a local HTTP server. The page is server-rendered; cards,
buttons and dialog close buttons post back to the server, which updates the
page over a datastar event stream.
`),
		Example: strings.TrimSpace(`
# Serve on the configured web.addr
sdui web page.json

# Serve on another port and open the browser
sdui web page.json --addr 127.0.0.1:3335 --open
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := readDocument(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = strings.TrimSpace(app.cfg.Web.Addr)
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:        listenAddr,
				Title:       documentTitle(args[0]),
				Markdown:    app.cfg.TUI.Markdown,
				DatastarURL: datastarURL,
				Log:         app.log,
			}, page)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				}
			}

			_ = writeOut(cmd, app, map[string]any{
				"addr":      actualAddr,
				"url":       url,
				"document":  args[0],
				"openError": openErr,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "sdui web running at %s\n", url)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port); default from web.addr")
	cmd.Flags().BoolVar(&open, "open", false, "Open the page in your default browser")
	cmd.Flags().StringVar(&datastarURL, "datastar-url", "", "Datastar client bundle URL")
	return cmd
}

// serve runs until ctx is done, then shuts down. Event streams end when
// their request contexts are cancelled.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	hs := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

func openPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Run()
	default:
		return exec.Command("xdg-open", path).Run()
	}
}
