package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/internal/cli"
	"github.com/ts1257/acme-blogs/internal/presentation/tui"
	httpAdapter "github.com/ts1257/acme-blogs/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves one page per viewer over HTTP. Viewers are identified by a session cookie;
their selection and expanded posts are kept in memory or in Redis (redis.addr).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			app.Config.Server.Addr = addr
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		sessions, closeStore, err := app.NewSessions(sigCtx)
		if err != nil {
			tui.Status(os.Stderr, false, err.Error())
			return err
		}
		defer closeStore()

		opts := []httpAdapter.Option{httpAdapter.WithLogger(app.Logger)}
		if app.Config.Server.Metrics {
			opts = append(opts, httpAdapter.WithMetrics(app.Metrics.Handler()))
		}
		srv := &http.Server{
			Addr:              app.Config.Server.Addr,
			Handler:           httpAdapter.NewHandler(sessions, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			tui.Status(os.Stderr, true, "acme-blogs "+blogs.Version+" listening on "+srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sigCtx.Done():
			app.Logger.Info("Start shutdown", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				app.Logger.Error("Graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			app.Logger.Info("Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
}
