package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/recordcheck/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes batch validation over HTTP:

  POST /api/validate   validate a JSON array of records
  POST /api/inspect    list every failing field of one record
  GET  /api/runs       recent run summaries
  GET  /runs/{runID}   HTML report of a run
  GET  /healthz        liveness
  GET  /metrics        Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return &usageError{err: err}
			}

			slog.Info("configuration loaded",
				"addr", cfg.Server.Addr(),
				"max_concurrent", cfg.Server.MaxConcurrent,
				"workers", cfg.Batch.Workers,
				"history_size", cfg.Server.HistorySize,
			)

			server := web.NewServer(cfg)
			return serve(cmd.Context(), server, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "interface to bind (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default from config)")
	return cmd
}

// httpServer is the part of web.Server that serve drives.
type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs server until ctx is done, then shuts it down within timeout.
// If Start fails the shutdown goroutine is released before returning.
func serve(ctx context.Context, server httpServer, timeout time.Duration) error {
	startErr := make(chan error, 1)
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		select {
		case <-ctx.Done():
		case <-startErr:
			return
		}
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		startErr <- err
		<-shutdownDone
		return err
	}
	<-shutdownDone
	slog.Info("server stopped")
	return nil
}
