package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/cli"
	httpAdapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/runner"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the wizard over a JSON API (see /openapi.yaml). Sessions live in
the configured store, so any replica behind a load balancer can answer any
request. With --metrics the Prometheus collectors are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		withMetrics, _ := cmd.Flags().GetBool("metrics")

		var engineOpts []intake.Option
		var metrics *observability.Metrics
		if withMetrics {
			metrics = observability.NewMetrics()
			engineOpts = append(engineOpts, intake.WithLifecycleHooks(metrics.Hooks()))
		}

		cfg, logger, engine, err := openEngine(cmd, engineOpts...)
		if err != nil {
			return err
		}

		sessions, closeSessions, err := cli.OpenSessions(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeSessions()

		handlerOpts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithSanitizer(runner.SanitizeInput),
		}
		if metrics != nil {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(metrics.Handler()))
		}
		handler, err := httpAdapter.NewHandler(engine, sessions, handlerOpts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		out := cmd.OutOrStdout()
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(out, "Starting Intake Server on %s\n", srv.Addr)
			if cfg.Dir != "" {
				fmt.Fprintf(out, "Serving flows from: %s\n", cfg.Dir)
			}
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Fprintf(out, "\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(out, "Intake Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}
