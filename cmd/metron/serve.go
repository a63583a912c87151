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

	"github.com/aretw0/metron/internal/metrics"
	"github.com/aretw0/metron/internal/presentation/tui"
	httpAdapter "github.com/aretw0/metron/pkg/adapters/http"
	"github.com/aretw0/metron/pkg/ports"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP conversion API",
	Long:  `Starts the conversion API over HTTP. The OpenAPI document is served at /openapi.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		var (
			observer ports.Observer
			recorder *metrics.Recorder
		)
		if cfg.Metrics.Enabled {
			recorder = metrics.NewRecorder()
			observer = recorder
		}

		a, err := newApp(cmd.Context(), cfg, observer)
		if err != nil {
			return err
		}
		defer a.Close()

		handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(a.logger)}
		if recorder != nil {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(recorder.Handler()))
		}
		handler, err := httpAdapter.NewHandler(a.converter, handlerOpts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if tui.IsTerminal(os.Stdout) {
			profile := termenv.EnvColorProfile()
			tui.PrintBanner(os.Stdout, profile)
			fmt.Fprintln(os.Stdout, tui.ServingLine(profile, cfg.HTTP.Addr, recorder != nil))
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			a.logger.Info("starting metron server", "addr", srv.Addr, "metrics", cfg.Metrics.Enabled)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			a.logger.Info("shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("graceful shutdown did not complete", "timeout", cfg.HTTP.ShutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			a.logger.Info("metron server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides http.addr)")
}
