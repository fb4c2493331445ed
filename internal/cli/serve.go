package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obreasy/obreasy/internal/server"
	"github.com/obreasy/obreasy/pkg/alerts"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Obreasy API server",
	Long: `Run the HTTP API server. Alerts for every project are re-evaluated
on a fixed interval (server.check_interval) and on demand via the API.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := alerts.New(store, initNotifiers(cfg), logger)

	listen := cfg.Server.Listen
	if flagListen, _ := cmd.Flags().GetString("listen"); flagListen != "" {
		listen = flagListen
	}

	readTimeout, err := parseDuration(cfg.Server.ReadTimeout, 30*time.Second)
	if err != nil {
		return fmt.Errorf("invalid server.read_timeout: %w", err)
	}
	writeTimeout, err := parseDuration(cfg.Server.WriteTimeout, 60*time.Second)
	if err != nil {
		return fmt.Errorf("invalid server.write_timeout: %w", err)
	}
	checkInterval, err := parseDuration(cfg.Server.CheckInterval, time.Hour)
	if err != nil {
		return fmt.Errorf("invalid server.check_interval: %w", err)
	}

	api := server.NewServer(engine, store, logger)

	srv := &http.Server{
		Addr:         listen,
		Handler:      api.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go server.RunPeriodicChecks(ctx, engine, store, checkInterval, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "listen", listen, "check_interval", checkInterval.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
