package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/obreasy/obreasy/internal/config"
	"github.com/obreasy/obreasy/pkg/alerts"
	"github.com/obreasy/obreasy/pkg/notify"
	"github.com/obreasy/obreasy/pkg/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "obreasy",
	Short: "Obreasy - Construction project budget tracking and reminders",
	Long: `Obreasy tracks construction and renovation project finances: expenses,
hired professionals, budget threshold alerts, deadline reminders and
recurring payment reminders, with a notification log per project.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.obreasy/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initStore creates a storage backend from config.
func initStore(cfg *config.Config) (storage.Store, error) {
	return storage.NewSQLite(cfg.Storage.Path)
}

// initNotifiers creates outbound notifiers from config.
func initNotifiers(cfg *config.Config) []notify.Notifier {
	var notifiers []notify.Notifier

	if cfg.Notify.Slack.Enabled && cfg.Notify.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(
			cfg.Notify.Slack.WebhookURL,
			cfg.Notify.Slack.Channel,
		))
	}

	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(
			cfg.Notify.Webhook.URL,
			cfg.Notify.Webhook.Secret,
		))
	}

	return notifiers
}

// initEngine creates a fully wired alert engine.
func initEngine(cfg *config.Config) (*alerts.Engine, storage.Store, error) {
	logger := newLogger(cfg)

	store, err := initStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	engine := alerts.New(store, initNotifiers(cfg), logger)
	return engine, store, nil
}

// resolveProject returns the project ID from the --project flag, falling
// back to the configured default.
func resolveProject(cmd *cobra.Command, cfg *config.Config) (string, error) {
	project, _ := cmd.Flags().GetString("project")
	if project == "" {
		project = cfg.Defaults.Project
	}
	if project == "" {
		return "", fmt.Errorf("no project given: pass --project or set defaults.project in config")
	}
	return project, nil
}
