package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"squadpage/internal/adapters/directus"
	"squadpage/internal/adapters/http/perf"
	"squadpage/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "squadpage",
		Short:   "Squad page: student profiles and guestbooks from Directus",
		Version: version,
		// serve is the default so a bare binary starts the site
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, "")
		},
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), messagesCmd())
	return root
}

// loadConfig reads the environment and installs the process logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	slog.SetDefault(newLogger(cfg))
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newDirectusClient(cfg *config.Config, collector *perf.Collector) *directus.Client {
	return directus.NewClient(cfg.APIBase,
		directus.WithTimeout(cfg.UpstreamTimeout),
		directus.WithCollector(collector),
	)
}
