package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"squadpage/internal/adapters/email"
	web "squadpage/internal/adapters/http"
	"squadpage/internal/adapters/http/perf"
	"squadpage/internal/adapters/storage/message"
	"squadpage/internal/adapters/storage/person"
	"squadpage/internal/adapters/storage/squad"
	"squadpage/internal/config"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, port string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	handler, err := buildHandler(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", srv.Addr, "env", cfg.Env,
			"api_base", cfg.APIBase, "message_backend", cfg.MessageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server_stopped")
	return nil
}

// buildHandler wires stores, notifier and middleware from the config.
func buildHandler(cfg *config.Config) (http.Handler, error) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	client := newDirectusClient(cfg, collector)

	stores := web.Stores{
		PersonStore: person.NewDirectusStore(client),
		SquadStore:  squad.NewDirectusStore(client),
	}
	if cfg.MessageBackend == config.BackendMemory {
		stores.MessageStore = message.NewMemoryStore()
		slog.Warn("message_store_memory", "detail", "guestbook messages are lost on restart")
	} else {
		stores.MessageStore = message.NewDirectusStore(client)
	}

	var notifier email.Sender = email.NewNoopSender()
	if cfg.NotificationsEnabled() {
		notifier = email.NewResendSender(cfg.ResendKey, cfg.NotifyFrom)
		slog.Info("email_sender_configured", "provider", "resend", "to", cfg.NotifyTo)
	} else if cfg.IsProduction() {
		slog.Warn("email_sender_disabled", "detail", "set SQUADPAGE_RESEND_KEY, SQUADPAGE_NOTIFY_FROM and SQUADPAGE_NOTIFY_TO")
	}

	csrfKey, err := csrfKey(cfg)
	if err != nil {
		return nil, err
	}

	return web.NewMux(stores, web.Options{
		StaticDir:          cfg.StaticDir,
		Roster:             cfg.Roster(),
		TeamName:           cfg.TeamName,
		CSRFKey:            csrfKey,
		TrustedOrigins:     cfg.TrustedOrigins(),
		SecureCookies:      cfg.IsProduction(),
		RateLimitPerSecond: cfg.RateLimit,
		SlowRequestMs:      cfg.SlowRequestMs,
		Notifier:           notifier,
		NotifyFrom:         cfg.NotifyFrom,
		NotifyTo:           cfg.NotifyTo,
		Collector:          collector,
	})
}

func csrfKey(cfg *config.Config) ([]byte, error) {
	if cfg.CSRFKeyHex != "" {
		key, err := web.ParseCSRFKey(cfg.CSRFKeyHex)
		if err != nil {
			return nil, fmt.Errorf("SQUADPAGE_CSRF_KEY: %w", err)
		}
		return key, nil
	}
	slog.Warn("csrf_key_random", "detail", "sessions reset on restart; set SQUADPAGE_CSRF_KEY")
	return web.NewCSRFKey()
}

