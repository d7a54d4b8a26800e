package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/config"
	relayhttp "github.com/bananamirror/relay/http"
	"github.com/bananamirror/relay/keybackend"
	"github.com/bananamirror/relay/storage"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Start the HTTP server",
	Long:        `Start the relay HTTP server.`,
	Annotations: map[string]string{needsConfig: ""},
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP server port (default: 8787, env: RELAY_SERVER_PORT)")
	serveCmd.Flags().String("domain", "", "public mirror domain (env: RELAY_MIRROR_DOMAIN)")
	serveCmd.Flags().String("storage-type", "", "storage backend: filesystem, r2 (env: RELAY_STORAGE_TYPE)")
	serveCmd.Flags().String("storage-path", "", "filesystem storage directory (default: ./data, env: RELAY_STORAGE_PATH)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	material, err := keybackend.Load(cfg.Auth.Keys)
	if err != nil {
		return fmt.Errorf("load keys: %w", err)
	}

	env := cfg.Env()
	creds := relay.NewCredentials(relay.AuthConfig{
		Environment:  env,
		PermittedIPs: cfg.Auth.PermittedIPs,
		PublicKey:    material.PublicKey,
		PrivateKey:   material.PrivateKey,
	})
	if err := creds.Err(); err != nil {
		slog.Error("public key unusable, every request will fail with 500", "err", err)
	}
	if env == relay.EnvDevelopment {
		slog.Warn("development mode: caller IP checks are disabled")
	}

	dispatcher, closeBuckets, err := openDispatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBuckets()

	handlerConfig := relayhttp.HandlerConfig{
		Auth: relayhttp.AuthMiddlewareConfig{
			ClientIPHeader: cfg.Server.ClientIPHeader,
			MaxBodySize:    cfg.Server.MaxBodySize,
		},
		CORS: cfg.CORS,
	}

	handler := relayhttp.NewHandler(&handlerConfig, relay.NewAuthenticator(creds), dispatcher)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      writeTimeout(cfg.Download.Timeout),
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"env", env,
		"storage", cfg.Storage.Type,
		"domain", cfg.Mirror.Domain,
		"permitted_ips", len(cfg.Auth.PermittedIPs),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// openDispatcher opens the configured buckets and wraps them in a Dispatcher.
func openDispatcher(ctx context.Context, cfg *config.Config) (*relay.Dispatcher, func(), error) {
	buckets, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	dispatcher := relay.NewDispatcher(buckets.Bindings, cfg.Mirror.Domain,
		relay.WithHTTPClient(&http.Client{Timeout: cfg.Download.Timeout}),
		relay.WithMaxDownloadSize(cfg.Download.MaxSize),
	)
	return dispatcher, func() { _ = buckets.Close() }, nil
}

// writeTimeout leaves room for a mirrored download, which runs inside the request.
// A download timeout of 0 means no limit, so the response gets none either.
func writeTimeout(download time.Duration) time.Duration {
	if download <= 0 {
		return 0
	}
	return download + time.Minute
}
