package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"zupytoken/config"
	"zupytoken/gateway"
	"zupytoken/observability/logging"
	telemetry "zupytoken/observability/otel"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "zupy-gateway.toml", "path to gateway configuration")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.Setup("zupy-gateway", "").Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.SetupWithFile("zupy-gateway", cfg.Environment, cfg.LogPath)

	addrs, err := config.LoadAddressBook(cfg.AddressBook)
	if err != nil {
		logger.Error("load address book", "error", err)
		os.Exit(1)
	}

	shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "zupy-gateway",
		Environment: cfg.Environment,
		Cluster:     addrs.Cluster,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Headers:     telemetry.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Metrics:     cfg.Telemetry.Metrics,
		Traces:      cfg.Telemetry.Traces,
	})
	if err != nil {
		logger.Error("telemetry init", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data dir", "error", err)
		os.Exit(1)
	}
	store, err := gateway.OpenStore(filepath.Join(cfg.DataDir, "gateway.db"))
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	audit, err := gateway.OpenAudit(filepath.Join(cfg.DataDir, "audit.db"))
	if err != nil {
		logger.Error("open audit index", "error", err)
		os.Exit(1)
	}

	server := gateway.NewServer(gateway.ServerConfig{
		Logger:    logger,
		Addresses: addrs,
		Store:     store,
		Audit:     audit,
		Auth:      cfg.Auth,
		RateLimit: cfg.RateLimit,
	})

	handler := otelhttp.NewHandler(server.Router(), "zupy-gateway")
	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !cfg.Auth.Enabled && !isLoopback(cfg.ListenAddress) {
		logger.Warn("auth disabled on a non-loopback listener", "listen", cfg.ListenAddress)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "listen", cfg.ListenAddress, "cluster", addrs.Cluster)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}
}

func isLoopback(listen string) bool {
	host := listen
	if idx := strings.LastIndex(listen, ":"); idx >= 0 {
		host = listen[:idx]
	}
	switch host {
	case "", "localhost", "127.0.0.1", "[::1]", "::1":
		return true
	}
	return false
}
