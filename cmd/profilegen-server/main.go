package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-profilegen"
	"github.com/goliatone/go-profilegen/internal/config"
	"github.com/goliatone/go-profilegen/internal/logging"
	"github.com/goliatone/go-profilegen/internal/metrics"
	"github.com/goliatone/go-profilegen/internal/server"
	"github.com/goliatone/go-profilegen/pkg/orchestrator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "profilegen-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFlag    = flag.String("config", "", "configuration file (YAML or JSON)")
		addrFlag      = flag.String("addr", "", "HTTP listen address")
		originFlag    = flag.String("origin", "", "public origin used in share links")
		levelFlag     = flag.String("log-level", "", "log level (debug, info, warn, error)")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := *configFlag
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}
	if *originFlag != "" {
		cfg.Server.Origin = *originFlag
	}
	if *levelFlag != "" {
		cfg.Log.Level = *levelFlag
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, "server", level)

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	store, err := cfg.Store()
	if err != nil {
		return err
	}
	app, err := orchestrator.New(
		orchestrator.WithStore(store),
		orchestrator.WithAgents(cfg.Directory()),
		orchestrator.WithThemes(catalog),
		orchestrator.WithTemplateDir(cfg.Templates.Dir),
		orchestrator.WithLogger(logging.Component(logger, "orchestrator")),
		orchestrator.WithObserver(metrics.Observer{}),
	)
	if err != nil {
		return err
	}

	srv, err := server.New(app, server.Options{
		Origin:   cfg.Server.Origin,
		Username: cfg.Server.Username,
		Assets:   profilegen.AssetsFS(),
		Logger:   logging.Component(logger, "http"),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "origin", cfg.Server.Origin)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	return nil
}
