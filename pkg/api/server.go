// Package api serves inventory documents over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NVIDIA/ssm-inventory/pkg/collector"
	"github.com/NVIDIA/ssm-inventory/pkg/inventory"
	"github.com/NVIDIA/ssm-inventory/pkg/server"
)

const (
	name           = "ssminv-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/ssm-inventory/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Config configures Serve.
type Config struct {
	// Collector is the parameter source queried on every request. Required.
	Collector collector.Collector

	// Roots are the parameter roots fetched per request. Empty means "/".
	Roots []string

	// Builder builds the inventory. Nil uses defaults.
	Builder *inventory.Builder

	// Server overrides server.DefaultConfig.
	Server *server.Config
}

// Serve starts the API server and blocks until ctx is canceled or the process
// receives SIGINT/SIGTERM.
func Serve(ctx context.Context, cfg Config) error {
	if cfg.Collector == nil {
		return errors.New("api: collector is required")
	}

	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"source", cfg.Collector.Name(),
	)

	h := NewHandler(cfg.Collector, cfg.Roots, cfg.Builder)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(cfg.Server),
		server.WithHandler(h.Routes()),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// Name returns the server name used in logs.
func Name() string {
	return name
}

// Version returns the build version.
func Version() string {
	return version
}
