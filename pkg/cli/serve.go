/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/ssm-inventory/pkg/api"
	"github.com/NVIDIA/ssm-inventory/pkg/logging"
	"github.com/NVIDIA/ssm-inventory/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve the inventory over HTTP",
		Description: `Starts an HTTP server exposing the inventory built from the configured source.
Every request fetches the parameters again; nothing is cached.

Routes:
  GET /v1/inventory[?format=yaml]   full inventory document
  GET /v1/hosts/{name}[?format=yaml] variables of one host ({} if unknown)
  GET /health                        liveness
  GET /ready                         readiness
  GET /metrics                       Prometheus metrics`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "listen address (default: all interfaces)",
				Sources: cli.EnvVars("ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "listen port (default: $PORT or 8080)",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "API requests per second (default: 20)",
			},
			&cli.IntFlag{
				Name:  "rate-limit-burst",
				Usage: "API request burst size (default: 40)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// flags given after the subcommand are only visible here
			if cmd.Bool("log-json") {
				logging.SetDefaultStructuredLogger(api.Name(), api.Version(), logLevelFromCmd(cmd))
			} else {
				logging.SetDefaultLogger(logLevelFromCmd(cmd), false)
			}

			c, err := collectorFromCmd(cmd)
			if err != nil {
				return err
			}

			return api.Serve(ctx, api.Config{
				Collector: c,
				Roots:     rootsFromCmd(cmd),
				Builder:   builderFromCmd(cmd),
				Server:    serverConfigFromCmd(cmd),
			})
		},
	}
}

func serverConfigFromCmd(cmd *cli.Command) *server.Config {
	cfg := server.DefaultConfig()
	if cmd.IsSet("address") {
		cfg.Address = cmd.String("address")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("rate-limit") {
		cfg.RateLimit = rate.Limit(cmd.Float("rate-limit"))
	}
	if cmd.IsSet("rate-limit-burst") {
		cfg.RateLimitBurst = int(cmd.Int("rate-limit-burst"))
	}
	if d := cmd.Duration("timeout"); d > 0 {
		cfg.RequestTimeout = d
	}
	return cfg
}
