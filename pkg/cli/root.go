/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/ssm-inventory/pkg/collector"
	inverrors "github.com/NVIDIA/ssm-inventory/pkg/errors"
	"github.com/NVIDIA/ssm-inventory/pkg/logging"
	"github.com/NVIDIA/ssm-inventory/pkg/serializer"
)

const (
	name = "ssminv"

	exitOK       = 0
	exitError    = 1
	exitCanceled = 2
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/ssm-inventory/pkg/cli.version=1.0.0"
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output destination: file path, '-' for stdout, or cm://namespace/name (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   "output format (json, yaml, table)",
	}
)

// sourceFlags select and configure the parameter backend.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "parameter root path, can be repeated (default: /)",
			Sources: cli.EnvVars("SSM_PARAMETER_ROOT"),
		},
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Value:   collector.SourceSSM,
			Usage:   "parameter source: ssm, a .yaml/.json file, or cm://namespace/name",
			Sources: cli.EnvVars("SSMINV_SOURCE"),
		},
		&cli.StringFlag{
			Name:    "region",
			Value:   collector.DefaultRegion,
			Usage:   "AWS region of the parameter store",
			Sources: cli.EnvVars("AWS_REGION", "AWS_DEFAULT_REGION"),
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile",
			Sources: cli.EnvVars("AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "kubeconfig",
			Usage:   "kubeconfig used for cm:// sources and outputs",
			Sources: cli.EnvVars("KUBECONFIG"),
		},
		&cli.FloatFlag{
			Name:    "ssm-rate-limit",
			Value:   10,
			Usage:   "maximum SSM page requests per second, 0 disables limiting",
			Sources: cli.EnvVars("SSMINV_SSM_RATE_LIMIT"),
		},
		&cli.StringSliceFlag{
			Name:  "exclude-attr",
			Usage: "drop host attributes matching the pattern (prefix*, *suffix, *contains*), can be repeated",
		},
	}
}

func newRootCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "list",
			Usage: "print the full inventory document",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "print the variables of a single host",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "deadline for fetching parameters, 0 disables it",
			Sources: cli.EnvVars("SSMINV_TIMEOUT"),
		},
		outputFlag,
		formatFlag,
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			Sources: cli.EnvVars("SSMINV_DEBUG"),
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "emit logs as JSON",
		},
	}
	flags = append(flags, sourceFlags()...)

	return &cli.Command{
		Name:                  name,
		Usage:                 "Ansible dynamic inventory from hierarchical parameters",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		Description: `Builds an Ansible dynamic inventory from parameters stored as
/<domain>/<cluster>/<node>/<attribute> (AWS SSM Parameter Store by default).

  ssminv --list
  ssminv --host n01
  ssminv --list --root /slurm --root /k8s --format yaml
  ssminv --list --source params.yaml --output cm://infra/ansible-inventory
  ssminv serve --port 8080`,
		Flags: flags,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultLogger(logLevelFromCmd(cmd), cmd.Bool("log-json"))
			return ctx, nil
		},
		Action: inventoryAction,
		Commands: []*cli.Command{
			serveCmd(),
		},
		// exit codes are handled by Execute
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// Execute runs the CLI and exits the process with the resulting code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().Run(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		inverrors.CodeOf(err) == inverrors.ErrCodeTimeout {
		return exitCanceled
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}

	return exitError
}

// commandLister prints the visible subcommands for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(w, c.Name)
	}
}
