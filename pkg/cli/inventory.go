/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/ssm-inventory/pkg/collector"
	"github.com/NVIDIA/ssm-inventory/pkg/inventory"
	"github.com/NVIDIA/ssm-inventory/pkg/k8s/client"
	"github.com/NVIDIA/ssm-inventory/pkg/serializer"
)

// inventoryAction implements the Ansible inventory script protocol:
// --list prints the whole document, --host prints one host's variables.
func inventoryAction(ctx context.Context, cmd *cli.Command) error {
	list := cmd.Bool("list")
	host := cmd.String("host")

	switch {
	case list && host != "":
		return cli.Exit("--list and --host are mutually exclusive", exitError)
	case !list && host == "":
		return cli.Exit("one of --list or --host is required", exitError)
	}

	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	c, err := collectorFromCmd(cmd)
	if err != nil {
		return err
	}

	fetchCtx, cancel := withTimeout(ctx, cmd)
	defer cancel()

	roots := rootsFromCmd(cmd)
	start := time.Now()
	entries, err := collector.CollectRoots(fetchCtx, c, roots)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		slog.Warn("no parameters found, inventory will be empty",
			slog.String("source", c.Name()),
			slog.Any("roots", roots),
		)
	}

	inv := builderFromCmd(cmd).Build(entries)
	slog.Debug("inventory ready",
		slog.Int("parameters", len(entries)),
		slog.Int("hosts", len(inv.HostVars)),
		durationSince(start),
	)

	// the destination is opened only after a successful fetch so a failure
	// never truncates an existing inventory file
	ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	if cmw, ok := ser.(*serializer.ConfigMapWriter); ok && cmd.String("kubeconfig") != "" {
		cs, _, err := client.BuildKubeClient(cmd.String("kubeconfig"))
		if err != nil {
			return err
		}
		cmw.ClientSet = cs
	}

	if list {
		return ser.Serialize(ctx, inv)
	}

	return ser.Serialize(ctx, lookupHost(inv, host))
}

// lookupHost returns the variables of host, warning with close matches when
// the host is unknown. A known host may have no variables left after exclusions.
func lookupHost(inv *inventory.Inventory, host string) inventory.HostVars {
	if _, ok := inv.HostVars[host]; ok {
		return inv.Host(host)
	}

	attrs := []any{slog.String("host", host)}
	if hints := suggestHosts(host, inv.HostNames()); len(hints) > 0 {
		attrs = append(attrs, slog.Any("did_you_mean", hints))
	}
	slog.Warn("host not found in inventory", attrs...)
	return inventory.HostVars{}
}
