/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/ssm-inventory/pkg/collector"
	"github.com/NVIDIA/ssm-inventory/pkg/inventory"
	"github.com/NVIDIA/ssm-inventory/pkg/logging"
	"github.com/NVIDIA/ssm-inventory/pkg/serializer"
)

// maxSuggestionDistance is the largest edit distance offered as a host hint.
const maxSuggestionDistance = 2

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// factoryFromCmd builds the collector factory from the parameter source flags.
func factoryFromCmd(cmd *cli.Command) *collector.DefaultFactory {
	f := collector.NewDefaultFactory()
	if region := cmd.String("region"); region != "" {
		f.Region = region
	}
	f.Profile = cmd.String("profile")
	f.Kubeconfig = cmd.String("kubeconfig")
	f.SSMPageRate = rate.Limit(cmd.Float("ssm-rate-limit"))
	return f
}

// newFactory is replaced in tests.
var newFactory = func(cmd *cli.Command) collector.Factory {
	return factoryFromCmd(cmd)
}

func collectorFromCmd(cmd *cli.Command) (collector.Collector, error) {
	return collector.ForSource(newFactory(cmd), cmd.String("source"))
}

func builderFromCmd(cmd *cli.Command) *inventory.Builder {
	return inventory.NewBuilder(
		inventory.WithExcludeAttributes(cmd.StringSlice("exclude-attr")),
	)
}

func rootsFromCmd(cmd *cli.Command) []string {
	roots := cmd.StringSlice("root")
	if len(roots) == 0 {
		return []string{collector.DefaultRoot}
	}
	return roots
}

// withTimeout applies --timeout to ctx. Zero disables the deadline.
func withTimeout(ctx context.Context, cmd *cli.Command) (context.Context, context.CancelFunc) {
	if d := cmd.Duration("timeout"); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func logLevelFromCmd(cmd *cli.Command) slog.Level {
	if cmd.Bool("debug") {
		return slog.LevelDebug
	}
	return logging.LevelFromEnv()
}

// suggestHosts returns known hosts within maxSuggestionDistance of name,
// closest first.
func suggestHosts(name string, known []string) []string {
	type candidate struct {
		host     string
		distance int
	}

	var candidates []candidate
	for _, h := range known {
		if d := levenshtein.ComputeDistance(name, h); d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{host: h, distance: d})
		}
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return a.distance - b.distance
	})

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.host)
	}
	return out
}

func durationSince(start time.Time) slog.Attr {
	return slog.Duration("duration", time.Since(start))
}
