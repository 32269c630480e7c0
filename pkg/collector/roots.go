package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

// DefaultRoot is the root path used when none is configured.
const DefaultRoot = parameter.Separator

// CollectRoots fetches all roots concurrently and concatenates the results in
// root order, so the entry order stays reproducible regardless of which fetch
// finishes first. Any failing root fails the whole collection.
func CollectRoots(ctx context.Context, c Collector, roots []string) ([]parameter.Entry, error) {
	if len(roots) == 0 {
		roots = []string{DefaultRoot}
	}

	start := time.Now()
	defer func() {
		fetchDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	}()

	results := make([][]parameter.Entry, len(roots))
	g, gctx := errgroup.WithContext(ctx)

	for i, root := range roots {
		g.Go(func() error {
			slog.Debug("collecting parameters", slog.String("source", c.Name()), slog.String("root", root))
			entries, err := c.Collect(gctx, root)
			if err != nil {
				return fmt.Errorf("failed to collect parameters under %q: %w", root, err)
			}
			results[i] = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fetchTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, err
	}
	fetchTotal.WithLabelValues(c.Name(), "success").Inc()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	entries := make([]parameter.Entry, 0, total)
	for _, r := range results {
		entries = append(entries, r...)
	}

	slog.Debug("parameter collection complete",
		slog.String("source", c.Name()),
		slog.Int("roots", len(roots)),
		slog.Int("parameters", len(entries)),
	)

	return entries, nil
}
