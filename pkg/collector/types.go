package collector

import (
	"context"

	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

// Collector fetches every parameter stored under a root path.
// Implementations perform their own pagination and recursive traversal.
// A root without parameters yields an empty slice and no error;
// backend failures are returned as errors.
// All collectors must support context-based cancellation.
type Collector interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	Collect(ctx context.Context, root string) ([]parameter.Entry, error)
}
