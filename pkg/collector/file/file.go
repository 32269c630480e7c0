package file

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
	"github.com/NVIDIA/ssm-inventory/pkg/serializer"
)

// Collector reads parameters from a local YAML or JSON parameter document:
//
//	parameters:
//	  - name: /proxmox/cl1/n01/ip
//	    value: 10.10.1.11
//
// Roots filter the document by path prefix, mirroring a recursive store lookup.
type Collector struct {
	Path string
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return "file"
}

// Collect loads the document and returns the entries under root in document order.
func (c *Collector) Collect(ctx context.Context, root string) ([]parameter.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := DocumentFromFile(c.Path)
	if err != nil {
		return nil, err
	}

	entries := doc.UnderRoot(root)
	slog.Debug("loaded parameters from file",
		slog.String("path", c.Path),
		slog.String("root", root),
		slog.Int("parameters", len(entries)),
	)

	return entries, nil
}

// DocumentFromFile loads a parameter Document from the specified file path.
func DocumentFromFile(path string) (*parameter.Document, error) {
	ser, err := serializer.NewFileReader(serializer.FormatFromPath(path), path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parameter file %q: %w", path, err)
	}
	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close parameter file", "error", closeErr)
		}
	}()

	var doc parameter.Document
	if err := ser.Deserialize(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse parameter file %q: %w", path, err)
	}

	return &doc, nil
}
