package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Serializer writes a value in a given format to some destination.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
	Close() error
}

// Closer is implemented by serializers holding resources.
type Closer interface {
	Close() error
}

// Writer serializes values to an io.Writer.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer

	closeOnce sync.Once
	closeErr  error
}

// NewWriter creates a Writer for the given format and output.
// Unknown formats fall back to JSON, nil output falls back to stdout.
func NewWriter(format Format, output io.Writer) *Writer {
	if format.IsUnknown() {
		slog.Warn("unknown output format, defaulting to json", slog.String("format", string(format)))
		format = FormatJSON
	}
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// NewStdoutWriter creates a Writer printing to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout creates a serializer for the given destination:
//   - "", whitespace or "-" writes to stdout
//   - "cm://namespace/name" writes into a Kubernetes ConfigMap
//   - anything else is created (or truncated) as a local file
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)

	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	if strings.HasPrefix(path, ConfigMapURIScheme) {
		namespace, name, err := ParseConfigMapURI(path)
		if err != nil {
			return nil, err
		}
		return NewConfigMapWriter(namespace, name, format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Serialize writes data in the configured format.
func (w *Writer) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := Marshal(w.format, data)
	if err != nil {
		return err
	}

	if _, err := w.output.Write(b); err != nil {
		return fmt.Errorf("failed to write %s output: %w", w.format, err)
	}
	return nil
}

// Close releases the underlying file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		if w.closer != nil {
			w.closeErr = w.closer.Close()
		}
	})
	return w.closeErr
}

// Marshal encodes data in the given format. JSON output is indented and
// newline-terminated.
func Marshal(format Format, data any) ([]byte, error) {
	switch format {
	case FormatYAML:
		b, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return b, nil

	case FormatTable:
		b, err := marshalTable(data)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to table: %w", err)
		}
		return b, nil

	default:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to json: %w", err)
		}
		return append(b, '\n'), nil
	}
}
