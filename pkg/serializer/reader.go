package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Reader decodes a JSON or YAML document from a file.
type Reader struct {
	format Format
	input  io.ReadCloser
}

// NewFileReader opens path for decoding in the given format.
// Only JSON and YAML can be read back.
func NewFileReader(format Format, path string) (*Reader, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unsupported input format %q for %q", format, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %q: %w", path, err)
	}

	return &Reader{format: format, input: f}, nil
}

// Deserialize decodes the document into v.
func (r *Reader) Deserialize(v any) error {
	if r.format == FormatJSON {
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode json: %w", err)
		}
		return nil
	}

	if err := yaml.NewDecoder(r.input).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode yaml: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.input.Close()
}
