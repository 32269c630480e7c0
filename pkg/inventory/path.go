package inventory

import (
	"strings"

	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

// minSegments is the number of non-empty path segments a parameter needs
// to be placed in the inventory: domain, cluster, node, attribute.
const minSegments = 4

// ParsedPath is a parameter path split into its inventory coordinates.
type ParsedPath struct {
	Domain    string
	Cluster   string
	Node      string
	Attribute string
}

// IsShared reports whether the path addresses cluster-wide data rather than a host.
func (p ParsedPath) IsShared() bool {
	return p.Node == SharedNode
}

// Classify splits path on the separator, drops empty segments, and maps the
// first four remaining segments to domain, cluster, node and attribute.
// Extra segments are ignored. Paths with fewer than four segments are
// reported as invalid with ok == false.
func Classify(path string) (ParsedPath, bool) {
	segments := make([]string, 0, minSegments)
	for _, s := range strings.Split(path, parameter.Separator) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < minSegments {
		return ParsedPath{}, false
	}

	return ParsedPath{
		Domain:    segments[0],
		Cluster:   segments[1],
		Node:      segments[2],
		Attribute: segments[3],
	}, true
}
