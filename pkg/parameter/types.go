// Package parameter holds the raw parameter entry and document types.
package parameter

import "strings"

// Separator is the hierarchy separator used in parameter paths.
const Separator = "/"

// Entry is a single raw record returned by a parameter store:
// a hierarchical path and its (already decrypted) value.
type Entry struct {
	Path  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Document is the on-disk and ConfigMap representation of a parameter set.
// Entries keep document order, which is the order the inventory builder sees them in.
type Document struct {
	Parameters []Entry `json:"parameters" yaml:"parameters"`
}

// UnderRoot returns the entries of the document that live under root, in document order.
// A root of "" or "/" matches every entry.
func (d *Document) UnderRoot(root string) []Entry {
	result := make([]Entry, 0, len(d.Parameters))
	for _, e := range d.Parameters {
		if IsUnderRoot(e.Path, root) {
			result = append(result, e)
		}
	}
	return result
}

// IsUnderRoot reports whether path is root itself or nested below it.
// Matching is done on whole segments, so "/weka" does not match "/wekafs/...".
func IsUnderRoot(path, root string) bool {
	root = strings.TrimRight(root, Separator)
	if root == "" {
		return true
	}
	return path == root || strings.HasPrefix(path, root+Separator)
}
