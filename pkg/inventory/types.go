package inventory

import (
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
)

const (
	// MetaKey is the reserved top-level key holding per-host variables.
	// It starts with an underscore, which domain and cluster names do not use.
	MetaKey = "_meta"

	// SharedNode is the reserved node name for cluster-wide parameters.
	SharedNode = "shared"

	// Synthesized host variables.
	VarSystemType  = "system_type"
	VarClusterID   = "cluster_id"
	VarAnsibleHost = "ansible_host"

	// AttrIP is the attribute aliased to ansible_host.
	AttrIP = "ip"
)

// HostVars is the open-ended attribute map of one host.
type HostVars map[string]string

// Group is a named inventory group. Domain groups carry Children (cluster names),
// cluster groups carry Hosts (node names). A name used both as a domain and as a
// cluster yields one group with both lists.
type Group struct {
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`
	Hosts    []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
}

// Meta is the content of the reserved MetaKey entry.
type Meta struct {
	HostVars map[string]HostVars `json:"hostvars" yaml:"hostvars"`
}

// Inventory is the grouped inventory: groups by name plus per-host variables.
// It serializes to the document layout expected by Ansible dynamic inventory:
//
//	{"_meta": {"hostvars": {...}}, "<domain>": {"children": [...]}, "<cluster>": {"hosts": [...]}}
type Inventory struct {
	Groups   map[string]*Group
	HostVars map[string]HostVars
}

// NewInventory returns an empty, well-formed inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Groups:   make(map[string]*Group),
		HostVars: make(map[string]HostVars),
	}
}

// Host returns the variables of the named host, or an empty map if the host is unknown.
func (inv *Inventory) Host(name string) HostVars {
	if hv, ok := inv.HostVars[name]; ok {
		return hv
	}
	return HostVars{}
}

// HostNames returns all known host names in ascending order.
func (inv *Inventory) HostNames() []string {
	return slices.Sorted(maps.Keys(inv.HostVars))
}

// GroupNames returns all group names in ascending order.
func (inv *Inventory) GroupNames() []string {
	return slices.Sorted(maps.Keys(inv.Groups))
}

// document flattens the inventory into its serialized form.
func (inv *Inventory) document() map[string]any {
	hostVars := inv.HostVars
	if hostVars == nil {
		hostVars = map[string]HostVars{}
	}

	doc := make(map[string]any, len(inv.Groups)+1)
	for name, g := range inv.Groups {
		if name == MetaKey {
			slog.Warn("group name collides with reserved key, dropping group", slog.String("group", name))
			continue
		}
		doc[name] = g
	}
	doc[MetaKey] = Meta{HostVars: hostVars}

	return doc
}

// MarshalJSON implements json.Marshaler.
func (inv *Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inv.document())
}

// MarshalYAML implements yaml.Marshaler.
func (inv *Inventory) MarshalYAML() (any, error) {
	return inv.document(), nil
}
