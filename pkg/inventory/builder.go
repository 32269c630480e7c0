package inventory

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

// Option is a functional option for configuring Builder instances.
type Option func(*Builder)

// WithExcludeAttributes returns an Option that removes matching host attributes
// from the built inventory. See ExcludeAttributes for the pattern syntax.
func WithExcludeAttributes(patterns []string) Option {
	return func(b *Builder) {
		b.ExcludeAttributes = append(b.ExcludeAttributes, patterns...)
	}
}

// NewBuilder creates a new Builder instance with the provided functional options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Builder folds flat parameter entries into a grouped Inventory.
// A Builder holds configuration only; every Build call starts from fresh state,
// so one Builder can be shared across goroutines.
type Builder struct {
	// ExcludeAttributes lists attribute name patterns dropped from host variables.
	ExcludeAttributes []string
}

// Build classifies every entry in input order and returns the grouped inventory.
// Malformed paths are skipped. An empty input yields an empty inventory.
func (b *Builder) Build(entries []parameter.Entry) *Inventory {
	start := time.Now()
	defer func() {
		inventoryBuildDuration.Observe(time.Since(start).Seconds())
	}()

	acc := newAccumulator()
	for _, e := range entries {
		p, ok := Classify(e.Path)
		if !ok {
			slog.Debug("skipping parameter outside inventory hierarchy", slog.String("path", e.Path))
			parametersTotal.WithLabelValues("skipped").Inc()
			continue
		}
		acc.add(p, e.Value)
		if p.IsShared() {
			parametersTotal.WithLabelValues("shared").Inc()
		} else {
			parametersTotal.WithLabelValues("host").Inc()
		}
	}

	inv := acc.finalize(b.ExcludeAttributes)
	inventoryHosts.Set(float64(len(inv.HostVars)))

	slog.Debug("inventory built",
		slog.Int("parameters", len(entries)),
		slog.Int("groups", len(inv.Groups)),
		slog.Int("hosts", len(inv.HostVars)),
	)

	return inv
}

// GetHost builds the full inventory and returns the variables of the named host.
// An unknown host yields an empty map.
func (b *Builder) GetHost(entries []parameter.Entry, name string) HostVars {
	return b.Build(entries).Host(name)
}

type set map[string]struct{}

func (s set) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// accumulator holds the state of a single build.
type accumulator struct {
	domainClusters map[string]set
	clusterNodes   map[string]set
	hostVars       map[string]HostVars
}

func newAccumulator() *accumulator {
	return &accumulator{
		domainClusters: make(map[string]set),
		clusterNodes:   make(map[string]set),
		hostVars:       make(map[string]HostVars),
	}
}

func (a *accumulator) add(p ParsedPath, value string) {
	addTo(a.domainClusters, p.Domain, p.Cluster)

	if p.IsShared() {
		// cluster-wide values are looked up by playbooks directly
		return
	}

	addTo(a.clusterNodes, p.Cluster, p.Node)

	hv, ok := a.hostVars[p.Node]
	if !ok {
		hv = make(HostVars)
		a.hostVars[p.Node] = hv
	}
	hv[p.Attribute] = value
	hv[VarSystemType] = p.Domain
	hv[VarClusterID] = p.Cluster
}

func addTo(m map[string]set, key, member string) {
	s, ok := m[key]
	if !ok {
		s = make(set)
		m[key] = s
	}
	s[member] = struct{}{}
}

// finalize derives the grouped inventory. It does not modify the accumulator,
// so calling it repeatedly yields identical results.
func (a *accumulator) finalize(exclude []string) *Inventory {
	inv := NewInventory()

	group := func(name string) *Group {
		g, ok := inv.Groups[name]
		if !ok {
			g = &Group{}
			inv.Groups[name] = g
		}
		return g
	}

	for domain, clusters := range a.domainClusters {
		group(domain).Children = clusters.sorted()

		for cluster := range clusters {
			group(cluster).Hosts = a.clusterNodes[cluster].sorted()
		}
	}

	for node, vars := range a.hostVars {
		hv := maps.Clone(vars)
		if ip, ok := hv[AttrIP]; ok {
			hv[VarAnsibleHost] = ip
		}
		if len(exclude) > 0 {
			hv = ExcludeAttributes(hv, exclude)
		}
		inv.HostVars[node] = hv
	}

	return inv
}
