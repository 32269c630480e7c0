package inventory

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

func sampleEntries() []parameter.Entry {
	return []parameter.Entry{
		{Path: "/proxmox/cl1/n01/ip", Value: "10.10.1.11"},
		{Path: "/proxmox/cl1/n01/mac", Value: "aa:bb:cc:11:22:33"},
		{Path: "/weka/cl1/n01/container_id", Value: "weka-01"},
		{Path: "/proxmox/cl1/shared/token", Value: "XYZ"},
	}
}

func TestBuilder_Build_EndToEnd(t *testing.T) {
	inv := NewBuilder().Build(sampleEntries())

	require.Len(t, inv.Groups, 3)
	assert.Equal(t, &Group{Children: []string{"cl1"}}, inv.Groups["proxmox"])
	assert.Equal(t, &Group{Children: []string{"cl1"}}, inv.Groups["weka"])
	assert.Equal(t, &Group{Hosts: []string{"n01"}}, inv.Groups["cl1"])

	assert.Equal(t, map[string]HostVars{
		"n01": {
			"ip":           "10.10.1.11",
			"mac":          "aa:bb:cc:11:22:33",
			"container_id": "weka-01",
			"system_type":  "weka",
			"cluster_id":   "cl1",
			"ansible_host": "10.10.1.11",
		},
	}, inv.HostVars)
}

func TestBuilder_Build_Document(t *testing.T) {
	inv := NewBuilder().Build(sampleEntries())

	got, err := json.Marshal(inv)
	require.NoError(t, err)

	want := `{
		"_meta": {"hostvars": {"n01": {
			"ansible_host": "10.10.1.11",
			"cluster_id": "cl1",
			"container_id": "weka-01",
			"ip": "10.10.1.11",
			"mac": "aa:bb:cc:11:22:33",
			"system_type": "weka"
		}}},
		"cl1": {"hosts": ["n01"]},
		"proxmox": {"children": ["cl1"]},
		"weka": {"children": ["cl1"]}
	}`
	assert.JSONEq(t, want, string(got))
}

func TestBuilder_Build_YAMLDocument(t *testing.T) {
	inv := NewBuilder().Build(sampleEntries())

	out, err := yaml.Marshal(inv)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))

	assert.Contains(t, doc, MetaKey)
	assert.Equal(t, map[string]any{"hosts": []any{"n01"}}, doc["cl1"])
	assert.Equal(t, map[string]any{"children": []any{"cl1"}}, doc["weka"])
}

func TestBuilder_Build_Empty(t *testing.T) {
	for _, entries := range [][]parameter.Entry{nil, {}} {
		inv := NewBuilder().Build(entries)

		assert.Empty(t, inv.Groups)
		assert.NotNil(t, inv.HostVars)
		assert.Empty(t, inv.HostVars)

		got, err := json.Marshal(inv)
		require.NoError(t, err)
		assert.JSONEq(t, `{"_meta": {"hostvars": {}}}`, string(got))
	}
}

func TestBuilder_Build_SkipsMalformedPaths(t *testing.T) {
	valid := []parameter.Entry{{Path: "/ceph/cl2/n02/ip", Value: "10.10.3.12"}}
	noisy := []parameter.Entry{
		{Path: "", Value: "x"},
		{Path: "/aws/service", Value: "x"},
		{Path: "/ceph/cl2/n02", Value: "x"},
		{Path: "///", Value: "x"},
		valid[0],
		{Path: "/ceph/cl9", Value: "x"},
	}

	assert.Equal(t, NewBuilder().Build(valid), NewBuilder().Build(noisy))
}

func TestBuilder_Build_SharedNeverBecomesHost(t *testing.T) {
	entries := []parameter.Entry{
		{Path: "/proxmox/cl1/shared/token", Value: "XYZ"},
		{Path: "/proxmox/cl1/shared/ip", Value: "10.0.0.1"},
		{Path: "/proxmox/cl2/n05/ip", Value: "10.10.1.15"},
	}

	inv := NewBuilder().Build(entries)

	assert.NotContains(t, inv.HostVars, SharedNode)
	for name, g := range inv.Groups {
		assert.NotContains(t, g.Hosts, SharedNode, "group %s", name)
	}

	// a cluster seen only through shared parameters is still a (host-less) group
	assert.Equal(t, &Group{Children: []string{"cl1", "cl2"}}, inv.Groups["proxmox"])
	require.Contains(t, inv.Groups, "cl1")
	assert.Empty(t, inv.Groups["cl1"].Hosts)

	got, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"cl1":{}`)
}

func TestBuilder_Build_LastWriteWins(t *testing.T) {
	tests := []struct {
		name    string
		entries []parameter.Entry
		want    HostVars
	}{
		{
			name: "same attribute",
			entries: []parameter.Entry{
				{Path: "/proxmox/cl1/n01/ip", Value: "10.0.0.1"},
				{Path: "/proxmox/cl1/n01/ip", Value: "10.0.0.2"},
			},
			want: HostVars{"ip": "10.0.0.2", "ansible_host": "10.0.0.2", "system_type": "proxmox", "cluster_id": "cl1"},
		},
		{
			name: "derived fields follow last entry",
			entries: []parameter.Entry{
				{Path: "/weka/wk1/n01/container_id", Value: "weka-01"},
				{Path: "/proxmox/cl1/n01/mac", Value: "aa"},
			},
			want: HostVars{"container_id": "weka-01", "mac": "aa", "system_type": "proxmox", "cluster_id": "cl1"},
		},
		{
			name: "synthesized fields overwrite same-named attributes",
			entries: []parameter.Entry{
				{Path: "/proxmox/cl1/n01/system_type", Value: "custom"},
			},
			want: HostVars{"system_type": "proxmox", "cluster_id": "cl1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewBuilder().Build(tt.entries)
			assert.Equal(t, tt.want, inv.Host("n01"))
		})
	}
}

func TestBuilder_Build_AnsibleHostAlias(t *testing.T) {
	entries := []parameter.Entry{
		{Path: "/proxmox/cl1/n01/ip", Value: "10.10.1.11"},
		{Path: "/proxmox/cl1/n02/mac", Value: "aa:bb"},
	}

	inv := NewBuilder().Build(entries)

	assert.Equal(t, "10.10.1.11", inv.Host("n01")[VarAnsibleHost])
	assert.NotContains(t, inv.Host("n02"), VarAnsibleHost)
}

func TestBuilder_Build_SortedDeduplicatedGroups(t *testing.T) {
	entries := []parameter.Entry{
		{Path: "/ceph/cl3/n09/ip", Value: "1"},
		{Path: "/ceph/cl1/n02/ip", Value: "2"},
		{Path: "/ceph/cl3/n01/ip", Value: "3"},
		{Path: "/ceph/cl3/n09/mac", Value: "4"},
		{Path: "/ceph/cl1/n02/mac", Value: "5"},
		{Path: "/ceph/cl3/n05/ip", Value: "6"},
	}

	inv := NewBuilder().Build(entries)

	assert.Equal(t, []string{"cl1", "cl3"}, inv.Groups["ceph"].Children)
	assert.Equal(t, []string{"n02"}, inv.Groups["cl1"].Hosts)
	assert.Equal(t, []string{"n01", "n05", "n09"}, inv.Groups["cl3"].Hosts)
	assert.Equal(t, []string{"n01", "n02", "n05", "n09"}, inv.HostNames())
	assert.Equal(t, []string{"ceph", "cl1", "cl3"}, inv.GroupNames())
}

func TestBuilder_Build_DomainAndClusterShareName(t *testing.T) {
	entries := []parameter.Entry{
		{Path: "/nvidia/nvl1/n01/ip", Value: "10.10.4.11"},
		{Path: "/gpu/nvidia/n02/ip", Value: "10.10.4.12"},
	}

	inv := NewBuilder().Build(entries)

	assert.Equal(t, &Group{Children: []string{"nvl1"}, Hosts: []string{"n02"}}, inv.Groups["nvidia"])
}

func TestBuilder_Build_ReservedKeyWins(t *testing.T) {
	entries := []parameter.Entry{
		{Path: "/_meta/cl1/n01/ip", Value: "10.0.0.1"},
	}

	got, err := json.Marshal(NewBuilder().Build(entries))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(got, &doc))
	assert.Contains(t, string(doc[MetaKey]), `"hostvars"`)
	assert.NotContains(t, string(doc[MetaKey]), `"children"`)
}

func TestBuilder_Build_ExcludeAttributes(t *testing.T) {
	b := NewBuilder(WithExcludeAttributes([]string{"*token*", "mac"}))

	entries := append(sampleEntries(), parameter.Entry{Path: "/proxmox/cl1/n01/api_token", Value: "s3cr3t"})
	hv := b.Build(entries).Host("n01")

	assert.NotContains(t, hv, "api_token")
	assert.NotContains(t, hv, "mac")
	assert.Equal(t, "10.10.1.11", hv[VarAnsibleHost])
}

func TestAccumulator_FinalizeIsIdempotent(t *testing.T) {
	acc := newAccumulator()
	for _, e := range sampleEntries() {
		p, ok := Classify(e.Path)
		require.True(t, ok)
		acc.add(p, e.Value)
	}

	first, err := json.Marshal(acc.finalize(nil))
	require.NoError(t, err)
	second, err := json.Marshal(acc.finalize(nil))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// derived alias lives only in the output
	assert.NotContains(t, acc.hostVars["n01"], VarAnsibleHost)
}

func TestBuilder_Build_OrderIndependentGroups(t *testing.T) {
	forward := sampleEntries()
	reversed := make([]parameter.Entry, len(forward))
	for i, e := range forward {
		reversed[len(forward)-1-i] = e
	}

	a := NewBuilder().Build(forward)
	b := NewBuilder().Build(reversed)

	assert.Equal(t, a.Groups, b.Groups)
}

func TestBuilder_GetHost(t *testing.T) {
	b := NewBuilder()

	hv := b.GetHost(sampleEntries(), "n01")
	assert.Equal(t, "10.10.1.11", hv["ip"])

	unknown := b.GetHost(sampleEntries(), "n99")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)

	got, err := json.Marshal(unknown)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}

func TestBuilder_BuildsDoNotInterfere(t *testing.T) {
	b := NewBuilder()

	first := b.Build(sampleEntries())
	second := b.Build([]parameter.Entry{{Path: "/ceph/cl2/n02/ip", Value: "10.10.3.12"}})

	assert.Contains(t, first.HostVars, "n01")
	assert.NotContains(t, second.HostVars, "n01")
	assert.NotContains(t, first.HostVars, "n02")
}

func TestBuilder_Build_RecordsMetrics(t *testing.T) {
	hostBefore := testutil.ToFloat64(parametersTotal.WithLabelValues("host"))
	sharedBefore := testutil.ToFloat64(parametersTotal.WithLabelValues("shared"))
	skippedBefore := testutil.ToFloat64(parametersTotal.WithLabelValues("skipped"))

	NewBuilder().Build([]parameter.Entry{
		{Path: "/slurm/cl1/n01/ip", Value: "10.10.1.11"},
		{Path: "/slurm/cl1/n02/ip", Value: "10.10.1.12"},
		{Path: "/slurm/cl1/shared/vip", Value: "10.10.1.1"},
		{Path: "/too/short", Value: "x"},
	})

	assert.Equal(t, hostBefore+2, testutil.ToFloat64(parametersTotal.WithLabelValues("host")))
	assert.Equal(t, sharedBefore+1, testutil.ToFloat64(parametersTotal.WithLabelValues("shared")))
	assert.Equal(t, skippedBefore+1, testutil.ToFloat64(parametersTotal.WithLabelValues("skipped")))
	assert.Equal(t, float64(2), testutil.ToFloat64(inventoryHosts))
}
