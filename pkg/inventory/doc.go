// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package inventory turns flat, hierarchically named parameters into an
// Ansible dynamic inventory.
//
// # Parameter Hierarchy
//
// Parameters are expected under
//
//	/{system_type}/{cluster_id}/{node_id}/{attribute}
//
// for example:
//
//	/proxmox/cl1/n01/ip           10.10.1.11
//	/proxmox/cl1/n01/mac          aa:bb:cc:11:22:33
//	/weka/cl1/n01/container_id    weka-01
//	/proxmox/cl1/shared/token     XYZ
//
// Empty segments are ignored and segments past the fourth are dropped. Paths with
// fewer than four segments are not part of the hierarchy and are skipped.
//
// The node name "shared" is reserved for cluster-wide parameters. Such entries
// register their domain and cluster but never create a host.
//
// # Output
//
// Build produces one group per system type listing its clusters as children,
// one group per cluster listing its hosts, and per-host variables under _meta:
//
//	{
//	  "_meta": {"hostvars": {"n01": {"ip": "10.10.1.11", "ansible_host": "10.10.1.11", ...}}},
//	  "proxmox": {"children": ["cl1"]},
//	  "cl1": {"hosts": ["n01"]}
//	}
//
// Every host gets system_type and cluster_id from the last parameter written to
// it, and ansible_host when it has an ip attribute. Group lists are sorted so the
// output does not depend on the order the parameter store returns entries in.
//
// # Usage
//
//	b := inventory.NewBuilder(inventory.WithExcludeAttributes([]string{"*token*"}))
//	inv := b.Build(entries)
//	vars := inv.Host("n01")
package inventory
