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

// Package cli implements the ssminv command line, an Ansible dynamic
// inventory script backed by hierarchical parameters.
//
// # Overview
//
// Parameters are stored as /<domain>/<cluster>/<node>/<attribute>. The
// domain becomes a parent group, the cluster a child group holding its hosts,
// and every attribute a host variable. Nodes named "shared" carry
// cluster-wide values and never become hosts.
//
// # Inventory Protocol
//
// Ansible invokes the script with one of:
//
//	ssminv --list          # full document with _meta.hostvars
//	ssminv --host NAME     # variables of one host, {} if unknown
//
// Point Ansible at a wrapper script or use the binary directly:
//
//	ansible-inventory -i ./ssminv --graph
//
// # Sources
//
// --source selects where parameters are read from:
//   - ssm (default): AWS SSM Parameter Store, recursive and decrypted
//   - a .yaml, .yml or .json file with a top-level "parameters" list of {name, value}
//   - cm://namespace/name: the same document under key parameters.yaml of a ConfigMap
//
// --root can be repeated; roots are fetched concurrently and their
// parameters concatenated in flag order.
//
// # serve
//
// Serves the same documents over HTTP:
//
//	ssminv serve --port 8080
//	curl localhost:8080/v1/inventory
//	curl localhost:8080/v1/hosts/n01?format=yaml
//
// # Global Flags
//
//	--output, -o   Output destination: file, '-' or cm://namespace/name (default: stdout)
//	--format, -t   Output format: json, yaml, table (default: json)
//	--debug        Enable debug logging
//	--log-json     Output logs in JSON format
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Logs always go to stderr, stdout carries the inventory document.
//
// # Environment Variables
//
//	AWS_REGION             Region of the parameter store (default: us-west-2)
//	AWS_PROFILE            Shared config profile for credentials
//	SSM_PARAMETER_ROOT     Comma separated parameter roots (default: /)
//	SSMINV_SOURCE          Parameter source
//	SSMINV_TIMEOUT         Fetch deadline, e.g. 30s
//	KUBECONFIG             Path to kubeconfig file
//	LOG_LEVEL              debug, info, warn or error
//	PORT                   serve listen port
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, fetch failure)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/ssm-inventory/pkg/cli.version=1.0.0'"
package cli
