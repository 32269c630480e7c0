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

// Package collector fetches raw parameter entries from a parameter backend.
//
// A Collector returns every parameter stored under a root path, already
// decrypted and in backend order. Implementations live in subpackages:
//
//   - ssm: AWS Systems Manager Parameter Store (recursive, paginated, rate limited)
//   - file: a local YAML or JSON parameter document
//   - configmap: the same document stored in a Kubernetes ConfigMap
//
// Use ForSource to resolve a --source value through a Factory, and
// CollectRoots to fetch several roots concurrently:
//
//	c, err := collector.ForSource(collector.NewDefaultFactory(), "ssm")
//	if err != nil {
//	    return err
//	}
//	entries, err := collector.CollectRoots(ctx, c, []string{"/slurm", "/k8s"})
//
// Backend failures are returned as *errors.StructuredError with a code
// describing the failure class (unauthorized, throttled, unavailable, timeout).
// Context cancellation is returned as is.
package collector
