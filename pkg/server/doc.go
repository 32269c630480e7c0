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

// Package server provides the HTTP plumbing shared by the API: configuration,
// routing, middleware, health endpoints and structured error responses.
//
// API routes are registered with WithHandler using ServeMux patterns and are
// wrapped with request IDs, rate limiting, metrics and a per-request timeout.
// /health, /ready and /metrics bypass the middleware.
//
// Run blocks until the context is canceled or SIGINT/SIGTERM arrives and
// reports READY/STOPPING to systemd when NOTIFY_SOCKET is set.
package server
