// Package defaults provides centralized configuration constants for ssminv.
//
// This package defines timeout values, rate limits, and other configuration
// defaults shared by the collectors, the HTTP server and the Kubernetes client.
//
// # Categories
//
//   - Parameter store: page size and page request rate
//   - Server: listen port, rate limits and HTTP timeouts
//   - Kubernetes: API request timeout
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/ssm-inventory/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ServerRequestTimeout)
//	defer cancel()
//
// # Guidelines
//
//   - Server request timeout stays below the write timeout so errors can still be written
//   - Server shutdown: 30s for graceful shutdown
//   - SSM: 10 pages/s keeps a single process well inside the account API quota
package defaults
