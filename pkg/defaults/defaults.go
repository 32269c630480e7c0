package defaults

import "time"

// Parameter store.
const (
	// SSMRegion is the AWS region used when none is configured.
	SSMRegion = "us-west-2"

	// SSMPageSize is the GetParametersByPath page size (the API maximum).
	SSMPageSize int32 = 10

	// SSMPageRate is the default page request rate per second.
	SSMPageRate = 10
)

// HTTP server.
const (
	ServerPort           = 8080
	ServerRateLimit      = 20
	ServerRateLimitBurst = 40

	ServerRequestTimeout  = 25 * time.Second
	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Kubernetes.
const (
	// KubernetesTimeout bounds every Kubernetes API request.
	KubernetesTimeout = 30 * time.Second
)
