package serializer

// URI constants for parameter sources and output destinations
const (
	// ConfigMapURIScheme is the URI scheme for Kubernetes ConfigMap sources and destinations.
	// Format: cm://namespace/configmap-name
	ConfigMapURIScheme = "cm://"

	// StdoutURI is the special URI indicating output should be written to stdout.
	StdoutURI = "-"
)
