package collector

import (
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/ssm-inventory/pkg/collector/configmap"
	"github.com/NVIDIA/ssm-inventory/pkg/collector/file"
	"github.com/NVIDIA/ssm-inventory/pkg/collector/ssm"
	"github.com/NVIDIA/ssm-inventory/pkg/defaults"
	inverrors "github.com/NVIDIA/ssm-inventory/pkg/errors"
	"github.com/NVIDIA/ssm-inventory/pkg/serializer"
)

const (
	// SourceSSM selects AWS Systems Manager Parameter Store.
	SourceSSM = "ssm"

	// DefaultRegion is used when no region is configured.
	DefaultRegion = defaults.SSMRegion
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateSSMCollector() Collector
	CreateFileCollector(path string) Collector
	CreateConfigMapCollector(namespace, name string) Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	// Region is the AWS region of the parameter store.
	Region string

	// Profile is the optional shared config profile used for AWS credentials.
	Profile string

	// Kubeconfig is the kubeconfig path used by the ConfigMap collector.
	// Empty means automatic discovery.
	Kubeconfig string

	// SSMPageRate caps GetParametersByPath page requests per second. Zero disables limiting.
	SSMPageRate rate.Limit
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{
		Region:      DefaultRegion,
		SSMPageRate: defaults.SSMPageRate,
	}
}

// CreateSSMCollector creates an AWS SSM Parameter Store collector.
func (f *DefaultFactory) CreateSSMCollector() Collector {
	c := &ssm.Collector{
		Region:         f.Region,
		Profile:        f.Profile,
		WithDecryption: true,
	}
	if f.SSMPageRate > 0 {
		c.Limiter = rate.NewLimiter(f.SSMPageRate, 1)
	}
	return c
}

// CreateFileCollector creates a collector reading a local parameter document.
func (f *DefaultFactory) CreateFileCollector(path string) Collector {
	return &file.Collector{Path: path}
}

// CreateConfigMapCollector creates a collector reading a parameter document from a ConfigMap.
func (f *DefaultFactory) CreateConfigMapCollector(namespace, name string) Collector {
	return &configmap.Collector{
		Namespace:     namespace,
		ConfigMapName: name,
		Kubeconfig:    f.Kubeconfig,
	}
}

// ForSource resolves a source reference to a collector:
//   - "" or "ssm" selects AWS SSM Parameter Store
//   - "cm://namespace/name" selects a Kubernetes ConfigMap
//   - anything else is a local .yaml, .yml or .json file
func ForSource(f Factory, source string) (Collector, error) {
	switch {
	case source == "" || source == SourceSSM:
		return f.CreateSSMCollector(), nil

	case strings.HasPrefix(source, serializer.ConfigMapURIScheme):
		namespace, name, err := serializer.ParseConfigMapURI(source)
		if err != nil {
			return nil, inverrors.Wrap(inverrors.ErrCodeInvalidRequest, "invalid parameter source", err)
		}
		return f.CreateConfigMapCollector(namespace, name), nil

	default:
		if format := serializer.FormatFromPath(source); format != serializer.FormatJSON && format != serializer.FormatYAML {
			return nil, inverrors.New(inverrors.ErrCodeInvalidRequest,
				fmt.Sprintf("unsupported parameter source %q: expected %q, cm://namespace/name or a .yaml/.json file", source, SourceSSM))
		}
		return f.CreateFileCollector(source), nil
	}
}
