package configmap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	inverrors "github.com/NVIDIA/ssm-inventory/pkg/errors"
	"github.com/NVIDIA/ssm-inventory/pkg/k8s/client"
	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

// DataKey is the ConfigMap data key holding the parameter document.
const DataKey = "parameters.yaml"

// Collector reads a parameter document stored in a Kubernetes ConfigMap
// under DataKey. The document format is the one read by the file collector.
type Collector struct {
	Namespace     string
	ConfigMapName string

	// Kubeconfig is the kubeconfig path. Empty means automatic discovery.
	Kubeconfig string

	// ClientSet is the Kubernetes client. If nil, one is built from Kubeconfig
	// on first use.
	ClientSet kubernetes.Interface

	// newClient builds the client when ClientSet is nil. Overridden in tests.
	newClient func() (kubernetes.Interface, error)

	mu sync.Mutex
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return "configmap"
}

// Collect retrieves the ConfigMap and returns the entries under root in document order.
func (c *Collector) Collect(ctx context.Context, root string) ([]parameter.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := c.getClient()
	if err != nil {
		return nil, err
	}

	cm, err := cs.CoreV1().ConfigMaps(c.Namespace).Get(ctx, c.ConfigMapName, metav1.GetOptions{})
	if err != nil {
		details := map[string]any{"namespace": c.Namespace, "name": c.ConfigMapName}
		switch {
		case apierrors.IsNotFound(err):
			return nil, inverrors.WrapWithContext(inverrors.ErrCodeNotFound, "parameter ConfigMap not found", err, details)
		case apierrors.IsUnauthorized(err), apierrors.IsForbidden(err):
			return nil, inverrors.WrapWithContext(inverrors.ErrCodeUnauthorized, "not authorized to read parameter ConfigMap", err, details)
		default:
			return nil, inverrors.WrapWithContext(inverrors.ErrCodeUnavailable, "failed to read parameter ConfigMap", err, details)
		}
	}

	data, ok := cm.Data[DataKey]
	if !ok {
		return nil, inverrors.New(inverrors.ErrCodeInvalidRequest,
			fmt.Sprintf("ConfigMap %s/%s has no %q key", c.Namespace, c.ConfigMapName, DataKey))
	}

	var doc parameter.Document
	if err := yaml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse parameter document in ConfigMap %s/%s: %w", c.Namespace, c.ConfigMapName, err)
	}

	entries := doc.UnderRoot(root)
	slog.Debug("loaded parameters from configmap",
		slog.String("namespace", c.Namespace),
		slog.String("name", c.ConfigMapName),
		slog.String("root", root),
		slog.Int("parameters", len(entries)),
	)

	return entries, nil
}

// getClient returns ClientSet, building it once. Collect may run concurrently
// for several roots, so the lazy build is serialized. A failed build is retried
// on the next call.
func (c *Collector) getClient() (kubernetes.Interface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ClientSet != nil {
		return c.ClientSet, nil
	}

	build := c.newClient
	if build == nil {
		build = func() (kubernetes.Interface, error) {
			cs, _, err := client.BuildKubeClient(c.Kubeconfig)
			return cs, err
		}
	}

	cs, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}
	c.ClientSet = cs
	return cs, nil
}
