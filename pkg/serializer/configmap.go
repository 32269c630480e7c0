package serializer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/ssm-inventory/pkg/k8s/client"
)

// ParseConfigMapURI splits a cm://namespace/name URI.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	rest := strings.TrimPrefix(uri, ConfigMapURIScheme)
	parts := strings.Split(rest, "/")
	if !strings.HasPrefix(uri, ConfigMapURIScheme) || len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q: expected %snamespace/name", uri, ConfigMapURIScheme)
	}
	return parts[0], parts[1], nil
}

// ConfigMapWriter stores the serialized document in a ConfigMap, creating it if
// needed. The data key is "inventory.<format>".
type ConfigMapWriter struct {
	Namespace string
	Name      string
	Format    Format

	// ClientSet is the Kubernetes client. If nil, the shared client is used.
	ClientSet kubernetes.Interface
}

// NewConfigMapWriter creates a ConfigMapWriter.
func NewConfigMapWriter(namespace, name string, format Format) *ConfigMapWriter {
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &ConfigMapWriter{
		Namespace: namespace,
		Name:      name,
		Format:    format,
	}
}

// DataKey returns the ConfigMap data key the document is stored under.
func (w *ConfigMapWriter) DataKey() string {
	return "inventory." + string(w.Format)
}

// Serialize implements Serializer.
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	b, err := Marshal(w.Format, data)
	if err != nil {
		return err
	}

	if w.ClientSet == nil {
		cs, _, err := client.GetKubeClient()
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		w.ClientSet = cs
	}

	cms := w.ClientSet.CoreV1().ConfigMaps(w.Namespace)
	payload := string(bytes.TrimRight(b, "\n"))

	existing, err := cms.Get(ctx, w.Name, metav1.GetOptions{})
	switch {
	case apierrors.IsNotFound(err):
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      w.Name,
				Namespace: w.Namespace,
				Labels: map[string]string{
					"app.kubernetes.io/name":       "ssminv",
					"app.kubernetes.io/managed-by": "ssminv",
				},
			},
			Data: map[string]string{w.DataKey(): payload},
		}
		if _, err := cms.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create ConfigMap %s/%s: %w", w.Namespace, w.Name, err)
		}
		slog.Debug("created inventory configmap", slog.String("namespace", w.Namespace), slog.String("name", w.Name))
		return nil

	case err != nil:
		return fmt.Errorf("failed to get ConfigMap %s/%s: %w", w.Namespace, w.Name, err)
	}

	if existing.Data == nil {
		existing.Data = map[string]string{}
	}
	existing.Data[w.DataKey()] = payload
	if _, err := cms.Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update ConfigMap %s/%s: %w", w.Namespace, w.Name, err)
	}
	slog.Debug("updated inventory configmap", slog.String("namespace", w.Namespace), slog.String("name", w.Name))
	return nil
}

// Close implements Serializer.
func (w *ConfigMapWriter) Close() error {
	return nil
}
