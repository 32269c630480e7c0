package api

import (
	"net/http"

	"github.com/NVIDIA/ssm-inventory/pkg/collector"
	inverrors "github.com/NVIDIA/ssm-inventory/pkg/errors"
	"github.com/NVIDIA/ssm-inventory/pkg/inventory"
	"github.com/NVIDIA/ssm-inventory/pkg/serializer"
	"github.com/NVIDIA/ssm-inventory/pkg/server"
)

const (
	RouteInventory = "/v1/inventory"
	RouteHost      = "/v1/hosts/{name}"
)

// Handler serves inventory documents. Every request fetches the parameters
// again and builds from scratch; nothing is cached between requests.
type Handler struct {
	collector collector.Collector
	roots     []string
	builder   *inventory.Builder
}

// NewHandler creates a Handler. A nil builder uses inventory defaults.
func NewHandler(c collector.Collector, roots []string, b *inventory.Builder) *Handler {
	if b == nil {
		b = inventory.NewBuilder()
	}
	return &Handler{
		collector: c,
		roots:     roots,
		builder:   b,
	}
}

// Routes returns the API routes keyed by ServeMux pattern.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RouteInventory: h.HandleInventory,
		RouteHost:      h.HandleHost,
	}
}

// HandleInventory handles GET /v1/inventory. The optional format query
// parameter selects json (default) or yaml.
func (h *Handler) HandleInventory(w http.ResponseWriter, r *http.Request) {
	format, ok := responseFormat(w, r)
	if !ok {
		return
	}

	inv, ok := h.build(w, r)
	if !ok {
		return
	}

	respond(w, r, format, inv)
}

// HandleHost handles GET /v1/hosts/{name}. Unknown hosts yield {}.
func (h *Handler) HandleHost(w http.ResponseWriter, r *http.Request) {
	format, ok := responseFormat(w, r)
	if !ok {
		return
	}

	name := r.PathValue("name")
	if name == "" {
		server.WriteError(w, r, http.StatusBadRequest, inverrors.ErrCodeInvalidRequest,
			"host name is required", false, nil)
		return
	}

	inv, ok := h.build(w, r)
	if !ok {
		return
	}

	respond(w, r, format, inv.Host(name))
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (*inventory.Inventory, bool) {
	entries, err := collector.CollectRoots(r.Context(), h.collector, h.roots)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to fetch parameters",
			map[string]any{"source": h.collector.Name()})
		return nil, false
	}
	return h.builder.Build(entries), true
}

func responseFormat(w http.ResponseWriter, r *http.Request) (serializer.Format, bool) {
	q := r.URL.Query().Get("format")
	if q == "" {
		return serializer.FormatJSON, true
	}
	f := serializer.Format(q)
	if f != serializer.FormatJSON && f != serializer.FormatYAML {
		server.WriteError(w, r, http.StatusBadRequest, inverrors.ErrCodeInvalidRequest,
			"unsupported format", false, map[string]any{
				"format":    q,
				"supported": []string{string(serializer.FormatJSON), string(serializer.FormatYAML)},
			})
		return "", false
	}
	return f, true
}

func respond(w http.ResponseWriter, r *http.Request, format serializer.Format, data any) {
	if format != serializer.FormatYAML {
		serializer.RespondJSON(w, http.StatusOK, data)
		return
	}

	b, err := serializer.Marshal(format, data)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to serialize response", nil)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
