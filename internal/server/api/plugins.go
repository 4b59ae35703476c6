package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/gestura/internal/plugin"
)

// PluginHandler exposes the discovered action plugins.
type PluginHandler struct {
	manager *plugin.Manager
}

// NewPluginHandler creates a new PluginHandler over m.
func NewPluginHandler(m *plugin.Manager) *PluginHandler {
	return &PluginHandler{manager: m}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	Priority    int      `json:"priority"`
}

type listPluginsResponse struct {
	Plugins []pluginResponse `json:"plugins"`
}

func toPluginResponse(p *plugin.Plugin) pluginResponse {
	return pluginResponse{
		Name:        p.Manifest.Name,
		Version:     p.Manifest.Version,
		Description: p.Manifest.Description,
		Actions:     p.Manifest.Actions,
		Priority:    p.Manifest.Priority,
	}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/plugins, /api/plugins/reload, /api/plugins/{name}
func (h *PluginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/plugins")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		if allow(w, r, http.MethodGet) {
			h.list(w, r)
		}
	case "reload":
		if allow(w, r, http.MethodPost) {
			h.reload(w, r)
		}
	default:
		if allow(w, r, http.MethodGet) {
			h.get(w, r, path)
		}
	}
}

// list handles GET /api/plugins.
func (h *PluginHandler) list(w http.ResponseWriter, r *http.Request) {
	plugins := h.manager.List()
	response := listPluginsResponse{
		Plugins: make([]pluginResponse, 0, len(plugins)),
	}
	for _, p := range plugins {
		response.Plugins = append(response.Plugins, toPluginResponse(p))
	}
	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/plugins/{name}.
func (h *PluginHandler) get(w http.ResponseWriter, r *http.Request, name string) {
	p, err := h.manager.Get(name)
	if err != nil {
		if errors.Is(err, plugin.ErrPluginNotFound) {
			writeError(w, http.StatusNotFound, "Plugin not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get plugin")
		return
	}
	writeJSON(w, http.StatusOK, toPluginResponse(p))
}

// reload handles POST /api/plugins/reload and rescans the plugin directory.
func (h *PluginHandler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Discover(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to discover plugins")
		return
	}
	h.list(w, r)
}
