package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/gestura/internal/engine"
	"github.com/ayusman/gestura/internal/gesture"
)

// SettingsHandler serves /api/settings.
type SettingsHandler struct {
	engine *engine.Engine
}

// NewSettingsHandler creates a new SettingsHandler backed by e.
func NewSettingsHandler(e *engine.Engine) *SettingsHandler {
	return &SettingsHandler{engine: e}
}

// patchSettingsRequest carries the validated quick setters.
type patchSettingsRequest struct {
	Enabled              *bool           `json:"enabled"`
	Sensitivity          *float64        `json:"sensitivity"`
	GestureButton        *uint8          `json:"gesture_button"`
	Channels             map[string]bool `json:"channels"`
	MinStrokeLength      *float64        `json:"min_stroke_length"`
	RecognitionTimeoutMs *int64          `json:"recognition_timeout"`
	ShowGestureTrail     *bool           `json:"show_gesture_trail"`
	TrailColor           *string         `json:"trail_color"`
	TrailWidth           *float64        `json:"trail_width"`
	TrailOpacity         *float64        `json:"trail_opacity"`
	ShowActionPreview    *bool           `json:"show_action_preview"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/settings")
	path = strings.Trim(path, "/")

	switch path {
	case "":
	case "toggle":
		if !allow(w, r, http.MethodPost) {
			return
		}
		writeJSON(w, http.StatusOK, toggleResponse{Enabled: h.engine.ToggleEnabled()})
		return
	default:
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.engine.Settings())
	case http.MethodPut:
		h.replace(w, r)
	case http.MethodPatch:
		h.patch(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// replace handles PUT /api/settings. Fields missing from the body keep their
// current values; nothing is range-checked.
func (h *SettingsHandler) replace(w http.ResponseWriter, r *http.Request) {
	s := h.engine.Settings()
	if !decodeJSON(w, r, &s) {
		return
	}
	h.engine.UpdateSettings(s)
	writeJSON(w, http.StatusOK, h.engine.Settings())
}

// patch handles PATCH /api/settings through the validating setters.
func (h *SettingsHandler) patch(w http.ResponseWriter, r *http.Request) {
	var req patchSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	channels := make(map[gesture.Channel]bool, len(req.Channels))
	for name, enabled := range req.Channels {
		c, err := gesture.ParseChannel(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		channels[c] = enabled
	}

	if req.Sensitivity != nil {
		if err := h.engine.SetSensitivity(*req.Sensitivity); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	if req.GestureButton != nil {
		if err := h.engine.SetGestureButton(*req.GestureButton); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	for c, enabled := range channels {
		if err := h.engine.SetChannelEnabled(c, enabled); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	if req.MinStrokeLength != nil {
		h.engine.SetMinStrokeLength(*req.MinStrokeLength)
	}
	if req.RecognitionTimeoutMs != nil {
		h.engine.SetRecognitionTimeout(*req.RecognitionTimeoutMs)
	}
	if req.TrailColor != nil || req.TrailWidth != nil || req.TrailOpacity != nil {
		cur := h.engine.Settings()
		color, width, opacity := cur.TrailColor, cur.TrailWidth, cur.TrailOpacity
		if req.TrailColor != nil {
			color = *req.TrailColor
		}
		if req.TrailWidth != nil {
			width = *req.TrailWidth
		}
		if req.TrailOpacity != nil {
			opacity = *req.TrailOpacity
		}
		h.engine.SetTrail(color, width, opacity)
	}
	if req.ShowGestureTrail != nil {
		h.engine.ShowTrail(*req.ShowGestureTrail)
	}
	if req.ShowActionPreview != nil {
		h.engine.ShowActionPreview(*req.ShowActionPreview)
	}
	if req.Enabled != nil {
		h.engine.SetEnabled(*req.Enabled)
	}

	writeJSON(w, http.StatusOK, h.engine.Settings())
}

// StatsHandler serves /api/stats.
type StatsHandler struct {
	engine *engine.Engine
}

// NewStatsHandler creates a new StatsHandler backed by e.
func NewStatsHandler(e *engine.Engine) *StatsHandler {
	return &StatsHandler{engine: e}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.engine.Stats())
	case http.MethodDelete:
		h.engine.ResetStats()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
