package api

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/ayusman/gestura/internal/engine"
	"github.com/ayusman/gestura/internal/gesture"
)

// GestureHandler handles HTTP requests for gesture resources.
type GestureHandler struct {
	engine *engine.Engine
}

// NewGestureHandler creates a new GestureHandler backed by e.
func NewGestureHandler(e *engine.Engine) *GestureHandler {
	return &GestureHandler{engine: e}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/gestures, /api/gestures/{id}, /api/gestures/{id}/toggle
	// and the collection actions reset, export, import and presets/{name}.
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	case path == "reset":
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.reset(w, r)
		return
	case path == "export":
		if !allow(w, r, http.MethodGet) {
			return
		}
		h.export(w, r)
		return
	case path == "import":
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.importGestures(w, r)
		return
	case strings.HasPrefix(path, "presets/"):
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.preset(w, r, strings.TrimPrefix(path, "presets/"))
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch sub {
	case "":
	case "toggle":
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.toggle(w, r, id)
		return
	default:
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// Request and response types

type createGestureRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Channel     string          `json:"gesture_type"`
	Pattern     gesture.Pattern `json:"pattern"`
	Action      *gesture.Action `json:"action"`
	Enabled     *bool           `json:"enabled"`
}

type listGesturesResponse struct {
	Gestures []gesture.Gesture `json:"gestures"`
}

type toggleResponse struct {
	Enabled bool `json:"enabled"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Gestures []gesture.Gesture `json:"gestures"`
}

// validatePattern fills unset constraints and checks every direction.
func validatePattern(p *gesture.Pattern) error {
	if len(p.Directions) == 0 {
		return gesture.ErrEmptyPattern
	}
	for _, d := range p.Directions {
		if !d.Valid() {
			return errors.New("unknown direction " + string(d))
		}
	}
	if p.MinDistance == 0 {
		p.MinDistance = gesture.DefaultMinDistance
	}
	if p.MaxDurationMs == 0 {
		p.MaxDurationMs = gesture.DefaultMaxDurationMs
	}
	if p.AngleTolerance == 0 {
		p.AngleTolerance = gesture.DefaultAngleTolerance
	}
	return nil
}

// list handles GET /api/gestures. With ?channel= it returns only the enabled
// gestures of that channel.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	var gestures []gesture.Gesture
	if name := r.URL.Query().Get("channel"); name != "" {
		channel, err := gesture.ParseChannel(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		gestures = h.engine.GesturesByChannel(channel)
	} else {
		gestures = h.engine.Gestures()
	}

	if gestures == nil {
		gestures = []gesture.Gesture{}
	}
	writeJSON(w, http.StatusOK, listGesturesResponse{Gestures: gestures})
}

// get handles GET /api/gestures/{id}.
func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.engine.Gesture(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// create handles POST /api/gestures and registers a custom gesture.
func (h *GestureHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createGestureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	channel := gesture.ChannelMouse
	if req.Channel != "" {
		c, err := gesture.ParseChannel(req.Channel)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		channel = c
	}

	if err := validatePattern(&req.Pattern); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Action == nil {
		writeError(w, http.StatusBadRequest, "Action is required")
		return
	}
	if err := req.Action.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := gesture.NewGesture(req.Name, channel, req.Pattern, *req.Action)
	g.Description = req.Description
	if req.Enabled != nil {
		g.Enabled = *req.Enabled
	}

	created, err := h.engine.CreateGesture(g)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// update handles PUT /api/gestures/{id}. Only the provided fields change.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req gesture.Update
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Pattern != nil {
		if err := validatePattern(req.Pattern); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Action != nil {
		if err := req.Action.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	updated, err := h.engine.UpdateGesture(id, req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// delete handles DELETE /api/gestures/{id}. Builtin gestures cannot be removed.
func (h *GestureHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.engine.DeleteGesture(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toggle handles POST /api/gestures/{id}/toggle.
func (h *GestureHandler) toggle(w http.ResponseWriter, r *http.Request, id string) {
	enabled, err := h.engine.ToggleGesture(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Enabled: enabled})
}

// reset handles POST /api/gestures/reset.
func (h *GestureHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.engine.ResetGestures()
	writeJSON(w, http.StatusOK, listGesturesResponse{Gestures: h.engine.Gestures()})
}

// export handles GET /api/gestures/export[?format=yaml].
func (h *GestureHandler) export(w http.ResponseWriter, r *http.Request) {
	format, err := gesture.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.engine.ExportGestures(format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export gestures")
		return
	}

	contentType := "application/json"
	if format == gesture.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// importGestures handles POST /api/gestures/import[?format=yaml].
func (h *GestureHandler) importGestures(w http.ResponseWriter, r *http.Request) {
	format, err := gesture.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}

	imported, err := h.engine.ImportGestures(data, format)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: len(imported), Gestures: imported})
}

// preset handles POST /api/gestures/presets/{name}.
func (h *GestureHandler) preset(w http.ResponseWriter, r *http.Request, name string) {
	if !slices.Contains(gesture.PresetNames(), name) {
		writeError(w, http.StatusNotFound, "Preset not found")
		return
	}

	inserted, err := h.engine.LoadPreset(name)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: len(inserted), Gestures: inserted})
}
