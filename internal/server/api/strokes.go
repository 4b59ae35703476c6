package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/gestura/internal/engine"
	"github.com/ayusman/gestura/internal/gesture"
)

// StrokeHandler feeds pointer samples from the host into the engine.
type StrokeHandler struct {
	engine *engine.Engine
}

// NewStrokeHandler creates a new StrokeHandler backed by e.
func NewStrokeHandler(e *engine.Engine) *StrokeHandler {
	return &StrokeHandler{engine: e}
}

type startStrokeRequest struct {
	Channel string  `json:"gesture_type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Button  *uint8  `json:"button"`
	Fingers *uint8  `json:"fingers"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type addPointsRequest struct {
	Points []point `json:"points"`
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/strokes, /api/strokes/points, /api/strokes/finish,
// /api/strokes/recognize
func (h *StrokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/strokes")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		switch r.Method {
		case http.MethodPost:
			h.start(w, r)
		case http.MethodDelete:
			h.engine.CancelStroke()
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "points":
		if allow(w, r, http.MethodPost) {
			h.addPoints(w, r)
		}
	case "finish":
		if allow(w, r, http.MethodPost) {
			h.finish(w, r)
		}
	case "recognize":
		if allow(w, r, http.MethodPost) {
			h.recognize(w, r)
		}
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// start handles POST /api/strokes.
func (h *StrokeHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startStrokeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	channel, err := gesture.ParseChannel(req.Channel)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var opts []gesture.StrokeOption
	if req.Button != nil {
		opts = append(opts, gesture.WithButton(*req.Button))
	}
	if req.Fingers != nil {
		opts = append(opts, gesture.WithFingers(*req.Fingers))
	}

	if err := h.engine.StartStroke(channel, req.X, req.Y, opts...); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addPoints handles POST /api/strokes/points.
func (h *StrokeHandler) addPoints(w http.ResponseWriter, r *http.Request) {
	var req addPointsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, p := range req.Points {
		if err := h.engine.AddPoint(p.X, p.Y); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// finish handles POST /api/strokes/finish and returns the recognition result.
func (h *StrokeHandler) finish(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.FinishStroke()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// recognize handles POST /api/strokes/recognize for strokes captured whole.
func (h *StrokeHandler) recognize(w http.ResponseWriter, r *http.Request) {
	var s gesture.Stroke
	if !decodeJSON(w, r, &s) {
		return
	}
	if !s.Channel.Valid() {
		writeError(w, http.StatusBadRequest, "unknown channel "+string(s.Channel))
		return
	}
	fillTimes(&s)

	result, err := h.engine.Recognize(s)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fillTimes takes missing stroke times from the first and last point, so a
// stroke posted without them is not measured against the current time.
func fillTimes(s *gesture.Stroke) {
	if len(s.Points) == 0 {
		return
	}
	if s.StartTime == 0 {
		s.StartTime = s.Points[0].Timestamp
	}
	if s.EndTime == nil {
		end := s.Points[len(s.Points)-1].Timestamp
		s.EndTime = &end
	}
}
