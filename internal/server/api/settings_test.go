package api

import (
	"net/http"
	"testing"

	"github.com/ayusman/gestura/internal/gesture"
	"github.com/ayusman/gestura/internal/settings"
	"github.com/ayusman/gestura/internal/stats"
)

func TestSettingsHandler_GetAndReplace(t *testing.T) {
	e := newTestEngine(t)
	handler := NewSettingsHandler(e)

	rec := serve(handler, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got settings.Settings
	decode(t, rec, &got)
	if got != settings.Default() {
		t.Errorf("expected default settings, got %+v", got)
	}

	// Whole-record replace performs no range checks.
	rec = serve(handler, http.MethodPut, "/api/settings", `{"sensitivity": 3, "trail_color": "#000000"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	s := e.Settings()
	if s.Sensitivity != 3 || s.TrailColor != "#000000" {
		t.Errorf("replace not applied: %+v", s)
	}
	if s.GestureButton != 2 {
		t.Errorf("omitted fields should keep their value, gesture_button = %d", s.GestureButton)
	}
}

func TestSettingsHandler_Patch(t *testing.T) {
	e := newTestEngine(t)
	handler := NewSettingsHandler(e)

	rec := serve(handler, http.MethodPatch, "/api/settings",
		`{"sensitivity": 0.5, "gesture_button": 1, "channels": {"wheel": false}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	s := e.Settings()
	if s.Sensitivity != 0.5 || s.GestureButton != 1 {
		t.Errorf("patch not applied: %+v", s)
	}
	if s.ChannelEnabled(gesture.ChannelWheel) {
		t.Error("expected wheel channel to be disabled")
	}

	tests := []struct {
		name string
		body string
	}{
		{"sensitivity too high", `{"sensitivity": 1.5}`},
		{"sensitivity negative", `{"sensitivity": -0.1}`},
		{"button out of range", `{"gesture_button": 3}`},
		{"unknown channel", `{"channels": {"pen": true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(handler, http.MethodPatch, "/api/settings", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}

	if s := e.Settings(); s.Sensitivity != 0.5 || s.GestureButton != 1 {
		t.Errorf("rejected values must not be applied: %+v", s)
	}
}

func TestSettingsHandler_PatchPresentation(t *testing.T) {
	e := newTestEngine(t)
	handler := NewSettingsHandler(e)

	rec := serve(handler, http.MethodPatch, "/api/settings", `{
		"min_stroke_length": 45,
		"recognition_timeout": 1500,
		"trail_color": "#ff0000",
		"trail_opacity": 0.5,
		"show_gesture_trail": false,
		"show_action_preview": false
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	s := e.Settings()
	if s.MinStrokeLength != 45 || s.RecognitionTimeoutMs != 1500 {
		t.Errorf("stroke settings not applied: %+v", s)
	}
	if s.TrailColor != "#ff0000" || s.TrailOpacity != 0.5 {
		t.Errorf("trail not applied: %+v", s)
	}
	if s.TrailWidth != settings.Default().TrailWidth {
		t.Errorf("omitted trail width should keep its value, got %v", s.TrailWidth)
	}
	if s.ShowGestureTrail || s.ShowActionPreview {
		t.Errorf("expected trail and preview to be hidden: %+v", s)
	}
}

func TestSettingsHandler_Toggle(t *testing.T) {
	e := newTestEngine(t)
	handler := NewSettingsHandler(e)

	rec := serve(handler, http.MethodPost, "/api/settings/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var response toggleResponse
	decode(t, rec, &response)
	if response.Enabled || e.Enabled() {
		t.Error("expected gestures to be disabled")
	}

	rec = serve(handler, http.MethodGet, "/api/settings/toggle", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}

	rec = serve(handler, http.MethodGet, "/api/settings/other", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	e := newTestEngine(t)
	handler := NewStatsHandler(e)

	if err := e.StartStroke(gesture.ChannelMouse, 100, 100); err != nil {
		t.Fatalf("StartStroke() error = %v", err)
	}
	e.AddPoint(40, 100)
	if _, err := e.FinishStroke(); err != nil {
		t.Fatalf("FinishStroke() error = %v", err)
	}

	rec := serve(handler, http.MethodGet, "/api/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var report stats.Report
	decode(t, rec, &report)
	if report.TotalGestures != 1 || report.SuccessfulRecognitions != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.MostUsedGestures) == 0 || report.MostUsedGestures[0].Name != "Go Back" {
		t.Errorf("expected Go Back to lead most used, got %+v", report.MostUsedGestures)
	}

	rec = serve(handler, http.MethodDelete, "/api/stats", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if got := e.Stats(); got.TotalGestures != 0 {
		t.Errorf("expected counters to be reset, got %+v", got)
	}

	rec = serve(handler, http.MethodPost, "/api/stats", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
