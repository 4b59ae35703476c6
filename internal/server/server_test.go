package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayusman/gestura/internal/engine"
)

func TestServer_Health(t *testing.T) {
	e := engine.New(engine.Config{})
	e.SetEnabled(false)

	tests := []struct {
		name        string
		config      Config
		wantEnabled interface{}
	}{
		{"without engine", Config{}, nil},
		{"with engine", Config{Engine: e}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(tt.config).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response["status"] != "ok" {
				t.Errorf("expected status 'ok', got %v", response["status"])
			}
			if _, ok := response["uptime"]; !ok {
				t.Error("expected 'uptime' field in response")
			}
			if response["enabled"] != tt.wantEnabled {
				t.Errorf("expected enabled %v, got %v", tt.wantEnabled, response["enabled"])
			}
		})
	}

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rec := httptest.NewRecorder()
		New(Config{}).ServeHTTP(rec, httptest.NewRequest(method, "/api/health", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}

func TestServer_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"index.html": "<html><body>gestura</body></html>",
		"trail.css":  "canvas { opacity: 0.8; }",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	withStatic := New(Config{StaticDir: dir})
	withoutStatic := New(Config{})

	tests := []struct {
		name     string
		server   *Server
		path     string
		wantCode int
		wantBody string
	}{
		{"index at root", withStatic, "/", http.StatusOK, files["index.html"]},
		{"asset by name", withStatic, "/trail.css", http.StatusOK, files["trail.css"]},
		{"missing asset", withStatic, "/missing.html", http.StatusNotFound, ""},
		{"root without static dir", withoutStatic, "/", http.StatusNotFound, ""},
		{"unknown api path", withoutStatic, "/api/nonexistent", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := engine.New(engine.Config{Registerer: reg})
	s := New(Config{Engine: e, Gatherer: reg})

	if err := e.StartStroke("Mouse", 100, 100); err != nil {
		t.Fatalf("StartStroke() error = %v", err)
	}
	e.AddPoint(40, 100)
	if _, err := e.FinishStroke(); err != nil {
		t.Fatalf("FinishStroke() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `gestura_recognitions_total{outcome="matched"} 1`) {
		t.Errorf("expected matched counter in metrics output:\n%s", body)
	}
	if !strings.Contains(body, "gestura_recognition_latency_ms") {
		t.Error("expected latency histogram in metrics output")
	}
}

func TestServer_RoutesRequireEngine(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/gestures", "/api/settings", "/api/stats", "/api/strokes", "/api/plugins", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}
