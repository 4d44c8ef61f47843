package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/df07/go-animated-raytracer/pkg/loaders"
	"github.com/df07/go-animated-raytracer/pkg/scene"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	return NewServer(0, dir, "", nil), dir
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	s, dir := newTestServer(t)
	if err := loaders.SaveScene(filepath.Join(dir, "custom"+scene.FileExtension), scene.NewSimpleScene()); err != nil {
		t.Fatalf("Failed to save scene: %v", err)
	}

	rec := get(t, s.Handler(), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var groups []scene.SceneGroup
	if err := json.NewDecoder(rec.Body).Decode(&groups); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected built-in and file groups, got %+v", groups)
	}
	if len(groups[0].Scenes) != len(scene.Names()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(scene.Names()), len(groups[0].Scenes))
	}
	if groups[1].Scenes[0].ID != "file:custom" {
		t.Errorf("Expected file scene ID 'file:custom', got %q", groups[1].Scenes[0].ID)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/api/scene-config?scene=simple")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Scene    string         `json:"scene"`
		Defaults map[string]any `json:"defaults"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Scene != "simple" {
		t.Errorf("Expected scene 'simple', got %q", body.Scene)
	}
	if body.Defaults["width"] != float64(400) || body.Defaults["height"] != float64(225) {
		t.Errorf("Expected 400x225, got %v", body.Defaults)
	}

	rec = get(t, s.Handler(), "/api/scene-config")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for the default scene, got %d", rec.Code)
	}
	body.Defaults = nil
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	expected := scene.NewDefaultScene(scene.DefaultSeed).Camera
	if body.Scene != "default" || body.Defaults["width"] != float64(expected.ImageWidth) || body.Defaults["samplesPerPixel"] != float64(expected.SamplesPerPixel) {
		t.Errorf("Expected default scene camera %+v, got %q %v", expected, body.Scene, body.Defaults)
	}

	rec = get(t, s.Handler(), "/api/scene-config?scene=cornell-box")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
		wantErr  bool
	}{
		{"default", "", 5, false},
		{"valid", "n=7", 7, false},
		{"lower bound", "n=1", 1, false},
		{"below range", "n=0", 0, true},
		{"above range", "n=11", 0, true},
		{"not a number", "n=abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			got, err := parseIntParam(values, "n", 5, 1, 10)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIntParam() error = %v, wantErr %t", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("parseIntParam() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCreateScene(t *testing.T) {
	s, dir := newTestServer(t)
	if err := loaders.SaveScene(filepath.Join(dir, "row"+scene.FileExtension), scene.NewBouncingScene()); err != nil {
		t.Fatalf("Failed to save scene: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken"+scene.FileExtension), []byte("world: [\n"), 0o644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"default", false},
		{"simple", false},
		{"bouncing", false},
		{"file:row", false},
		{"file:missing", true},
		{"file:broken", true},
		{"file:../row", true},
		{"file:", true},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sceneObj, err := s.createScene(tt.name, scene.DefaultSeed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createScene(%q) error = %v, wantErr %t", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && sceneObj.GetPrimitiveCount() == 0 {
				t.Errorf("Expected scene %q to contain objects", tt.name)
			}
		})
	}
}

func TestHandleRender_StreamsFrames(t *testing.T) {
	observed, logs := observer.New(zap.InfoLevel)
	s := NewServer(0, t.TempDir(), "", zap.New(observed))

	rec := get(t, s.Handler(), "/api/render?scene=simple&width=16&samples=1&start=2&frames=2")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	events := parseSSE(t, rec.Body)
	var frames []FrameUpdate
	consoleCount := 0
	for _, ev := range events {
		switch ev.name {
		case "frame":
			var update FrameUpdate
			if err := json.Unmarshal([]byte(ev.data), &update); err != nil {
				t.Fatalf("Failed to decode frame event: %v", err)
			}
			frames = append(frames, update)
		case "console":
			consoleCount++
		case "error":
			t.Fatalf("Unexpected error event: %s", ev.data)
		}
	}

	if len(frames) != 2 {
		t.Fatalf("Expected 2 frame events, got %d", len(frames))
	}
	for i, update := range frames {
		if update.Frame != 2+i || update.FrameNumber != i+1 || update.TotalFrames != 2 {
			t.Errorf("Unexpected frame numbering %+v", update)
		}
		if update.Width != 16 || update.Height != 9 {
			t.Errorf("Expected 16x9 frame, got %dx%d", update.Width, update.Height)
		}
		if update.ImageData == "" || update.Stats.Pixels != 16*9 || update.Stats.Samples != 16*9 {
			t.Errorf("Unexpected frame payload stats %+v", update.Stats)
		}
	}
	if frames[0].IsLast || !frames[1].IsLast {
		t.Error("Expected only the final frame to be marked last")
	}

	if consoleCount == 0 {
		t.Error("Expected renderer logs forwarded to the console")
	}
	if last := events[len(events)-1]; last.name != "complete" {
		t.Errorf("Expected stream to end with complete, got %q", last.name)
	}

	// The server log receives the same renderer entries
	if logs.FilterMessage("Frame completed").Len() != 2 {
		t.Errorf("Expected 2 'Frame completed' server log entries, got %d", logs.FilterMessage("Frame completed").Len())
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{
		"/api/render?scene=simple&width=5",
		"/api/render?scene=simple&frames=0",
		"/api/render?scene=nonexistent",
	} {
		t.Run(target, func(t *testing.T) {
			events := parseSSE(t, get(t, s.Handler(), target).Body)
			if len(events) != 1 || events[0].name != "error" {
				t.Errorf("Expected a single error event, got %+v", events)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Handler()

	// Centre of the simple scene is the blue diffuse sphere
	rec := get(t, handler, "/api/inspect?scene=simple&width=16&x=8&y=4")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var hit InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&hit); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !hit.Hit || hit.MaterialType != "lambertian" || hit.GeometryType != "sphere" || !hit.FrontFace {
		t.Errorf("Expected front-face hit on a lambertian sphere, got %+v", hit)
	}
	geometry := hit.Properties["geometry"].(map[string]interface{})
	if geometry["radius"] != 0.5 {
		t.Errorf("Expected the radius 0.5 sphere, got %v", geometry)
	}

	// Top row looks at the sky
	rec = get(t, handler, "/api/inspect?scene=simple&width=16&x=8&y=0")
	var miss InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&miss); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if miss.Hit {
		t.Errorf("Expected miss in the top row, got %+v", miss)
	}

	for _, target := range []string{
		"/api/inspect?scene=simple&width=16&x=16&y=0",
		"/api/inspect?scene=simple&width=16&x=a&y=0",
		"/api/inspect?scene=simple&width=16&x=0",
		"/api/inspect?scene=nonexistent&x=0&y=0",
	} {
		if rec := get(t, handler, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

type sseEvent struct {
	name string
	data string
}

func parseSSE(t *testing.T, r io.Reader) []sseEvent {
	t.Helper()
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	var events []sseEvent
	for _, block := range strings.Split(string(body), "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			if name, ok := strings.CutPrefix(line, "event: "); ok {
				ev.name = name
			} else if data, ok := strings.CutPrefix(line, "data: "); ok {
				ev.data = data
			}
		}
		events = append(events, ev)
	}
	return events
}
