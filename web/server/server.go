package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/df07/go-animated-raytracer/pkg/loaders"
	"github.com/df07/go-animated-raytracer/pkg/renderer"
	"github.com/df07/go-animated-raytracer/pkg/scene"
)

// Parameter limits shared by the render, inspect and scene-config endpoints
const (
	minWidth, maxWidth     = 16, 2000
	minSamples, maxSamples = 1, 10000
	maxFrames              = 1000
)

// Server handles web requests for the animated raytracer
type Server struct {
	port      int
	scenesDir string
	staticDir string
	logger    *zap.Logger
}

// NewServer creates a new web server. Scene files are looked up in scenesDir and
// static files are served from staticDir.
func NewServer(port int, scenesDir, staticDir string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{port: port, scenesDir: scenesDir, staticDir: staticDir, logger: logger}
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene      string `json:"scene"`      // Built-in scene name or "file:<name>"
	Width      int    `json:"width"`      // Image width, 0 keeps the scene's width
	Samples    int    `json:"samples"`    // Samples per pixel, 0 keeps the scene's value
	StartFrame int    `json:"startFrame"` // First frame to render
	Frames     int    `json:"frames"`     // Number of frames to render
	Seed       uint64 `json:"seed"`       // Sampler seed
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("Starting web server", zap.String("url", "http://localhost"+addr))
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files, grouped
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		s.logger.Error("Failed to list scenes", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleSceneConfig returns the camera defaults of a scene together with the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName, scene.DefaultSeed)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	camera := renderer.NewCamera(sceneObj.Camera)
	config := sceneObj.Camera
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           camera.ImageWidth(),
			"height":          camera.ImageHeight(),
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"framesPerSecond": config.Animation.FramesPerSecond,
			"shutterSpeed":    config.Animation.ShutterSpeed,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minWidth, "max": maxWidth},
			"samples": map[string]int{"min": minSamples, "max": maxSamples},
			"frames":  map[string]int{"min": 1, "max": maxFrames},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses the scene and rendering parameters shared by all endpoints
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.StartFrame, err = parseIntParam(values, "start", 0, 0, 1<<20); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(values, "frames", 1, 1, maxFrames); err != nil {
		return nil, err
	}

	seed, err := parseIntParam(values, "seed", int(scene.DefaultSeed), 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = uint64(seed)

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a built-in scene name or a "file:<name>" scene from the scenes directory
func (s *Server) createScene(name string, seed uint64) (*scene.Scene, error) {
	if fileName, ok := strings.CutPrefix(name, "file:"); ok {
		// Scene IDs never contain path separators
		if fileName == "" || fileName != filepath.Base(fileName) {
			return nil, fmt.Errorf("invalid scene file name: %q", fileName)
		}

		sceneObj, err := loaders.LoadScene(filepath.Join(s.scenesDir, fileName+scene.FileExtension))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unknown scene: %s", name)
		}
		return sceneObj, err
	}

	if name == "default" {
		return scene.NewDefaultScene(seed), nil
	}
	return scene.Builtin(name)
}

// setupScene creates the requested scene and applies the request's overrides to its camera
func (s *Server) setupScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.createScene(req.Scene, req.Seed)
	if err != nil {
		return nil, err
	}

	if req.Width > 0 {
		sceneObj.Camera.ImageWidth = req.Width
	}
	if req.Samples > 0 {
		sceneObj.Camera.SamplesPerPixel = req.Samples
	}
	return sceneObj, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
