package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/df07/go-animated-raytracer/pkg/output"
	"github.com/df07/go-animated-raytracer/pkg/renderer"
)

// FrameUpdate represents a single finished frame sent via SSE
type FrameUpdate struct {
	Frame       int    `json:"frame"`
	FrameNumber int    `json:"frameNumber"` // 1-based position within the request
	TotalFrames int    `json:"totalFrames"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsLast      bool   `json:"isLast"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents per-frame render statistics
type Stats struct {
	Pixels           int     `json:"pixels"`
	Samples          int     `json:"samples"`
	DurationMs       int64   `json:"durationMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	Luminance        float64 `json:"luminance"`
}

// handleRender renders an animation and streams every finished frame via SSE.
// Closing the connection stops the animation after the frame in progress.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)

	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sendSSEEvent(w, flusher, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.setupScene(req)
	if err != nil {
		sendSSEEvent(w, flusher, "error", err.Error())
		return
	}

	// Renderer logs go to the server log and to the browser console
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewConsoleLogger(s.logger, renderID, consoleChan, zapcore.InfoLevel).
		Named("renderer").With(zap.String("scene", sceneObj.Name))

	raytracer := renderer.NewRaytracer(sceneObj, renderer.Options{
		Seed:   req.Seed,
		Logger: logger,
	})

	startTime := time.Now()
	frameChan, errChan := raytracer.RenderAnimationAsync(ctx, req.StartFrame, req.Frames)

	// This goroutine is the only writer to w
	frameNumber := 0
	for frameChan != nil || errChan != nil {
		select {
		case msg := <-consoleChan:
			s.sendJSONEvent(w, flusher, "console", msg)

		case result, ok := <-frameChan:
			if !ok {
				frameChan = nil
				continue
			}
			frameNumber++
			update, err := newFrameUpdate(result, frameNumber, req.Frames, startTime)
			if err != nil {
				s.logger.Error("Failed to encode frame", zap.Int("frame", result.Frame.Index), zap.Error(err))
				sendSSEEvent(w, flusher, "error", fmt.Sprintf("Failed to encode frame %d: %v", result.Frame.Index, err))
				return
			}
			s.sendJSONEvent(w, flusher, "frame", update)

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if ctx.Err() != nil {
				// Client disconnected
				return
			}
			sendSSEEvent(w, flusher, "error", fmt.Sprintf("Rendering failed: %v", err))
			return
		}
	}

	// Flush console lines logged after the last frame
	for len(consoleChan) > 0 {
		s.sendJSONEvent(w, flusher, "console", <-consoleChan)
	}
	sendSSEEvent(w, flusher, "complete", "Rendering completed")
}

func newFrameUpdate(result renderer.FrameResult, frameNumber, totalFrames int, startTime time.Time) (FrameUpdate, error) {
	imageData, err := frameToBase64PNG(result.Frame)
	if err != nil {
		return FrameUpdate{}, err
	}

	return FrameUpdate{
		Frame:       result.Frame.Index,
		FrameNumber: frameNumber,
		TotalFrames: totalFrames,
		Width:       result.Frame.Width,
		Height:      result.Frame.Height,
		ImageData:   imageData,
		Stats: Stats{
			Pixels:           result.Stats.Pixels,
			Samples:          result.Stats.Samples,
			DurationMs:       result.Stats.Duration.Milliseconds(),
			SamplesPerSecond: result.Stats.SamplesPerSecond(),
			Luminance:        result.Frame.AverageLuminance(),
		},
		IsLast:    result.IsLast,
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// frameToBase64PNG converts a frame to base64-encoded PNG
func frameToBase64PNG(frame *renderer.Frame) (string, error) {
	var buf bytes.Buffer
	if err := output.WritePNG(&buf, frame); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Server) sendJSONEvent(w http.ResponseWriter, flusher http.Flusher, event string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to marshal SSE event", zap.String("event", event), zap.Error(err))
		return
	}
	sendSSEEvent(w, flusher, event, string(data))
}

// sendSSEEvent writes one SSE event and flushes it to the client
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
