package output

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/df07/go-animated-raytracer/pkg/renderer"
)

// FrameWriter saves every frame of an animation into a directory.
// WriteFrame has the renderer.FrameSink signature.
type FrameWriter struct {
	dir     string
	pattern string
	logger  *zap.Logger

	// ContinueOnError keeps the animation running when a frame fails to save.
	// Failures are collected and reported by Err.
	ContinueOnError bool

	mu    sync.Mutex
	paths []string
	errs  error
}

// NewFrameWriter creates dir if needed and returns a writer for it
func NewFrameWriter(dir, pattern string, logger *zap.Logger) (*FrameWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FrameWriter{dir: dir, pattern: pattern, logger: logger}, nil
}

// WriteFrame saves one frame
func (fw *FrameWriter) WriteFrame(frame *renderer.Frame, stats renderer.RenderStats) error {
	path := FramePath(fw.dir, fw.pattern, frame.Index)

	if err := WriteFile(path, frame); err != nil {
		fw.mu.Lock()
		fw.errs = multierr.Append(fw.errs, err)
		fw.mu.Unlock()

		fw.logger.Warn("Failed to save frame", zap.Int("frame", frame.Index), zap.Error(err))
		if fw.ContinueOnError {
			return nil
		}
		return err
	}

	fw.mu.Lock()
	fw.paths = append(fw.paths, path)
	fw.mu.Unlock()

	fw.logger.Debug("Frame saved",
		zap.Int("frame", frame.Index),
		zap.String("path", path),
		zap.Duration("duration", stats.Duration))
	return nil
}

// Paths returns the files written so far, in write order
func (fw *FrameWriter) Paths() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return append([]string(nil), fw.paths...)
}

// Err returns every save failure so far, combined
func (fw *FrameWriter) Err() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.errs
}
