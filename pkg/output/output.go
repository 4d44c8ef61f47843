// Package output encodes rendered frames as image files.
package output

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-animated-raytracer/pkg/renderer"
)

// Format selects the image encoding for a frame
type Format int

const (
	FormatPNG Format = iota
	FormatPPM
	FormatBMP
	FormatTIFF
)

// DefaultPattern names animation frames frame-0.png, frame-1.png, ...
const DefaultPattern = "frame-%d.png"

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatPPM:
		return "ppm"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat converts a format name such as "png" or ".tif" to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return FormatPNG, nil
	case "ppm":
		return FormatPPM, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return FormatPNG, fmt.Errorf("unknown image format %q", name)
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// WritePNG encodes the frame as an opaque PNG
func WritePNG(w io.Writer, frame *renderer.Frame) error {
	return png.Encode(w, frame.ToRGBA())
}

// WritePPM encodes the frame as a binary P6 portable pixmap
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return err
	}
	if _, err := bw.Write(frame.Pix); err != nil {
		return err
	}
	return bw.Flush()
}

// Write encodes the frame in the given format
func Write(w io.Writer, frame *renderer.Frame, format Format) error {
	switch format {
	case FormatPNG:
		return WritePNG(w, frame)
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatBMP:
		return bmp.Encode(w, frame.ToRGBA())
	case FormatTIFF:
		return tiff.Encode(w, frame.ToRGBA(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %v", format)
	}
}

// WriteFile creates path and writes the frame to it, choosing the format from the extension
func WriteFile(path string, frame *renderer.Frame) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))

	if err := Write(file, frame, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// FramePath returns the file path of a frame. An empty pattern uses DefaultPattern.
func FramePath(dir, pattern string, index int) string {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return filepath.Join(dir, fmt.Sprintf(pattern, index))
}
