package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-animated-raytracer/pkg/core"
)

// Frame is a rendered image stored as dense 8-bit RGB, row-major with the top row first
type Frame struct {
	Index  int
	Width  int
	Height int
	Pix    []byte // 3 bytes per pixel
}

// NewFrame allocates a black frame
func NewFrame(index, width, height int) *Frame {
	return &Frame{
		Index:  index,
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// offset returns the index of the red byte of pixel (x, y)
func (f *Frame) offset(x, y int) int {
	return (y*f.Width + x) * 3
}

// Set stores an RGB triple at pixel (x, y)
func (f *Frame) Set(x, y int, rgb [3]byte) {
	o := f.offset(x, y)
	f.Pix[o] = rgb[0]
	f.Pix[o+1] = rgb[1]
	f.Pix[o+2] = rgb[2]
}

// At returns the RGB triple at pixel (x, y)
func (f *Frame) At(x, y int) [3]byte {
	o := f.offset(x, y)
	return [3]byte{f.Pix[o], f.Pix[o+1], f.Pix[o+2]}
}

// ToRGBA converts the frame to an opaque image.RGBA for encoding
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			rgb := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	return img
}

// AverageLuminance returns the mean luminance of the frame in [0, 1]
func (f *Frame) AverageLuminance() float64 {
	pixels := f.Width * f.Height
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for o := 0; o+2 < len(f.Pix); o += 3 {
		rgb := core.NewVec3(float64(f.Pix[o]), float64(f.Pix[o+1]), float64(f.Pix[o+2]))
		total += rgb.Multiply(1.0 / 255).Luminance()
	}
	return total / float64(pixels)
}
