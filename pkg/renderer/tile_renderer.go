package renderer

import (
	"image"

	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/geometry"
)

// TileRenderer renders rectangular pixel regions of a frame
type TileRenderer struct {
	world    geometry.Hittable
	camera   *Camera
	seed     uint64
	progress *Progress
}

// NewTileRenderer creates a tile renderer. progress may be nil.
func NewTileRenderer(world geometry.Hittable, camera *Camera, seed uint64, progress *Progress) *TileRenderer {
	return &TileRenderer{
		world:    world,
		camera:   camera,
		seed:     seed,
		progress: progress,
	}
}

// RenderTile renders every pixel within bounds into frame and returns the number of camera rays traced
func (tr *TileRenderer) RenderTile(bounds image.Rectangle, frameIndex int, frame *Frame) int {
	samples := 0
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			color, n := tr.SamplePixel(i, j, frameIndex)
			frame.Set(i, j, ToPixel(color, tr.camera.PixelSamplesScale()))
			samples += n
		}
		if tr.progress != nil {
			tr.progress.Add(bounds.Dx())
		}
	}
	return samples
}

// SamplePixel sums the radiance of every camera ray through pixel (i, j) and returns the sum
// together with the number of rays traced
func (tr *TileRenderer) SamplePixel(i, j, frameIndex int) (core.Vec3, int) {
	config := tr.camera.Config()
	samplesPerPixel := max(1, config.SamplesPerPixel)
	sampler := core.NewPixelSampler(tr.seed, frameIndex, j*tr.camera.ImageWidth()+i)

	color := core.Vec3{}
	for s := 0; s < samplesPerPixel; s++ {
		ray := tr.camera.GetRay(i, j, frameIndex, sampler)
		color = color.Add(RayColor(ray, tr.world, config.MaxDepth, sampler))
	}
	return color, samplesPerPixel
}
