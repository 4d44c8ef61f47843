package renderer

import (
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/geometry"
)

// HitRange is the acceptable ray parameter range for world intersections. The lower bound
// keeps scattered rays from re-hitting the surface they left.
var HitRange = core.NewInterval(0.001, math.Inf(1))

// intensity is the displayable color range before quantization
var intensity = core.NewInterval(0.000, 0.999)

var (
	backgroundBottom = core.NewVec3(1.0, 1.0, 1.0)
	backgroundTop    = core.NewVec3(0.5, 0.7, 1.0)
)

// Options controls how a frame is rendered
type Options struct {
	Workers  int         // Number of parallel workers (0 = use CPU count)
	TileSize int         // Edge length of square tiles in pixels (0 = 32)
	Seed     uint64      // Base seed for every pixel sampler
	Progress *Progress   // Optional shared progress counter
	Logger   *zap.Logger // Optional logger (nil = no output)
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Workers:  0,
		TileSize: 32,
		Seed:     42,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetWorld() geometry.Hittable
	GetCameraConfig() CameraConfig
}

// Raytracer renders frames of a scene. The scene and camera are read-only while rendering.
type Raytracer struct {
	world    geometry.Hittable
	camera   *Camera
	options  Options
	tiles    []*Tile
	progress *Progress
	logger   *zap.Logger
}

// NewRaytracer creates a new raytracer for the scene
func NewRaytracer(scene Scene, options Options) *Raytracer {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	if options.TileSize <= 0 {
		options.TileSize = 32
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	progress := options.Progress
	if progress == nil {
		progress = &Progress{}
	}

	camera := NewCamera(scene.GetCameraConfig())

	return &Raytracer{
		world:    scene.GetWorld(),
		camera:   camera,
		options:  options,
		tiles:    NewTileGrid(camera.ImageWidth(), camera.ImageHeight(), options.TileSize),
		progress: progress,
		logger:   logger,
	}
}

// Camera returns the camera built from the scene configuration
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Progress returns the pixel counter updated while a frame renders
func (rt *Raytracer) Progress() *Progress {
	return rt.progress
}

// Width returns the output width in pixels
func (rt *Raytracer) Width() int {
	return rt.camera.ImageWidth()
}

// Height returns the output height in pixels
func (rt *Raytracer) Height() int {
	return rt.camera.ImageHeight()
}

// RenderFrame renders a single frame using the tile worker pool. Each pixel draws from its own
// sampler, so the result depends only on the seed and frame index.
func (rt *Raytracer) RenderFrame(frameIndex int) (*Frame, RenderStats) {
	startTime := time.Now()
	width, height := rt.Width(), rt.Height()

	frame := NewFrame(frameIndex, width, height)
	rt.progress.Expect(width * height)

	rt.logger.Debug("Rendering frame",
		zap.Int("frame", frameIndex),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("tiles", len(rt.tiles)),
		zap.Int("workers", rt.options.Workers))

	tileRenderer := NewTileRenderer(rt.world, rt.camera, rt.options.Seed, rt.progress)
	pool := NewWorkerPool(tileRenderer, len(rt.tiles), rt.options.Workers)
	pool.Start()

	for taskID, tile := range rt.tiles {
		pool.SubmitTask(TileTask{
			Tile:       tile,
			FrameIndex: frameIndex,
			Frame:      frame,
			TaskID:     taskID,
		})
	}

	stats := RenderStats{
		Frame:   frameIndex,
		Pixels:  width * height,
		Tiles:   len(rt.tiles),
		Workers: pool.GetNumWorkers(),
	}
	for range rt.tiles {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Samples += result.Samples
	}
	pool.Stop()

	stats.Duration = time.Since(startTime)
	return frame, stats
}

// RayColor returns the radiance carried back along the ray. Recursion stops once depth reaches zero.
func RayColor(ray core.Ray, world geometry.Hittable, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, HitRange)
	if !isHit {
		return Background(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(RayColor(scatter.Scattered, world, depth-1, sampler))
}

// Background returns the sky gradient seen by a ray that escapes the scene
func Background(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y + 1.0)

	return backgroundBottom.Multiply(1.0 - a).Add(backgroundTop.Multiply(a))
}

// ToPixel converts an accumulated color to 8-bit RGB. The color is scaled, gamma corrected
// with gamma 2 and clamped to [0, 0.999] before quantization.
func ToPixel(color core.Vec3, scale float64) [3]byte {
	c := color.Multiply(scale)
	return [3]byte{
		quantize(c.X),
		quantize(c.Y),
		quantize(c.Z),
	}
}

func quantize(component float64) byte {
	return byte(256 * intensity.Clamp(linearToGamma(component)))
}

func linearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}
