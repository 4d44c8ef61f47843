package renderer

import (
	"bytes"
	"math"
	"sync"
	"testing"

	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/geometry"
	"github.com/df07/go-animated-raytracer/pkg/material"
)

type testScene struct {
	world  geometry.Hittable
	camera CameraConfig
}

func (s *testScene) GetWorld() geometry.Hittable   { return s.world }
func (s *testScene) GetCameraConfig() CameraConfig { return s.camera }

// newSimpleTestScene builds a small sphere resting on a large ground sphere in front of a camera at the origin
func newSimpleTestScene(width, samples, depth int) *testScene {
	config := DefaultCameraConfig()
	config.ImageWidth = width
	config.SamplesPerPixel = samples
	config.MaxDepth = depth

	return &testScene{
		world: geometry.NewList(
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		),
		camera: config,
	}
}

// newMixedTestScene exercises every material so determinism checks cover all scatter paths
func newMixedTestScene(width, samples, depth int) *testScene {
	scene := newSimpleTestScene(width, samples, depth)
	scene.world.Add(geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)))
	scene.world.Add(geometry.NewMovingSphere(core.NewVec3(1, 0, -1), core.NewVec3(1, 0.2, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)))
	scene.camera.Animation.ShutterSpeed = 0.5
	return scene
}

func TestRayColor_ZeroDepthIsBlack(t *testing.T) {
	scene := newSimpleTestScene(8, 1, 1)
	sampler := core.NewSeededSampler(1, 0)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), // hits the sphere
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),  // escapes to the sky
	}

	for _, ray := range rays {
		for _, depth := range []int{0, -1, -10} {
			color := RayColor(ray, scene.world, depth, sampler)
			if color != (core.Vec3{}) {
				t.Errorf("Expected black at depth %d, got %v", depth, color)
			}
		}
	}
}

func TestRayColor_EmptyWorldReturnsBackground(t *testing.T) {
	world := geometry.NewList()
	sampler := core.NewSeededSampler(1, 0)

	directions := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0.3, -0.2, -5),
	}

	for _, dir := range directions {
		ray := core.NewRay(core.NewVec3(1, 2, 3), dir)
		color := RayColor(ray, world, 50, sampler)
		if color != Background(ray) {
			t.Errorf("Expected background %v for direction %v, got %v", Background(ray), dir, color)
		}
	}
}

func TestRayColor_MirrorReflectsBackground(t *testing.T) {
	world := geometry.NewList(
		geometry.NewSphere(core.NewVec3(0, 0, -2), 1, material.NewMetal(core.NewVec3(1, 1, 1), 0)),
	)
	sampler := core.NewSeededSampler(1, 0)

	// Depth 1 means the reflected ray gathers nothing
	color := RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), world, 1, sampler)
	if color != (core.Vec3{}) {
		t.Errorf("Expected black after exhausting depth, got %v", color)
	}

	// Depth 2 lets the mirror reflect the sky straight back
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	color = RayColor(ray, world, 2, sampler)
	expected := Background(core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)))
	if color.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected mirrored background %v, got %v", expected, color)
	}
}

func TestBackground(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -5, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := Background(core.NewRay(core.NewVec3(0, 0, 0), tt.direction))
			if color.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestToPixel(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		scale    float64
		expected [3]byte
	}{
		{"black", core.NewVec3(0, 0, 0), 1, [3]byte{0, 0, 0}},
		{"white clamps below 256", core.NewVec3(1, 1, 1), 1, [3]byte{255, 255, 255}},
		{"overexposed", core.NewVec3(4, 9, 100), 1, [3]byte{255, 255, 255}},
		{"gamma 2", core.NewVec3(0.25, 0.25, 0.25), 1, [3]byte{128, 128, 128}},
		{"scaled sum", core.NewVec3(1, 1, 1), 0.25, [3]byte{128, 128, 128}},
		{"negative becomes black", core.NewVec3(-1, -0.5, 0.25), 1, [3]byte{0, 0, 128}},
		{"NaN becomes black", core.NewVec3(math.NaN(), 0, 0), 1, [3]byte{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPixel(tt.color, tt.scale)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRenderFrame_SimpleScene(t *testing.T) {
	scene := newSimpleTestScene(40, 1, 1)
	options := DefaultOptions()
	options.Seed = 7

	raytracer := NewRaytracer(scene, options)
	frame, stats := raytracer.RenderFrame(0)

	width, height := raytracer.Width(), raytracer.Height()
	if frame.Width != width || frame.Height != height || len(frame.Pix) != width*height*3 {
		t.Fatalf("Expected %dx%d frame, got %dx%d with %d bytes", width, height, frame.Width, frame.Height, len(frame.Pix))
	}
	if stats.Pixels != width*height || stats.Samples != width*height {
		t.Errorf("Expected %d pixels and samples, got %d and %d", width*height, stats.Pixels, stats.Samples)
	}

	// The top row sees only sky: every pixel equals the background of its own camera ray
	camera := raytracer.Camera()
	for i := 0; i < width; i++ {
		sampler := core.NewPixelSampler(options.Seed, 0, i)
		ray := camera.GetRay(i, 0, 0, sampler)
		expected := ToPixel(Background(ray), 1)
		if got := frame.At(i, 0); got != expected {
			t.Errorf("Top row pixel %d: expected %v, got %v", i, expected, got)
		}
	}

	// With a single bounce the sphere in the middle renders black
	center := frame.At(width/2, height/2)
	if center != [3]byte{0, 0, 0} {
		t.Errorf("Expected centre pixel to be black, got %v", center)
	}
}

func TestRenderFrame_DeterministicAcrossWorkersAndTiles(t *testing.T) {
	scene := newMixedTestScene(24, 3, 6)

	configs := []Options{
		{Workers: 1, TileSize: 64, Seed: 99},
		{Workers: 2, TileSize: 8, Seed: 99},
		{Workers: 4, TileSize: 5, Seed: 99},
		{Workers: 8, TileSize: 1, Seed: 99},
	}

	var reference *Frame
	for _, options := range configs {
		frame, _ := NewRaytracer(scene, options).RenderFrame(2)
		if reference == nil {
			reference = frame
			continue
		}
		if !bytes.Equal(reference.Pix, frame.Pix) {
			t.Errorf("Expected identical frames, workers=%d tileSize=%d differs", options.Workers, options.TileSize)
		}
	}

	// Rendering again with the same raytracer is also repeatable
	raytracer := NewRaytracer(scene, configs[1])
	first, _ := raytracer.RenderFrame(2)
	second, _ := raytracer.RenderFrame(2)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("Expected repeated renders of the same frame to be identical")
	}

	other, _ := NewRaytracer(scene, Options{Workers: 2, TileSize: 8, Seed: 100}).RenderFrame(2)
	if bytes.Equal(reference.Pix, other.Pix) {
		t.Error("Expected a different seed to change the image")
	}
}

func TestRenderFrame_UpdatesProgress(t *testing.T) {
	scene := newSimpleTestScene(20, 1, 2)
	progress := &Progress{}

	raytracer := NewRaytracer(scene, Options{Workers: 3, TileSize: 6, Progress: progress})
	if raytracer.Progress() != progress {
		t.Fatal("Expected raytracer to use the supplied progress counter")
	}

	raytracer.RenderFrame(0)

	expected := raytracer.Width() * raytracer.Height()
	if progress.Completed() != expected || progress.Total() != expected {
		t.Errorf("Expected %d/%d pixels, got %d/%d", expected, expected, progress.Completed(), progress.Total())
	}
	if progress.Fraction() != 1 {
		t.Errorf("Expected fraction 1, got %f", progress.Fraction())
	}
}

func TestRenderFrame_ProgressAccumulatesAcrossFrames(t *testing.T) {
	scene := newSimpleTestScene(20, 1, 2)
	progress := &Progress{}
	raytracer := NewRaytracer(scene, Options{Workers: 2, TileSize: 8, Progress: progress})
	pixels := raytracer.Width() * raytracer.Height()

	raytracer.RenderFrame(0)
	afterFirst := progress.Completed()
	raytracer.RenderFrame(1)

	if afterFirst != pixels {
		t.Errorf("Expected %d pixels after frame 0, got %d", pixels, afterFirst)
	}
	if progress.Completed() != 2*pixels || progress.Total() != 2*pixels {
		t.Errorf("Expected %d/%d pixels after two frames, got %d/%d",
			2*pixels, 2*pixels, progress.Completed(), progress.Total())
	}
}

func TestRenderFrame_ConcurrentFramesShareProgress(t *testing.T) {
	scene := newSimpleTestScene(20, 1, 2)
	progress := &Progress{}
	raytracer := NewRaytracer(scene, Options{Workers: 2, TileSize: 8, Progress: progress})
	pixels := raytracer.Width() * raytracer.Height()

	var wg sync.WaitGroup
	for frame := 0; frame < 3; frame++ {
		wg.Add(1)
		go func(frame int) {
			defer wg.Done()
			raytracer.RenderFrame(frame)
		}(frame)
	}
	wg.Wait()

	if progress.Completed() != 3*pixels {
		t.Errorf("Expected %d completed pixels, got %d", 3*pixels, progress.Completed())
	}
}

func TestProgress_ConcurrentIncrements(t *testing.T) {
	progress := NewProgress(8 * 1000)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 1000; n++ {
				progress.Add(1)
			}
		}()
	}
	wg.Wait()

	if progress.Completed() != 8000 {
		t.Errorf("Expected 8000 completed, got %d", progress.Completed())
	}

	progress.Expect(10)
	if progress.Completed() != 8000 || progress.Total() != 8010 {
		t.Errorf("Expected 8000/8010 after raising the total, got %d/%d", progress.Completed(), progress.Total())
	}

	empty := &Progress{}
	if empty.Fraction() != 0 {
		t.Errorf("Expected fraction 0 without a total, got %f", empty.Fraction())
	}
}

func TestDefaultOptionsApplied(t *testing.T) {
	raytracer := NewRaytracer(newSimpleTestScene(8, 1, 1), Options{})

	if raytracer.options.Workers <= 0 {
		t.Errorf("Expected positive worker count, got %d", raytracer.options.Workers)
	}
	if raytracer.options.TileSize != 32 {
		t.Errorf("Expected default tile size 32, got %d", raytracer.options.TileSize)
	}
	if raytracer.logger == nil || raytracer.progress == nil {
		t.Error("Expected logger and progress defaults")
	}
}
