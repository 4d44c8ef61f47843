package renderer

import (
	"math"

	"github.com/df07/go-animated-raytracer/pkg/animation"
	"github.com/df07/go-animated-raytracer/pkg/core"
)

// CameraConfig contains all the parameters needed to set up a camera
type CameraConfig struct {
	AspectRatio     float64   // Image width over height
	ImageWidth      int       // Output width in pixels
	SamplesPerPixel int       // Rays traced per pixel
	MaxDepth        int       // Maximum ray bounce depth
	VFov            float64   // Vertical field of view in degrees
	LookFrom        core.Vec3 // Camera position
	LookAt          core.Vec3 // Point the camera looks at
	Up              core.Vec3 // Camera-relative up direction
	DefocusAngle    float64   // Variation angle of rays through each pixel, in degrees (0 = pinhole)
	FocusDistance   float64   // Distance from LookFrom to the plane of perfect focus

	Animation animation.Context // Frame rate and shutter speed
}

// DefaultCameraConfig returns a 16:9 pinhole camera at the origin looking down -z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		VFov:            90,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDistance:   1,
		Animation:       animation.DefaultContext(),
	}
}

// Camera generates rays for rendering. It is immutable after construction and safe to share between workers.
type Camera struct {
	config CameraConfig

	imageWidth        int
	imageHeight       int
	pixelSamplesScale float64 // Color scale factor for a sum of pixel samples

	center       core.Vec3
	pixel00Loc   core.Vec3 // Location of pixel (0, 0)
	pixelDeltaU  core.Vec3 // Offset to the pixel to the right
	pixelDeltaV  core.Vec3 // Offset to the pixel below
	u, v, w      core.Vec3 // Camera frame basis vectors
	defocusDiskU core.Vec3 // Defocus disk horizontal radius
	defocusDiskV core.Vec3 // Defocus disk vertical radius
}

// NewCamera derives the viewport geometry from the configuration.
// Image width and samples per pixel are clamped to at least 1.
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{config: config}

	c.imageWidth = max(1, config.ImageWidth)
	aspectRatio := config.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	c.imageHeight = max(1, int(float64(c.imageWidth)/aspectRatio))
	c.pixelSamplesScale = 1.0 / float64(max(1, config.SamplesPerPixel))

	c.center = config.LookFrom

	// Determine viewport dimensions
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * (float64(c.imageWidth) / float64(c.imageHeight))

	// Calculate the orthonormal basis for the camera coordinate frame
	c.w = config.LookFrom.Subtract(config.LookAt).Normalize()
	c.u = config.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Negate().Multiply(viewportHeight)

	c.pixelDeltaU = viewportU.Divide(float64(c.imageWidth))
	c.pixelDeltaV = viewportV.Divide(float64(c.imageHeight))

	// Location of the upper left pixel
	viewportUpperLeft := c.center.
		Subtract(c.w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	c.pixel00Loc = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Multiply(0.5))

	// Camera defocus disk basis vectors
	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)

	return c
}

// GetRay constructs a camera ray for pixel (i, j) of the given frame. The ray starts on the
// defocus disk, passes through a random point in the pixel square and carries a random
// time inside the frame's shutter interval.
func (c *Camera) GetRay(i, j, frame int, sampler core.Sampler) core.Ray {
	offset := c.sampleSquare(sampler)
	pixelSample := c.pixel00Loc.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y))

	rayOrigin := c.center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(sampler)
	}
	rayDirection := pixelSample.Subtract(rayOrigin)

	rayTime := c.config.Animation.ShutterInterval(frame).Random(sampler)

	return core.NewRayWithTime(rayOrigin, rayDirection, rayTime)
}

// sampleSquare returns a random offset in the [-.5,-.5]-[+.5,+.5] unit square
func (c *Camera) sampleSquare(sampler core.Sampler) core.Vec2 {
	s := sampler.Get2D()
	return core.NewVec2(s.X-0.5, s.Y-0.5)
}

// defocusDiskSample returns a random point on the camera defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// ImageWidth returns the output width in pixels
func (c *Camera) ImageWidth() int {
	return c.imageWidth
}

// ImageHeight returns the derived output height in pixels
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// PixelSamplesScale returns 1 / samples per pixel
func (c *Camera) PixelSamplesScale() float64 {
	return c.pixelSamplesScale
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}
