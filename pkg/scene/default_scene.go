package scene

import (
	"github.com/df07/go-animated-raytracer/pkg/animation"
	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/geometry"
	"github.com/df07/go-animated-raytracer/pkg/material"
	"github.com/df07/go-animated-raytracer/pkg/renderer"
)

// DefaultSeed is the seed used for the built-in random sphere field
const DefaultSeed = 42

// NewDefaultScene creates the random sphere field: a large ground sphere, a 22x22 grid of
// small diffuse, metal and glass spheres (most of them moving during the shutter) and three
// large feature spheres. The same seed always produces the same layout.
func NewDefaultScene(seed uint64) *Scene {
	s := New("default")
	s.Camera = renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 32,
		MaxDepth:        50,
		VFov:            20,
		LookFrom:        core.NewVec3(13, 2, 3),
		LookAt:          core.NewVec3(0, 0, 0),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0.6,
		FocusDistance:   10,
		Animation: animation.Context{
			FramesPerSecond: 1,
			ShutterSpeed:    1, // Frame 0 sees the whole unit-time movement
		},
	}

	random := core.NewSeededSampler(seed, 0)

	groundMaterial := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, groundMaterial))

	movement := core.NewInterval(0, 0.5)
	unit := core.NewInterval(0, 1)
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Get1D()
			center := core.NewVec3(float64(a)+0.9*random.Get1D(), 0.2, float64(b)+0.9*random.Get1D())

			center1 := center
			if random.Get1D() < 0.7 {
				center1 = center.Add(core.RandomVec3InInterval(random, movement))
			}

			// Keep the space around the large metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3InInterval(random, unit).MultiplyVec(core.RandomVec3InInterval(random, unit))
				s.Add(geometry.NewMovingSphere(center, center1, 0.2, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				albedo := core.RandomVec3InInterval(random, core.NewInterval(0.5, 1))
				fuzz := movement.Random(random)
				s.Add(geometry.NewMovingSphere(center, center1, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				// Glass shell: an outer sphere and an inner air pocket
				s.Add(
					geometry.NewMovingSphere(center, center1, 0.2, material.NewDielectric(1.5)),
					geometry.NewMovingSphere(center, center1, 0.1, material.NewDielectric(1/1.5)),
				)
			}
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 0.9, material.NewDielectric(1/1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}
