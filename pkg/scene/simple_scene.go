package scene

import (
	"math"

	"github.com/df07/go-animated-raytracer/pkg/animation"
	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/geometry"
	"github.com/df07/go-animated-raytracer/pkg/material"
)

// NewSimpleScene creates a single diffuse sphere resting on a large ground sphere,
// seen from the origin looking down -z
func NewSimpleScene() *Scene {
	s := New("simple")
	s.Camera.ImageWidth = 400
	s.Camera.SamplesPerPixel = 16
	s.Camera.MaxDepth = 10

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
	)

	return s
}

// NewBouncingScene creates a row of spheres bobbing up and down at different phases,
// intended for animation renders
func NewBouncingScene() *Scene {
	s := New("bouncing")
	s.Camera.ImageWidth = 320
	s.Camera.SamplesPerPixel = 16
	s.Camera.MaxDepth = 12
	s.Camera.VFov = 30
	s.Camera.LookFrom = core.NewVec3(0, 2, 9)
	s.Camera.LookAt = core.NewVec3(0, 0.8, 0)
	s.Camera.FocusDistance = 9
	s.Camera.Animation = animation.Context{FramesPerSecond: 24, ShutterSpeed: 1.0 / 48}

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.45, 0.5, 0.45))))

	materials := []material.Material{
		material.NewLambertian(core.NewVec3(0.7, 0.2, 0.2)),
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.05),
		material.NewDielectric(1.5),
		material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3),
		material.NewLambertian(core.NewVec3(0.2, 0.3, 0.7)),
	}

	const radius = 0.5
	for i, mat := range materials {
		x := float64(i-len(materials)/2) * 1.3
		center := animation.AnimatedVec3{
			X: animation.NewStatic(x),
			// Lowest point rests on the ground
			Y: animation.NewSinusoidal(radius+0.6, 0.5, 0.6, float64(i)*math.Pi/4),
			Z: animation.NewStatic(0),
		}
		s.Add(geometry.NewAnimatedSphere(center, radius, mat))
	}

	return s
}
