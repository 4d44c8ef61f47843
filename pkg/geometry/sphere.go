package geometry

import (
	"math"

	"github.com/df07/go-animated-raytracer/pkg/animation"
	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/material"
)

// Sphere represents a sphere whose center may move over time
type Sphere struct {
	Center   animation.AnimatedVec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a stationary sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) Hittable {
	return NewAnimatedSphere(animation.StaticVec3(center), radius, mat)
}

// NewMovingSphere creates a sphere travelling from center0 to center1 over the unit time interval
func NewMovingSphere(center0, center1 core.Vec3, radius float64, mat material.Material) Hittable {
	return NewAnimatedSphere(animation.LinearVec3(center0, center1), radius, mat)
}

// NewAnimatedSphere creates a sphere with an animated center. Negative radii are clamped to 0.
func NewAnimatedSphere(center animation.AnimatedVec3, radius float64, mat material.Material) Hittable {
	return Hittable{
		kind: KindSphere,
		sphere: Sphere{
			Center:   center,
			Radius:   max(radius, 0),
			Material: mat,
		},
	}
}

// Hit tests if a ray intersects with the sphere at the ray's time
func (s Sphere) Hit(ray core.Ray, rayT core.Interval) (material.HitRecord, bool) {
	center := s.Center.ValueAt(ray.Time)

	// Vector from ray origin to sphere center
	oc := center.Subtract(ray.Origin)

	// Quadratic a*t² - 2h*t + c = 0
	a := ray.Direction.LengthSquared()
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 || a == 0 {
		return material.HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Find the nearest root that lies strictly inside the acceptable range
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return material.HitRecord{}, false
		}
	}

	hit := material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	var outwardNormal core.Vec3
	if s.Radius > 0 {
		outwardNormal = hit.Point.Subtract(center).Divide(s.Radius)
	} else {
		// A point sphere has no surface direction; face the incoming ray
		outwardNormal = ray.Direction.Normalize().Negate()
	}
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}
