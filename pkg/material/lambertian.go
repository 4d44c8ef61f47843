package material

import (
	"github.com/df07/go-animated-raytracer/pkg/core"
)

// scatterLambertian bounces the ray in a cosine-weighted direction around the normal
func (m Material) scatterLambertian(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction when the sample nearly cancels the normal
	if scatterDirection.IsNearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRayWithTime(hit.Point, scatterDirection, rayIn.Time),
		Attenuation: m.Albedo,
	}, true
}
