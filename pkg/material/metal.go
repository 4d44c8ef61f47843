package material

import (
	"github.com/df07/go-animated-raytracer/pkg/core"
)

// scatterMetal reflects the ray about the normal, perturbed by the fuzz factor
func (m Material) scatterMetal(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Perturbation is added after normalizing so fuzz is relative to a unit reflection
	reflected := rayIn.Direction.Reflect(hit.Normal).Normalize()
	reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz))

	scattered := core.NewRayWithTime(hit.Point, reflected, rayIn.Time)

	// Rays fuzzed below the surface are absorbed
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, scatters
}
