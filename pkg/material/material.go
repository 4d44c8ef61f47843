package material

import (
	"fmt"

	"github.com/df07/go-animated-raytracer/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind int

const (
	// KindLambertian is a perfectly diffuse surface
	KindLambertian Kind = iota
	// KindMetal is a specular reflector with optional roughness
	KindMetal
	// KindDielectric is clear glass-like material that reflects and refracts
	KindDielectric
)

// String returns the persisted name of the kind
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a persisted name back to a Kind
func ParseKind(name string) (Kind, error) {
	switch name {
	case "lambertian":
		return KindLambertian, nil
	case "metal":
		return KindMetal, nil
	case "dielectric":
		return KindDielectric, nil
	default:
		return 0, fmt.Errorf("unknown material type %q", name)
	}
}

// Material is a small immutable value describing how light bounces off a surface.
// Only the fields used by Kind are meaningful. Materials are copied by value into hit records.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Lambertian and metal color
	Fuzz            float64   // Metal roughness, 0 = perfect mirror
	RefractionIndex float64   // Dielectric index of refraction (or ratio to the enclosing medium)
}

// NewLambertian creates a diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: KindLambertian, Albedo: albedo}
}

// NewMetal creates a metal material, clamping fuzz to be non-negative
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	return Material{Kind: KindMetal, Albedo: albedo, Fuzz: max(fuzz, 0)}
}

// NewDielectric creates a dielectric material. A non-positive index is replaced with 1 (no bending).
func NewDielectric(refractionIndex float64) Material {
	if refractionIndex <= 0 {
		refractionIndex = 1
	}
	return Material{Kind: KindDielectric, RefractionIndex: refractionIndex}
}

// Scatter decides whether the incoming ray continues after hitting the surface.
// It returns false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(rayIn, hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}
