package material

import "github.com/df07/go-animated-raytracer/pkg/core"

// fixedSampler replays a fixed sequence of values, cycling when exhausted
type fixedSampler struct {
	values []float64
	next   int
}

func newFixedSampler(values ...float64) *fixedSampler {
	return &fixedSampler{values: values}
}

func (f *fixedSampler) Get1D() float64 {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

func (f *fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.Get1D(), f.Get1D())
}

func (f *fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(f.Get1D(), f.Get1D(), f.Get1D())
}

// allMaterials returns one material of each kind
func allMaterials() map[string]Material {
	return map[string]Material{
		"lambertian": NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
		"metal":      NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3),
		"dielectric": NewDielectric(1.5),
	}
}
