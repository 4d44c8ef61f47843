package geometry

import (
	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/material"
)

// Kind identifies the variant held by a Hittable
type Kind int

const (
	// KindSphere is a single (possibly moving) sphere
	KindSphere Kind = iota
	// KindList is an ordered group of hittables
	KindList
)

// String returns the persisted name of the kind
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Hittable is anything a ray can intersect: a sphere primitive or a group of hittables.
// Hittables form a tree built top-down; a list never contains one of its ancestors.
type Hittable struct {
	kind     Kind
	sphere   Sphere
	children []Hittable
}

// NewList creates a group containing the given children
func NewList(children ...Hittable) Hittable {
	return Hittable{kind: KindList, children: children}
}

// Kind returns which variant this hittable holds
func (h Hittable) Kind() Kind {
	return h.kind
}

// Hit tests the ray against this hittable for parameters in rayT and returns the closest hit
func (h Hittable) Hit(ray core.Ray, rayT core.Interval) (material.HitRecord, bool) {
	switch h.kind {
	case KindSphere:
		return h.sphere.Hit(ray, rayT)
	case KindList:
		return hitList(h.children, ray, rayT)
	default:
		return material.HitRecord{}, false
	}
}

// SphereData returns the sphere held by a sphere hittable
func (h Hittable) SphereData() (Sphere, bool) {
	return h.sphere, h.kind == KindSphere
}

// Children returns the direct children of a list (nil for a sphere)
func (h Hittable) Children() []Hittable {
	return h.children
}

// Len returns the number of direct children of a list
func (h Hittable) Len() int {
	return len(h.children)
}

// Add appends children to a list. It has no effect on a sphere.
func (h *Hittable) Add(children ...Hittable) {
	if h.kind != KindList {
		return
	}
	h.children = append(h.children, children...)
}

// PrimitiveCount returns the number of spheres in the subtree
func (h Hittable) PrimitiveCount() int {
	if h.kind == KindSphere {
		return 1
	}
	count := 0
	for _, child := range h.children {
		count += child.PrimitiveCount()
	}
	return count
}
