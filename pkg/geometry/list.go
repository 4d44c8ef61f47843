package geometry

import (
	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/material"
)

// hitList scans every child linearly, shrinking the search range to the closest hit so far
func hitList(children []Hittable, ray core.Ray, rayT core.Interval) (material.HitRecord, bool) {
	var closestHit material.HitRecord
	closestSoFar := rayT.Max
	hitAnything := false

	for _, child := range children {
		if hit, isHit := child.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
