package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/geometry"
	"github.com/df07/go-animated-raytracer/pkg/material"
	"github.com/df07/go-animated-raytracer/pkg/renderer"
	"github.com/df07/go-animated-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Time         float64                `json:"time"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	Time      float64
	HitRecord material.HitRecord
	Sphere    geometry.Sphere
	HasSphere bool
}

// inspectPixel casts the first camera ray of a pixel and reports what it hits.
// The ray matches the first sample the renderer takes for that pixel and frame.
func inspectPixel(sceneObj *scene.Scene, seed uint64, frame, pixelX, pixelY int) InspectResult {
	camera := renderer.NewCamera(sceneObj.Camera)
	pixelIndex := pixelY*camera.ImageWidth() + pixelX
	sampler := core.NewPixelSampler(seed, frame, pixelIndex)
	ray := camera.GetRay(pixelX, pixelY, frame, sampler)

	hit, isHit := sceneObj.World.Hit(ray, renderer.HitRange)
	if !isHit {
		return InspectResult{Hit: false, Time: ray.Time}
	}

	sphere, found := findSphere(sceneObj.World, ray, hit.T)
	return InspectResult{
		Hit:       true,
		Time:      ray.Time,
		HitRecord: hit,
		Sphere:    sphere,
		HasSphere: found,
	}
}

// findSphere returns the sphere that produced the hit at distance t
func findSphere(h geometry.Hittable, ray core.Ray, t float64) (geometry.Sphere, bool) {
	if sphere, ok := h.SphereData(); ok {
		if rec, hit := sphere.Hit(ray, renderer.HitRange); hit && rec.T == t {
			return sphere, true
		}
		return geometry.Sphere{}, false
	}

	for _, child := range h.Children() {
		if sphere, ok := findSphere(child, ray, t); ok {
			return sphere, true
		}
	}
	return geometry.Sphere{}, false
}

// extractMaterialInfo extracts material properties by kind
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
	case material.KindMetal:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractionIndex"] = mat.RefractionIndex
		properties["color"] = "#ffffff" // Clear glass
	}

	return mat.Kind.String(), properties
}

// extractGeometryInfo extracts sphere properties at the given scene time
func extractGeometryInfo(sphere geometry.Sphere, time float64) (string, map[string]interface{}) {
	return "sphere", map[string]interface{}{
		"center":   vecArray(sphere.Center.ValueAt(time)),
		"radius":   sphere.Radius,
		"animated": !sphere.Center.IsStatic(),
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.setupScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	camera := renderer.NewCamera(sceneObj.Camera)
	if pixelX < 0 || pixelX >= camera.ImageWidth() || pixelY < 0 || pixelY >= camera.ImageHeight() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, req.Seed, req.StartFrame, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Time: result.Time})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := "unknown", map[string]interface{}{}
	if result.HasSphere {
		geometryType, geometryProps = extractGeometryInfo(result.Sphere, result.Time)
	}

	hit := result.HitRecord
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Time:         result.Time,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	channel := func(v float64) int {
		return int(math.Max(0, math.Min(1, v)) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X), channel(c.Y), channel(c.Z))
}
