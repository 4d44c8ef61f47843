package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-animated-raytracer/pkg/geometry"
	"github.com/df07/go-animated-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering. It is treated as read-only once rendering starts.
type Scene struct {
	Name   string
	World  geometry.Hittable
	Camera renderer.CameraConfig
}

// New creates an empty scene with the default camera
func New(name string) *Scene {
	return &Scene{
		Name:   name,
		World:  geometry.NewList(),
		Camera: renderer.DefaultCameraConfig(),
	}
}

// Add appends objects to the scene's world
func (s *Scene) Add(objects ...geometry.Hittable) {
	s.World.Add(objects...)
}

// GetWorld returns the root of the scene graph
func (s *Scene) GetWorld() geometry.Hittable {
	return s.World
}

// GetCameraConfig returns the camera configuration
func (s *Scene) GetCameraConfig() renderer.CameraConfig {
	return s.Camera
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.PrimitiveCount()
}

// builtins maps scene names to their constructors
var builtins = map[string]func() *Scene{
	"default":  func() *Scene { return NewDefaultScene(DefaultSeed) },
	"simple":   NewSimpleScene,
	"bouncing": NewBouncingScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin creates the built-in scene with the given name
func Builtin(name string) (*Scene, error) {
	create, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return create(), nil
}
