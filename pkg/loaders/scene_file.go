package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-animated-raytracer/pkg/animation"
	"github.com/df07/go-animated-raytracer/pkg/core"
	"github.com/df07/go-animated-raytracer/pkg/geometry"
	"github.com/df07/go-animated-raytracer/pkg/material"
	"github.com/df07/go-animated-raytracer/pkg/renderer"
	"github.com/df07/go-animated-raytracer/pkg/scene"
)

// ErrUnknownType is returned when a scene file names an object or material type that does not exist
var ErrUnknownType = errors.New("unknown type")

// sceneFile is the on-disk layout of a scene
type sceneFile struct {
	Name   string        `yaml:"name"`
	Camera cameraDTO     `yaml:"camera"`
	World  []hittableDTO `yaml:"world"`
}

type cameraDTO struct {
	AspectRatio     float64      `yaml:"aspect_ratio"`
	ImageWidth      int          `yaml:"image_width"`
	SamplesPerPixel int          `yaml:"samples_per_pixel"`
	MaxDepth        int          `yaml:"max_depth"`
	VFov            float64      `yaml:"vfov"`
	LookFrom        []float64    `yaml:"look_from,flow"`
	LookAt          []float64    `yaml:"look_at,flow"`
	Up              []float64    `yaml:"up,flow"`
	DefocusAngle    float64      `yaml:"defocus_angle"`
	FocusDistance   float64      `yaml:"focus_distance"`
	Animation       animationDTO `yaml:"animation"`
}

type animationDTO struct {
	FramesPerSecond int     `yaml:"frames_per_second"`
	ShutterSpeed    float64 `yaml:"shutter_speed"`
}

type hittableDTO struct {
	Type     string             `yaml:"type"`
	Center   []animatedValueDTO `yaml:"center,omitempty,flow"`
	Radius   float64            `yaml:"radius,omitempty"`
	Material *materialDTO       `yaml:"material,omitempty"`
	Children []hittableDTO      `yaml:"children,omitempty"`
}

type materialDTO struct {
	Type            string    `yaml:"type"`
	Albedo          []float64 `yaml:"albedo,omitempty,flow"`
	Fuzz            float64   `yaml:"fuzz,omitempty"`
	RefractionIndex float64   `yaml:"refraction_index,omitempty"`
}

// animatedValueDTO accepts either a plain number or a mapping describing the animation
type animatedValueDTO struct {
	value animation.AnimatedValue
}

type sinusoidalDTO struct {
	Baseline  float64 `yaml:"baseline"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	Phase     float64 `yaml:"phase"`
}

type linearDTO struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

// UnmarshalYAML implements yaml.Unmarshaler
func (a *animatedValueDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: animated value: %w", node.Line, err)
		}
		a.value = animation.NewStatic(v)
		return nil

	case yaml.MappingNode:
		var keys map[string]float64
		if err := node.Decode(&keys); err != nil {
			return fmt.Errorf("line %d: animated value: %w", node.Line, err)
		}
		_, hasFrom := keys["from"]
		_, hasTo := keys["to"]
		if hasFrom || hasTo {
			var l linearDTO
			if err := node.Decode(&l); err != nil {
				return err
			}
			a.value = animation.NewLinear(l.From, l.To)
			return nil
		}
		var s sinusoidalDTO
		if err := node.Decode(&s); err != nil {
			return err
		}
		a.value = animation.NewSinusoidal(s.Baseline, s.Frequency, s.Amplitude, s.Phase)
		return nil

	default:
		return fmt.Errorf("line %d: animated value must be a number or a mapping", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler
func (a animatedValueDTO) MarshalYAML() (interface{}, error) {
	v := a.value
	switch v.Kind {
	case animation.Sinusoidal:
		return sinusoidalDTO{Baseline: v.Baseline, Frequency: v.Frequency, Amplitude: v.Amplitude, Phase: v.Phase}, nil
	case animation.Linear:
		return linearDTO{From: v.From, To: v.To}, nil
	default:
		return v.Baseline, nil
	}
}

// LoadScene reads a scene file. A missing file yields an error matching fs.ErrNotExist.
func LoadScene(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}

	s, err := ParseScene(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), scene.FileExtension)
	}
	return s, nil
}

// ParseScene decodes a scene description. Camera fields that are left out keep their defaults.
func ParseScene(r io.Reader) (*scene.Scene, error) {
	file := sceneFile{Camera: cameraToDTO(renderer.DefaultCameraConfig())}

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene description")
		}
		return nil, err
	}

	camera, err := cameraFromDTO(file.Camera)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	s := scene.New(file.Name)
	s.Camera = camera
	for i, dto := range file.World {
		object, err := hittableFromDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("world[%d]: %w", i, err)
		}
		s.Add(object)
	}

	return s, nil
}

// SaveScene writes the scene to path, creating parent directories as needed
func SaveScene(path string, s *scene.Scene) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create scene directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := EncodeScene(&buf, s); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// EncodeScene writes the scene description with a metadata header
func EncodeScene(w io.Writer, s *scene.Scene) error {
	file := sceneFile{
		Name:   s.Name,
		Camera: cameraToDTO(s.Camera),
	}
	for _, child := range s.World.Children() {
		file.World = append(file.World, hittableToDTO(child))
	}

	if _, err := fmt.Fprintf(w, "# Scene: %s\n", s.Name); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return encoder.Close()
}

func cameraToDTO(c renderer.CameraConfig) cameraDTO {
	return cameraDTO{
		AspectRatio:     c.AspectRatio,
		ImageWidth:      c.ImageWidth,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		VFov:            c.VFov,
		LookFrom:        vecToSlice(c.LookFrom),
		LookAt:          vecToSlice(c.LookAt),
		Up:              vecToSlice(c.Up),
		DefocusAngle:    c.DefocusAngle,
		FocusDistance:   c.FocusDistance,
		Animation: animationDTO{
			FramesPerSecond: c.Animation.FramesPerSecond,
			ShutterSpeed:    c.Animation.ShutterSpeed,
		},
	}
}

func cameraFromDTO(dto cameraDTO) (renderer.CameraConfig, error) {
	lookFrom, err := sliceToVec("look_from", dto.LookFrom)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	lookAt, err := sliceToVec("look_at", dto.LookAt)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	up, err := sliceToVec("up", dto.Up)
	if err != nil {
		return renderer.CameraConfig{}, err
	}

	return renderer.CameraConfig{
		AspectRatio:     dto.AspectRatio,
		ImageWidth:      dto.ImageWidth,
		SamplesPerPixel: dto.SamplesPerPixel,
		MaxDepth:        dto.MaxDepth,
		VFov:            dto.VFov,
		LookFrom:        lookFrom,
		LookAt:          lookAt,
		Up:              up,
		DefocusAngle:    dto.DefocusAngle,
		FocusDistance:   dto.FocusDistance,
		Animation: animation.Context{
			FramesPerSecond: dto.Animation.FramesPerSecond,
			ShutterSpeed:    dto.Animation.ShutterSpeed,
		},
	}, nil
}

func hittableToDTO(h geometry.Hittable) hittableDTO {
	if sphere, ok := h.SphereData(); ok {
		mat := materialToDTO(sphere.Material)
		return hittableDTO{
			Type: geometry.KindSphere.String(),
			Center: []animatedValueDTO{
				{value: sphere.Center.X},
				{value: sphere.Center.Y},
				{value: sphere.Center.Z},
			},
			Radius:   sphere.Radius,
			Material: &mat,
		}
	}

	dto := hittableDTO{Type: geometry.KindList.String()}
	for _, child := range h.Children() {
		dto.Children = append(dto.Children, hittableToDTO(child))
	}
	return dto
}

func hittableFromDTO(dto hittableDTO) (geometry.Hittable, error) {
	switch dto.Type {
	case geometry.KindSphere.String():
		if len(dto.Center) != 3 {
			return geometry.Hittable{}, fmt.Errorf("sphere center requires 3 components, got %d", len(dto.Center))
		}
		if dto.Material == nil {
			return geometry.Hittable{}, fmt.Errorf("sphere requires a material")
		}
		mat, err := materialFromDTO(*dto.Material)
		if err != nil {
			return geometry.Hittable{}, err
		}
		center := animation.AnimatedVec3{X: dto.Center[0].value, Y: dto.Center[1].value, Z: dto.Center[2].value}
		return geometry.NewAnimatedSphere(center, dto.Radius, mat), nil

	case geometry.KindList.String():
		list := geometry.NewList()
		for i, child := range dto.Children {
			object, err := hittableFromDTO(child)
			if err != nil {
				return geometry.Hittable{}, fmt.Errorf("children[%d]: %w", i, err)
			}
			list.Add(object)
		}
		return list, nil

	default:
		return geometry.Hittable{}, fmt.Errorf("%w: object %q", ErrUnknownType, dto.Type)
	}
}

func materialToDTO(m material.Material) materialDTO {
	dto := materialDTO{Type: m.Kind.String()}
	switch m.Kind {
	case material.KindLambertian:
		dto.Albedo = vecToSlice(m.Albedo)
	case material.KindMetal:
		dto.Albedo = vecToSlice(m.Albedo)
		dto.Fuzz = m.Fuzz
	case material.KindDielectric:
		dto.RefractionIndex = m.RefractionIndex
	}
	return dto
}

func materialFromDTO(dto materialDTO) (material.Material, error) {
	kind, err := material.ParseKind(dto.Type)
	if err != nil {
		return material.Material{}, fmt.Errorf("%w: material %q", ErrUnknownType, dto.Type)
	}

	switch kind {
	case material.KindLambertian:
		albedo, err := sliceToVec("albedo", dto.Albedo)
		if err != nil {
			return material.Material{}, err
		}
		return material.NewLambertian(albedo), nil
	case material.KindMetal:
		albedo, err := sliceToVec("albedo", dto.Albedo)
		if err != nil {
			return material.Material{}, err
		}
		return material.NewMetal(albedo, dto.Fuzz), nil
	default:
		return material.NewDielectric(dto.RefractionIndex), nil
	}
}

func vecToSlice(v core.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func sliceToVec(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s requires 3 components, got %d", field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}
