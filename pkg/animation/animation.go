// Package animation describes scene properties as pure functions of time.
package animation

import (
	"math"

	"github.com/df07/go-animated-raytracer/pkg/core"
)

// Kind identifies the variant of an AnimatedValue
type Kind int

const (
	// Static values never change
	Static Kind = iota
	// Sinusoidal values oscillate around a baseline
	Sinusoidal
	// Linear values move from one value to another over the unit time interval
	Linear
)

// String returns the persisted name of the kind
func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Sinusoidal:
		return "sinusoidal"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// AnimatedValue is a scalar evaluated at a point in time.
// Only the fields relevant to Kind are meaningful.
type AnimatedValue struct {
	Kind Kind

	// Static value, and the sinusoid's centre line
	Baseline float64

	// Sinusoidal parameters: baseline + amplitude*sin(2π*frequency*t + phase)
	Frequency float64
	Amplitude float64
	Phase     float64

	// Linear endpoints
	From, To float64
}

// NewStatic creates a value that is constant over time
func NewStatic(value float64) AnimatedValue {
	return AnimatedValue{Kind: Static, Baseline: value}
}

// NewSinusoidal creates a value oscillating around baseline
func NewSinusoidal(baseline, frequency, amplitude, phase float64) AnimatedValue {
	return AnimatedValue{
		Kind:      Sinusoidal,
		Baseline:  baseline,
		Frequency: frequency,
		Amplitude: amplitude,
		Phase:     phase,
	}
}

// NewLinear creates a value moving from `from` at t=0 to `to` at t=1, held outside that range
func NewLinear(from, to float64) AnimatedValue {
	return AnimatedValue{Kind: Linear, From: from, To: to}
}

// ValueAt evaluates the value at time t (seconds)
func (a AnimatedValue) ValueAt(t float64) float64 {
	switch a.Kind {
	case Sinusoidal:
		return a.Baseline + a.Amplitude*math.Sin(2*math.Pi*a.Frequency*t+a.Phase)
	case Linear:
		return a.From + (a.To-a.From)*core.NewInterval(0, 1).Clamp(t)
	default:
		return a.Baseline
	}
}

// IsStatic reports whether the value is the same at every time
func (a AnimatedValue) IsStatic() bool {
	switch a.Kind {
	case Sinusoidal:
		return a.Amplitude == 0
	case Linear:
		return a.From == a.To
	default:
		return true
	}
}

// AnimatedVec3 animates each axis independently
type AnimatedVec3 struct {
	X, Y, Z AnimatedValue
}

// StaticVec3 creates an AnimatedVec3 fixed at v
func StaticVec3(v core.Vec3) AnimatedVec3 {
	return AnimatedVec3{X: NewStatic(v.X), Y: NewStatic(v.Y), Z: NewStatic(v.Z)}
}

// LinearVec3 creates an AnimatedVec3 moving in a straight line from `from` to `to` over t in [0, 1]
func LinearVec3(from, to core.Vec3) AnimatedVec3 {
	return AnimatedVec3{
		X: NewLinear(from.X, to.X),
		Y: NewLinear(from.Y, to.Y),
		Z: NewLinear(from.Z, to.Z),
	}
}

// ValueAt evaluates all three axes at time t
func (a AnimatedVec3) ValueAt(t float64) core.Vec3 {
	return core.NewVec3(a.X.ValueAt(t), a.Y.ValueAt(t), a.Z.ValueAt(t))
}

// IsStatic reports whether none of the axes move
func (a AnimatedVec3) IsStatic() bool {
	return a.X.IsStatic() && a.Y.IsStatic() && a.Z.IsStatic()
}

// Context maps frame numbers to scene time
type Context struct {
	FramesPerSecond int     // Frames rendered per second of scene time
	ShutterSpeed    float64 // Seconds the shutter stays open per frame
}

// DefaultContext returns 24 fps with a closed shutter (no motion blur)
func DefaultContext() Context {
	return Context{FramesPerSecond: 24, ShutterSpeed: 0}
}

// TimeAtFrame returns the scene time at which the frame's shutter opens.
// A non-positive frame rate is treated as 1 fps.
func (c Context) TimeAtFrame(frame int) float64 {
	fps := c.FramesPerSecond
	if fps <= 0 {
		fps = 1
	}
	return float64(frame) / float64(fps)
}

// ShutterInterval returns the span of ray times sampled for the frame
func (c Context) ShutterInterval(frame int) core.Interval {
	start := c.TimeAtFrame(frame)
	return core.NewInterval(start, start+c.ShutterSpeed)
}
