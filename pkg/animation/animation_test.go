package animation

import (
	"math"
	"testing"

	"github.com/df07/go-animated-raytracer/pkg/core"
)

func TestAnimatedValue_ValueAt(t *testing.T) {
	tests := []struct {
		name     string
		value    AnimatedValue
		time     float64
		expected float64
	}{
		{"static", NewStatic(3), 10, 3},
		{"sinusoid at zero", NewSinusoidal(1, 2, 0.5, 0), 0, 1},
		{"sinusoid quarter period", NewSinusoidal(1, 1, 0.5, 0), 0.25, 1.5},
		{"sinusoid three quarters", NewSinusoidal(1, 1, 0.5, 0), 0.75, 0.5},
		{"sinusoid with phase", NewSinusoidal(0, 1, 2, math.Pi/2), 0, 2},
		{"zero amplitude", NewSinusoidal(4, 3, 0, 1), 0.3, 4},
		{"linear start", NewLinear(0, 2), 0, 0},
		{"linear midpoint", NewLinear(0, 2), 0.5, 1},
		{"linear held after end", NewLinear(0, 2), 5, 2},
		{"linear held before start", NewLinear(0, 2), -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.value.ValueAt(tt.time)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestAnimatedValue_StaticEquivalence(t *testing.T) {
	static := NewStatic(2.5)
	flat := NewSinusoidal(2.5, 7, 0, 0)

	if static.ValueAt(0) != flat.ValueAt(0) {
		t.Errorf("Zero amplitude sinusoid should equal static at t=0: %f vs %f", flat.ValueAt(0), static.ValueAt(0))
	}
	if !flat.IsStatic() {
		t.Error("Zero amplitude sinusoid should report static")
	}
	if NewSinusoidal(0, 1, 1, 0).IsStatic() {
		t.Error("Moving sinusoid should not report static")
	}
}

func TestAnimatedVec3_IndependentAxes(t *testing.T) {
	v := AnimatedVec3{
		X: NewSinusoidal(0, 1, 1, 0),
		Y: NewStatic(5),
		Z: NewLinear(-1, 1),
	}

	got := v.ValueAt(0.25)
	expected := core.NewVec3(1, 5, -0.5)
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	if !StaticVec3(core.NewVec3(1, 2, 3)).IsStatic() {
		t.Error("StaticVec3 should be static")
	}
	if v.IsStatic() {
		t.Error("Animated vector should not be static")
	}
}

func TestContext_ShutterInterval(t *testing.T) {
	ctx := Context{FramesPerSecond: 25, ShutterSpeed: 0.01}

	if got := ctx.TimeAtFrame(50); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("Expected frame 50 at 2s, got %f", got)
	}

	shutter := ctx.ShutterInterval(50)
	if math.Abs(shutter.Min-2.0) > 1e-12 || math.Abs(shutter.Max-2.01) > 1e-12 {
		t.Errorf("Expected shutter [2, 2.01], got [%f, %f]", shutter.Min, shutter.Max)
	}

	zeroFPS := Context{FramesPerSecond: 0}
	if zeroFPS.TimeAtFrame(3) != 3 {
		t.Errorf("Expected non-positive fps to fall back to 1, got %f", zeroFPS.TimeAtFrame(3))
	}
}
