package renderer

import (
	"sync/atomic"
	"time"
)

// RenderStats contains statistics about the rendering of one frame
type RenderStats struct {
	Frame    int           // Index of the rendered frame
	Pixels   int           // Total number of pixels rendered
	Samples  int           // Total number of camera rays traced
	Tiles    int           // Number of tiles the frame was split into
	Workers  int           // Number of parallel workers used
	Duration time.Duration // Wall time spent rendering
}

// SamplesPerSecond returns the camera ray throughput of the frame
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Samples) / s.Duration.Seconds()
}

// Progress counts completed pixels across every frame rendered with it.
// Increments may come from any number of workers and neither count ever decreases.
type Progress struct {
	completed atomic.Int64
	total     atomic.Int64
}

// NewProgress creates a progress counter expecting total pixels
func NewProgress(total int) *Progress {
	p := &Progress{}
	p.Expect(total)
	return p
}

// Expect adds n pixels to the expected total
func (p *Progress) Expect(n int) {
	p.total.Add(int64(n))
}

// Add records n more completed pixels
func (p *Progress) Add(n int) {
	p.completed.Add(int64(n))
}

// Completed returns the number of pixels finished so far
func (p *Progress) Completed() int {
	return int(p.completed.Load())
}

// Total returns the expected number of pixels
func (p *Progress) Total() int {
	return int(p.total.Load())
}

// Fraction returns completed / total in [0, 1]
func (p *Progress) Fraction() float64 {
	total := p.total.Load()
	if total <= 0 {
		return 0
	}
	return min(1, float64(p.completed.Load())/float64(total))
}
