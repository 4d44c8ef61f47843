package renderer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FrameSink receives each finished frame of an animation in order. Returning an error stops the animation.
type FrameSink func(frame *Frame, stats RenderStats) error

// FrameResult contains one finished frame of an animation
type FrameResult struct {
	Frame  *Frame
	Stats  RenderStats
	IsLast bool
}

// RenderAnimation renders frameCount frames starting at startFrame, handing each to sink.
// Cancellation is observed between frames; a frame that has started always completes.
func (rt *Raytracer) RenderAnimation(ctx context.Context, startFrame, frameCount int, sink FrameSink) error {
	rt.logger.Info("Starting animation",
		zap.Int("start", startFrame),
		zap.Int("frames", frameCount),
		zap.Int("width", rt.Width()),
		zap.Int("height", rt.Height()),
		zap.Int("workers", rt.options.Workers))

	for n := 0; n < frameCount; n++ {
		index := startFrame + n

		// Check for cancellation before starting this frame
		select {
		case <-ctx.Done():
			rt.logger.Info("Animation cancelled", zap.Int("frame", index))
			return ctx.Err()
		default:
		}

		frame, stats := rt.RenderFrame(index)

		rt.logger.Info("Frame completed",
			zap.Int("frame", index),
			zap.Int("samples", stats.Samples),
			zap.Duration("duration", stats.Duration),
			zap.Float64("luminance", frame.AverageLuminance()))

		if sink == nil {
			continue
		}
		if err := sink(frame, stats); err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}
	}

	return nil
}

// RenderAnimationAsync renders like RenderAnimation but delivers frames over a channel.
// Both channels are closed when rendering ends; at most one error is sent.
func (rt *Raytracer) RenderAnimationAsync(ctx context.Context, startFrame, frameCount int) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		last := startFrame + frameCount - 1
		err := rt.RenderAnimation(ctx, startFrame, frameCount, func(frame *Frame, stats RenderStats) error {
			select {
			case frameChan <- FrameResult{Frame: frame, Stats: stats, IsLast: frame.Index == last}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errChan <- err
		}
	}()

	return frameChan, errChan
}
