package sampler

import (
	"context"

	"github.com/jmylchreest/subtinct/internal/subtitle"
)

// Func adapts a function to the Sampler interface. It never spawns a process.
type Func func(ctx context.Context, video string, at subtitle.Timestamp) (Brightness, error)

// Sample calls f.
func (f Func) Sample(ctx context.Context, video string, at subtitle.Timestamp) (Brightness, error) {
	return f(ctx, video, at)
}

// Strategy reports NearestKeyframe; Func has no seek behaviour of its own.
func (f Func) Strategy() Strategy {
	return NearestKeyframe
}

// Fixed returns a Sampler that reports b for every timestamp.
func Fixed(b Brightness) Sampler {
	return Func(func(context.Context, string, subtitle.Timestamp) (Brightness, error) {
		return b, nil
	})
}
