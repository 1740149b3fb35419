// Package render drives the crush pipeline over an interleaved sample
// stream at a fixed block cadence, standing in for a plugin host's
// processing callback: one parameter snapshot per block, a mutable
// block handed to the pipeline, and a status checked on return.
package render

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/andrew-r-thomas/entrope/dsp/block"
	"github.com/andrew-r-thomas/entrope/dsp/crush"
	"github.com/andrew-r-thomas/entrope/dsp/params"
)

const (
	defaultBlockSize = 512
	defaultChannels  = 2
	maxBlockSize     = 1 << 16
)

// Option configures a Renderer.
type Option func(*Renderer) error

// WithBlockSize sets the processing block size in frames. Smaller
// blocks give finer parameter automation granularity at the cost of
// more per-block overhead. Range: [1, 65536].
func WithBlockSize(frames int) Option {
	return func(r *Renderer) error {
		if frames < 1 || frames > maxBlockSize {
			return fmt.Errorf("render: block size must be in [1, %d]: %d", maxBlockSize, frames)
		}

		r.blockSize = frames

		return nil
	}
}

// WithChannels sets the channel count. Mono and stereo layouts are
// supported.
func WithChannels(channels int) Option {
	return func(r *Renderer) error {
		if channels != 1 && channels != 2 {
			return fmt.Errorf("render: channel count must be 1 or 2: %d", channels)
		}

		r.channels = channels

		return nil
	}
}

// WithMix sets the dry/wet mix in [0, 1]. 1 (the default) is fully
// wet. The mix is applied outside the pipeline so the degraded path
// stays bit-exact.
func WithMix(mix float64) Option {
	return func(r *Renderer) error {
		if mix < 0 || mix > 1 {
			return fmt.Errorf("render: mix must be in [0, 1]: %f", mix)
		}

		r.mix = mix

		return nil
	}
}

// Renderer owns the preallocated block views and scratch buffers for
// an offline render. It is not safe for concurrent use.
type Renderer struct {
	crusher *crush.Crusher
	source  params.Source

	blockSize int
	channels  int
	mix       float64

	// views are resliced per block so the same Block can present
	// partial final blocks without reallocation.
	views [][]float64
	blk   *block.Block
	dry   [][]float64
	tmp   []float64
}

// New creates a Renderer reading parameters from source and degrading
// audio through crusher.
func New(source params.Source, crusher *crush.Crusher, opts ...Option) (*Renderer, error) {
	if source == nil {
		return nil, fmt.Errorf("render: source must not be nil")
	}
	if crusher == nil {
		return nil, fmt.Errorf("render: crusher must not be nil")
	}

	r := &Renderer{
		crusher:   crusher,
		source:    source,
		blockSize: defaultBlockSize,
		channels:  defaultChannels,
		mix:       1,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.views = make([][]float64, r.channels)
	r.dry = make([][]float64, r.channels)

	for c := range r.views {
		r.views[c] = make([]float64, r.blockSize)
		r.dry[c] = make([]float64, r.blockSize)
	}

	blk, err := block.FromChannels(r.views)
	if err != nil {
		return nil, fmt.Errorf("render: init block: %w", err)
	}

	r.blk = blk
	r.tmp = make([]float64, r.blockSize)

	return r, nil
}

// BlockSize returns the block size in frames.
func (r *Renderer) BlockSize() int { return r.blockSize }

// Channels returns the channel count.
func (r *Renderer) Channels() int { return r.channels }

// Mix returns the dry/wet mix in [0, 1].
func (r *Renderer) Mix() float64 { return r.mix }

// ProcessInterleaved degrades samples in place. The slice holds
// frame-interleaved audio matching the configured channel count; its
// length must be a whole number of frames. The final block may be
// shorter than the configured block size.
//
// The pipeline's sample-and-hold state starts fresh on every block, so
// the block size is audible at high redux settings; callers that need
// a specific decimation texture should choose the block size to match
// the host they are emulating.
func (r *Renderer) ProcessInterleaved(samples []float64) error {
	if len(samples)%r.channels != 0 {
		return fmt.Errorf("render: sample count %d is not a whole number of %d-channel frames",
			len(samples), r.channels)
	}

	totalFrames := len(samples) / r.channels

	for start := 0; start < totalFrames; start += r.blockSize {
		frames := r.blockSize
		if start+frames > totalFrames {
			frames = totalFrames - start
		}

		chunk := samples[start*r.channels : (start+frames)*r.channels]

		// Reslice the shared views; blk observes the new lengths.
		for c := range r.views {
			r.views[c] = r.views[c][:frames]
		}

		r.blk.SetInterleaved(chunk)

		if r.mix < 1 {
			for c := range r.views {
				copy(r.dry[c][:frames], r.views[c])
			}
		}

		snap := r.source.Snapshot()

		if status := r.crusher.Process(snap, r.blk); status != crush.StatusNormal {
			return fmt.Errorf("render: pipeline reported %v at frame %d", status, start)
		}

		if r.mix < 1 {
			for c := range r.views {
				vecmath.ScaleBlock(r.views[c], r.views[c], r.mix)
				vecmath.ScaleBlock(r.tmp[:frames], r.dry[c][:frames], 1-r.mix)
				vecmath.AddBlockInPlace(r.views[c], r.tmp[:frames])
			}
		}

		r.blk.Interleaved(chunk)

		// Restore full-length views for the next block.
		for c := range r.views {
			r.views[c] = r.views[c][:r.blockSize]
		}
	}

	return nil
}
