// Package crush implements the entrope degradation pipeline: bit-depth
// quantization, sample-and-hold decimation, stochastic modulation of
// the quantization depth, and a dynamic amplitude clipper whose
// thresholds are derived from the block's own peaks.
//
// The pipeline is driven once per audio block by a host callback. It
// reads a parameter snapshot at the start of the call, mutates the
// block in place, and reports a status. The processing path performs
// no allocation, no blocking, and no synchronization; the host
// serializes calls per instance.
package crush

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/andrew-r-thomas/entrope/dsp/block"
	"github.com/andrew-r-thomas/entrope/dsp/params"
)

// Status is the per-call completion report returned to the host.
type Status int

const (
	// StatusNormal indicates the block was processed and playback
	// should continue. The pipeline defines no failure outcome, so
	// Process always reports StatusNormal.
	StatusNormal Status = iota
	// StatusError is reserved for drivers wrapping the pipeline in a
	// larger host contract.
	StatusError

	statusCount // sentinel for validation
)

var statusNames = [statusCount]string{"Normal", "Error"}

// String returns the name of the status.
func (s Status) String() string {
	if s >= 0 && s < statusCount {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Option configures a [Crusher].
type Option func(*Crusher) error

// WithRNG sets the random generator used by the entropy stage.
// Injecting a seeded generator makes the stochastic modulation
// reproducible for tests and offline renders.
func WithRNG(rng *rand.Rand) Option {
	return func(c *Crusher) error {
		if rng == nil {
			return fmt.Errorf("crush: rng must not be nil")
		}

		c.rng = rng

		return nil
	}
}

// Crusher owns the pipeline state: a process-lifetime random generator
// for the entropy stage. The generator is seeded once at construction
// and advances monotonically across calls; it is exclusively owned by
// the processing path and must not be shared with other goroutines.
type Crusher struct {
	rng *rand.Rand
}

// New creates a Crusher. Without options the entropy generator is
// seeded from the process entropy source, so runs are not reproducible.
func New(opts ...Option) (*Crusher, error) {
	c := &Crusher{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return c, nil
}

// Reset implements the host initialize/reset entry point. The pipeline
// keeps no state between blocks besides the random generator, which
// deliberately survives resets, so this is a no-op.
func (c *Crusher) Reset() {}

// QuantizationStep returns the amplitude grid spacing for a given
// crush depth in bits: 2^(-depth).
func QuantizationStep(depth float64) float64 {
	return 1.0 / math.Exp2(depth)
}

// quantize floors s onto the step grid. math.Mod keeps the sign of the
// dividend, so negative samples floor toward zero rather than -Inf;
// that asymmetry is part of the contract.
func quantize(s, step float64) float64 {
	return s - math.Mod(s, step)
}

// Process applies the pipeline to blk in place and reports completion.
//
// The stages run in a fixed order: the entropy stage perturbs the
// crush depth once for the whole block, the clipper thresholds are
// derived from a full scan of the unprocessed block, then every frame
// is quantized, decimated, and clamped in frame-major traversal.
//
// The decimator's held value starts at zero for every call and is
// shared across channels: at frames where the position test captures,
// each channel overwrites the cell in traversal order, so following
// frames hold the last channel's sample. The cross-channel bleed is
// part of the effect's character and must not be "fixed".
func (c *Crusher) Process(snap params.Snapshot, blk *block.Block) Status {
	depth := snap.Crush

	// One bounded draw per call. Entropy of 1 skips the draw entirely;
	// the half-open range [1, entropy) would otherwise be empty.
	if snap.Entropy > 1 {
		n := 1 + c.rng.IntN(snap.Entropy-1)
		depth /= float64(n)
	}

	if blk == nil {
		return StatusNormal
	}

	channels := blk.Channels()

	// Clip thresholds from the block's own peaks. Both accumulators
	// start at zero, so a block that never crosses zero in one
	// direction leaves that bound disabled. Note the swapped naming:
	// clipMax tracks the block minimum and acts as a floor, clipMin
	// tracks the maximum and acts as a ceiling.
	var clipMax, clipMin float64

	if snap.Clip < 1.0 {
		var max, min float64

		for _, ch := range channels {
			for _, s := range ch {
				if s < max {
					max = s
				}
				if s > min {
					min = s
				}
			}
		}

		clipMax = snap.Clip * max
		clipMin = snap.Clip * min
	}

	step := 1.0 / math.Exp2(depth)
	held := 0.0
	frames := blk.Frames()

	for i := 0; i < frames; i++ {
		for _, ch := range channels {
			s := quantize(ch[i], step)

			if snap.Redux > 1 {
				if i%snap.Redux != 0 {
					s = held
				} else {
					held = s
				}
			}

			if clipMax != 0 && s < clipMax {
				s = clipMax
			}
			if clipMin != 0 && s > clipMin {
				s = clipMin
			}

			ch[i] = s
		}
	}

	return StatusNormal
}

// ProcessChannel applies the pipeline to a single channel in place.
// It is a convenience wrapper over [Crusher.Process] for mono signals.
func (c *Crusher) ProcessChannel(snap params.Snapshot, samples []float64) Status {
	blk, err := block.FromChannels([][]float64{samples})
	if err != nil {
		return StatusError
	}

	return c.Process(snap, blk)
}
