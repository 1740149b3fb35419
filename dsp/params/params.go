// Package params declares the entrope parameter set and provides a
// lock-free store for sharing parameter values between a control
// thread (host automation, UI) and the audio processing thread.
//
// The processing side only ever reads a Snapshot, once per block; it
// never mutates parameter state. Writers clamp values into the declared
// ranges so the pipeline never observes out-of-range input.
package params

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/andrew-r-thomas/entrope/dsp/core"
)

// Declared parameter ranges and defaults.
const (
	MinCrush     = 2.0
	MaxCrush     = 32.0
	DefaultCrush = 32.0

	MinRedux     = 1
	MaxRedux     = 100
	DefaultRedux = 1

	MinEntropy     = 1
	MaxEntropy     = 100
	DefaultEntropy = 1

	MinClip     = 0.0
	MaxClip     = 1.0
	DefaultClip = 1.0
)

// Snapshot is a read-only view of the parameter values for one
// processing call.
type Snapshot struct {
	// Crush is the quantization depth in fractional bits, [2, 32].
	Crush float64
	// Redux is the sample-and-hold decimation factor, [1, 100].
	// 1 means no decimation.
	Redux int
	// Entropy bounds the random crush-depth divisor, [1, 100].
	// 1 means no randomization.
	Entropy int
	// Clip scales the per-block peak values into clamp thresholds,
	// [0, 1]. 1 disables the clipping stage.
	Clip float64
}

// Default returns a Snapshot holding every parameter's default value.
func Default() Snapshot {
	return Snapshot{
		Crush:   DefaultCrush,
		Redux:   DefaultRedux,
		Entropy: DefaultEntropy,
		Clip:    DefaultClip,
	}
}

// Source supplies parameter snapshots to the processing thread.
// Snapshot must not block and must be safe to call concurrently with
// writers.
type Source interface {
	Snapshot() Snapshot
}

// Store holds the current parameter values behind atomics. Reads and
// writes are lock-free; torn multi-parameter updates are acceptable
// because each processing call samples the parameters exactly once.
type Store struct {
	crush   atomic.Uint64 // float64 bits
	redux   atomic.Int64
	entropy atomic.Int64
	clip    atomic.Uint64 // float64 bits
}

// NewStore returns a Store initialized to the default parameter values.
func NewStore() *Store {
	s := &Store{}
	s.crush.Store(math.Float64bits(DefaultCrush))
	s.redux.Store(DefaultRedux)
	s.entropy.Store(DefaultEntropy)
	s.clip.Store(math.Float64bits(DefaultClip))
	return s
}

// Snapshot returns the current parameter values. It never blocks.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Crush:   math.Float64frombits(s.crush.Load()),
		Redux:   int(s.redux.Load()),
		Entropy: int(s.entropy.Load()),
		Clip:    math.Float64frombits(s.clip.Load()),
	}
}

// SetCrush stores the crush depth, clamped to [MinCrush, MaxCrush].
// Non-finite values are rejected.
func (s *Store) SetCrush(v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("params: crush must be finite: %f", v)
	}

	s.crush.Store(math.Float64bits(core.Clamp(v, MinCrush, MaxCrush)))
	return nil
}

// SetRedux stores the decimation factor, clamped to [MinRedux, MaxRedux].
func (s *Store) SetRedux(v int) {
	s.redux.Store(int64(core.ClampInt(v, MinRedux, MaxRedux)))
}

// SetEntropy stores the randomization bound, clamped to
// [MinEntropy, MaxEntropy].
func (s *Store) SetEntropy(v int) {
	s.entropy.Store(int64(core.ClampInt(v, MinEntropy, MaxEntropy)))
}

// SetClip stores the clip scale, clamped to [MinClip, MaxClip].
// Non-finite values are rejected.
func (s *Store) SetClip(v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("params: clip must be finite: %f", v)
	}

	s.clip.Store(math.Float64bits(core.Clamp(v, MinClip, MaxClip)))
	return nil
}
