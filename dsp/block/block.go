// Package block provides a mutable multichannel sample block for
// in-place DSP processing. A Block holds one float64 slice per audio
// channel, all of equal length; processors mutate the samples directly
// and leave the block playable on every exit path.
package block

import "fmt"

// Block is a rectangular collection of per-channel sample slices.
type Block struct {
	channels [][]float64
}

// New returns a zero-filled Block with the given channel count and
// frame count. Backing storage is one contiguous allocation.
func New(channels, frames int) *Block {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	backing := make([]float64, channels*frames)
	chs := make([][]float64, channels)
	for c := range chs {
		chs[c] = backing[c*frames : (c+1)*frames : (c+1)*frames]
	}

	return &Block{channels: chs}
}

// FromChannels wraps existing channel slices without copying.
// All slices must have equal length. Mutations through the Block are
// visible in the original slices and vice versa.
func FromChannels(channels [][]float64) (*Block, error) {
	for c := 1; c < len(channels); c++ {
		if len(channels[c]) != len(channels[0]) {
			return nil, fmt.Errorf("block: channel %d length %d does not match channel 0 length %d",
				c, len(channels[c]), len(channels[0]))
		}
	}

	return &Block{channels: channels}, nil
}

// Channels returns the underlying channel slices without copying.
func (b *Block) Channels() [][]float64 {
	return b.channels
}

// Channel returns the sample slice for channel c.
func (b *Block) Channel(c int) []float64 {
	return b.channels[c]
}

// NumChannels returns the channel count.
func (b *Block) NumChannels() int {
	return len(b.channels)
}

// Frames returns the per-channel sample count.
func (b *Block) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// Zero sets every sample in every channel to 0.
func (b *Block) Zero() {
	for _, ch := range b.channels {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// CopyFrom copies samples from src channel by channel, up to the
// smaller of the two blocks in each dimension. It returns the number
// of frames copied.
func (b *Block) CopyFrom(src *Block) int {
	frames := b.Frames()
	if src.Frames() < frames {
		frames = src.Frames()
	}

	channels := len(b.channels)
	if len(src.channels) < channels {
		channels = len(src.channels)
	}

	for c := 0; c < channels; c++ {
		copy(b.channels[c][:frames], src.channels[c][:frames])
	}

	return frames
}

// SetInterleaved fills the block from frame-interleaved samples
// (L R L R ... for stereo). It returns the number of frames written.
// Excess input samples are ignored; missing frames are left untouched.
func (b *Block) SetInterleaved(src []float64) int {
	channels := len(b.channels)
	if channels == 0 {
		return 0
	}

	frames := len(src) / channels
	if frames > b.Frames() {
		frames = b.Frames()
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			b.channels[c][i] = src[i*channels+c]
		}
	}

	return frames
}

// Interleaved writes the block contents into dst in frame-interleaved
// order and returns the number of frames written. dst must have room
// for NumChannels()*Frames() samples; shorter destinations receive a
// truncated number of whole frames.
func (b *Block) Interleaved(dst []float64) int {
	channels := len(b.channels)
	if channels == 0 {
		return 0
	}

	frames := len(dst) / channels
	if frames > b.Frames() {
		frames = b.Frames()
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			dst[i*channels+c] = b.channels[c][i]
		}
	}

	return frames
}
