// Package wav implements the minimal RIFF WAV subset the entrope CLI
// needs: PCM16 and IEEE float32 decoding, float32 encoding, mono or
// stereo, 44-byte canonical headers plus chunk skipping on read.
package wav

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	formatPCM   = 1
	formatFloat = 3
)

// File holds decoded audio as frame-interleaved float64 samples.
type File struct {
	SampleRate int
	Channels   int
	Samples    []float64
}

// Frames returns the per-channel sample count.
func (f *File) Frames() int {
	if f.Channels == 0 {
		return 0
	}
	return len(f.Samples) / f.Channels
}

// Decode parses a RIFF WAV file. Only uncompressed PCM16 and float32
// data in mono or stereo are accepted.
func Decode(data []byte) (*File, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wav: not a RIFF WAVE file")
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bits       int
		haveFmt    bool
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		if body+size > len(data) {
			return nil, fmt.Errorf("wav: chunk %q overruns file", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("wav: fmt chunk too small: %d bytes", size)
			}

			format = binary.LittleEndian.Uint16(data[body:])
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("wav: data chunk before fmt chunk")
			}

			return decodeData(data[body:body+size], format, channels, sampleRate, bits)
		}

		// Chunks are word-aligned.
		pos = body + size + size%2
	}

	return nil, fmt.Errorf("wav: no data chunk found")
}

func decodeData(raw []byte, format uint16, channels, sampleRate, bits int) (*File, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("wav: unsupported channel count: %d", channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: invalid sample rate: %d", sampleRate)
	}

	f := &File{SampleRate: sampleRate, Channels: channels}

	switch {
	case format == formatPCM && bits == 16:
		n := len(raw) / 2
		f.Samples = make([]float64, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
			f.Samples[i] = float64(v) / 32768
		}

	case format == formatFloat && bits == 32:
		n := len(raw) / 4
		f.Samples = make([]float64, n)
		for i := 0; i < n; i++ {
			v := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
			f.Samples[i] = float64(v)
		}

	default:
		return nil, fmt.Errorf("wav: unsupported format %d with %d bits", format, bits)
	}

	return f, nil
}

// Encode serializes frame-interleaved samples as a float32 WAV file.
func Encode(samples []float64, sampleRate, channels int) ([]byte, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("wav: unsupported channel count: %d", channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: invalid sample rate: %d", sampleRate)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("wav: sample count %d is not a whole number of %d-channel frames",
			len(samples), channels)
	}

	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4

	out := make([]byte, 44+dataSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], formatFloat)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))

	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(float32(s)))
	}

	return out, nil
}
