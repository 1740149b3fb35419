package wav

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeDecodeFloat32(t *testing.T) {
	in := []float64{0.5, -0.5, 0.25, -0.25, 0, 1}

	data, err := Encode(in, 48000, 2)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if f.SampleRate != 48000 || f.Channels != 2 {
		t.Errorf("header = %d Hz / %d ch, want 48000/2", f.SampleRate, f.Channels)
	}

	if f.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", f.Frames())
	}

	for i := range in {
		// Round trip passes through float32 precision.
		if diff := math.Abs(f.Samples[i] - in[i]); diff > 1e-7 {
			t.Errorf("sample %d = %g, want %g", i, f.Samples[i], in[i])
		}
	}
}

func TestDecodePCM16(t *testing.T) {
	raw := make([]byte, 44+4)
	copy(raw[0:], "RIFF")
	binary.LittleEndian.PutUint32(raw[4:], uint32(36+4))
	copy(raw[8:], "WAVE")
	copy(raw[12:], "fmt ")
	binary.LittleEndian.PutUint32(raw[16:], 16)
	binary.LittleEndian.PutUint16(raw[20:], 1) // PCM
	binary.LittleEndian.PutUint16(raw[22:], 1)
	binary.LittleEndian.PutUint32(raw[24:], 44100)
	binary.LittleEndian.PutUint32(raw[28:], 44100*2)
	binary.LittleEndian.PutUint16(raw[32:], 2)
	binary.LittleEndian.PutUint16(raw[34:], 16)
	copy(raw[36:], "data")
	binary.LittleEndian.PutUint32(raw[40:], 4)
	negOne := int16(-32768)
	binary.LittleEndian.PutUint16(raw[44:], uint16(int16(16384))) // 0.5
	binary.LittleEndian.PutUint16(raw[46:], uint16(negOne))       // -1.0

	f, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if f.SampleRate != 44100 || f.Channels != 1 {
		t.Errorf("header = %d Hz / %d ch, want 44100/1", f.SampleRate, f.Channels)
	}

	if f.Samples[0] != 0.5 {
		t.Errorf("sample 0 = %g, want 0.5", f.Samples[0])
	}

	if f.Samples[1] != -1 {
		t.Errorf("sample 1 = %g, want -1", f.Samples[1])
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not a wav file at all")); err == nil {
		t.Error("garbage input expected error")
	}

	if _, err := Decode(nil); err == nil {
		t.Error("empty input expected error")
	}
}

func TestDecodeRejectsUnsupportedFormat(t *testing.T) {
	data, err := Encode([]float64{0}, 48000, 1)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// Rewrite the format tag to 8-bit PCM.
	binary.LittleEndian.PutUint16(data[20:], 1)
	binary.LittleEndian.PutUint16(data[34:], 8)

	if _, err := Decode(data); err == nil {
		t.Error("8-bit PCM expected error")
	}
}

func TestEncodeValidation(t *testing.T) {
	if _, err := Encode([]float64{0}, 48000, 3); err == nil {
		t.Error("3 channels expected error")
	}

	if _, err := Encode([]float64{0}, 0, 1); err == nil {
		t.Error("zero sample rate expected error")
	}

	if _, err := Encode([]float64{0, 0, 0}, 48000, 2); err == nil {
		t.Error("partial frame expected error")
	}
}
