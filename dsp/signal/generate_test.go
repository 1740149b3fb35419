package signal

import (
	"math"
	"testing"

	"github.com/andrew-r-thomas/entrope/dsp/core"
)

func TestSineFrequencyAndAmplitude(t *testing.T) {
	g := NewGenerator([]core.ProcessorOption{core.WithSampleRate(48000)})

	out, err := g.Sine(12000, 0.5, 8)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	// 12 kHz at 48 kHz: period of 4 samples, peaks at +-0.5.
	want := []float64{0, 0.5, 0, -0.5, 0, 0.5, 0, -0.5}
	for i := range want {
		if diff := math.Abs(out[i] - want[i]); diff > 1e-12 {
			t.Errorf("sample %d = %g, want %g", i, out[i], want[i])
		}
	}
}

func TestSineValidation(t *testing.T) {
	g := NewGenerator(nil)

	if _, err := g.Sine(440, 1, 0); err == nil {
		t.Error("Sine with 0 samples expected error")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGenerator(nil, WithSeed(7))
	g2 := NewGenerator(nil, WithSeed(7))

	a, err := g1.WhiteNoise(0.8, 256)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	b, err := g2.WhiteNoise(0.8, 256)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs across equal seeds: %g vs %g", i, a[i], b[i])
		}

		if a[i] < -0.8 || a[i] > 0.8 {
			t.Fatalf("sample %d = %g outside [-0.8, 0.8]", i, a[i])
		}
	}

	g3 := NewGenerator(nil, WithSeed(8))

	c, err := g3.WhiteNoise(0.8, 256)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}

	if same {
		t.Error("different seeds produced identical noise")
	}
}

func TestWhiteNoiseValidation(t *testing.T) {
	g := NewGenerator(nil)

	if _, err := g.WhiteNoise(-1, 16); err == nil {
		t.Error("negative amplitude expected error")
	}

	if _, err := g.WhiteNoise(1, 0); err == nil {
		t.Error("0 samples expected error")
	}
}

func TestImpulse(t *testing.T) {
	g := NewGenerator(nil)

	out, err := g.Impulse(8, 3)
	if err != nil {
		t.Fatalf("Impulse() error = %v", err)
	}

	for i, v := range out {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Errorf("sample %d = %g, want %g", i, v, want)
		}
	}

	// Out-of-range position yields silence.
	out, err = g.Impulse(4, 10)
	if err != nil {
		t.Fatalf("Impulse() error = %v", err)
	}

	for i, v := range out {
		if v != 0 {
			t.Errorf("sample %d = %g, want 0", i, v)
		}
	}
}

func TestDC(t *testing.T) {
	g := NewGenerator(nil)

	out, err := g.DC(0.25, 4)
	if err != nil {
		t.Fatalf("DC() error = %v", err)
	}

	for i, v := range out {
		if v != 0.25 {
			t.Errorf("sample %d = %g, want 0.25", i, v)
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0.5, -0.25, 0.1}, 1.0)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if diff := math.Abs(out[0] - 1.0); diff > 1e-12 {
		t.Errorf("peak = %g, want 1.0", out[0])
	}

	if diff := math.Abs(out[1] + 0.5); diff > 1e-12 {
		t.Errorf("out[1] = %g, want -0.5", out[1])
	}

	// Silence stays silence.
	out, err = Normalize([]float64{0, 0}, 1.0)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if out[0] != 0 || out[1] != 0 {
		t.Errorf("normalized silence = %v, want zeros", out)
	}

	if _, err := Normalize(nil, 1.0); err == nil {
		t.Error("empty input expected error")
	}

	if _, err := Normalize([]float64{1}, -0.5); err == nil {
		t.Error("negative target expected error")
	}
}
