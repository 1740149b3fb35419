package time

import (
	"math"
	"testing"
)

func TestCalculateEmptySignal(t *testing.T) {
	s := Calculate(nil)

	if s.Length != 0 {
		t.Errorf("Length = %d, want 0", s.Length)
	}

	if !math.IsInf(s.RMSdB, -1) || !math.IsInf(s.PeakdB, -1) {
		t.Errorf("dB fields = %g, %g, want -Inf", s.RMSdB, s.PeakdB)
	}
}

func TestCalculateConstantSignal(t *testing.T) {
	s := Calculate([]float64{0.5, 0.5, 0.5, 0.5})

	if s.DC != 0.5 {
		t.Errorf("DC = %g, want 0.5", s.DC)
	}

	if s.RMS != 0.5 {
		t.Errorf("RMS = %g, want 0.5", s.RMS)
	}

	if s.Peak != 0.5 {
		t.Errorf("Peak = %g, want 0.5", s.Peak)
	}

	if s.CrestFactor != 1 {
		t.Errorf("CrestFactor = %g, want 1", s.CrestFactor)
	}

	if s.ZeroCrossings != 0 {
		t.Errorf("ZeroCrossings = %d, want 0", s.ZeroCrossings)
	}
}

func TestCalculateAlternatingSignal(t *testing.T) {
	s := Calculate([]float64{1, -1, 1, -1})

	if s.DC != 0 {
		t.Errorf("DC = %g, want 0", s.DC)
	}

	if s.RMS != 1 {
		t.Errorf("RMS = %g, want 1", s.RMS)
	}

	if s.ZeroCrossings != 3 {
		t.Errorf("ZeroCrossings = %d, want 3", s.ZeroCrossings)
	}

	if s.Max != 1 || s.Min != -1 {
		t.Errorf("Max/Min = %g/%g, want 1/-1", s.Max, s.Min)
	}
}

func TestCalculateSine(t *testing.T) {
	signal := make([]float64, 4800)
	for i := range signal {
		signal[i] = 0.8 * math.Sin(2*math.Pi*100*float64(i)/4800)
	}

	s := Calculate(signal)

	if math.Abs(s.Peak-0.8) > 1e-3 {
		t.Errorf("Peak = %g, want ~0.8", s.Peak)
	}

	// Sine RMS is amplitude / sqrt(2).
	if math.Abs(s.RMS-0.8/math.Sqrt2) > 1e-3 {
		t.Errorf("RMS = %g, want ~%g", s.RMS, 0.8/math.Sqrt2)
	}

	if math.Abs(s.CrestFactor-math.Sqrt2) > 1e-2 {
		t.Errorf("CrestFactor = %g, want ~sqrt(2)", s.CrestFactor)
	}

	if math.Abs(s.DC) > 1e-9 {
		t.Errorf("DC = %g, want ~0", s.DC)
	}
}

func TestCalculatePositions(t *testing.T) {
	s := Calculate([]float64{0.1, -0.9, 0.3, 0.7})

	if s.MaxPos != 3 || s.MinPos != 1 {
		t.Errorf("MaxPos/MinPos = %d/%d, want 3/1", s.MaxPos, s.MinPos)
	}

	if s.Peak != 0.9 {
		t.Errorf("Peak = %g, want 0.9", s.Peak)
	}
}
