// Package window provides the window functions used by the
// measurement FFT path: coefficient generation and SIMD-backed
// application to sample buffers.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman

	typeCount // sentinel for validation
)

var typeNames = [typeCount]string{"Rectangular", "Hann", "Hamming", "Blackman"}

// String returns the name of the window type.
func (t Type) String() string {
	if t >= 0 && t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Valid reports whether t is a known window type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

var (
	errEmptyCoeffs      = errors.New("window: empty coefficients")
	errZeroCoherentGain = errors.New("window: zero coherent gain")
	errMismatchedLength = errors.New("window: samples and coefficients differ in length")
)

// Generate returns symmetric window coefficients of the given length.
// Unknown types and non-positive lengths return nil.
func Generate(t Type, length int) []float64 {
	if length <= 0 || !t.Valid() {
		return nil
	}

	out := make([]float64, length)

	if length == 1 {
		out[0] = 1
		return out
	}

	for i := range out {
		x := float64(i) / float64(length-1)
		out[i] = eval(t, x)
	}

	return out
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 || t == TypeRectangular {
		return
	}

	coeffs := Generate(t, len(buf))
	if len(coeffs) != len(buf) {
		return
	}

	vecmath.MulBlockInPlace(buf, coeffs)
}

// ApplyCoefficients multiplies samples with coefficients into a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// CoherentGain returns the mean coefficient value, the amplitude
// correction factor for windowed spectra.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return sum / float64(len(coeffs)), nil
}
