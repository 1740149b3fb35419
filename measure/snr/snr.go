// Package snr quantifies how much the degradation pipeline alters a
// signal: signal-to-noise ratio, noise power, and the effective bit
// depth implied by the measured ratio, plus a windowed residual
// spectrum for inspecting where the quantization noise lands.
package snr

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/andrew-r-thomas/entrope/dsp/core"
	"github.com/andrew-r-thomas/entrope/dsp/window"
)

const (
	defaultSampleRate = 48000.0
	defaultFFTSize    = 4096
)

// Config holds measurement parameters. Zero values fall back to
// defaults (48 kHz, 4096-point FFT, Hann window).
type Config struct {
	SampleRate float64
	FFTSize    int
	Window     window.Type
}

// Result holds the outcome of a clean-versus-degraded comparison.
type Result struct {
	// SignalPower is the mean power of the clean reference.
	SignalPower float64
	// NoisePower is the mean power of the residual (degraded - clean).
	NoisePower float64
	// SNR is the linear power ratio SignalPower / NoisePower.
	// +Inf when the residual is exactly zero.
	SNR float64
	// SNRdB is SNR expressed in dB (10*log10).
	SNRdB float64
	// EffectiveBits converts SNRdB to an equivalent quantizer
	// resolution via the 6.02 dB/bit rule.
	EffectiveBits float64
}

// Calculator performs SNR analysis with a fixed configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator, normalizing zero config fields
// to defaults.
func NewCalculator(cfg Config) *Calculator {
	cfg = normalizeConfig(cfg)
	return &Calculator{cfg: cfg}
}

func normalizeConfig(cfg Config) Config {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = defaultFFTSize
	}
	if !cfg.Window.Valid() {
		cfg.Window = window.TypeHann
	}
	return cfg
}

// Measure is a one-shot comparison using the default configuration.
func Measure(clean, degraded []float64) (Result, error) {
	return NewCalculator(Config{}).Measure(clean, degraded)
}

// Measure compares a degraded signal against its clean reference.
// Both slices must be non-empty and of equal length.
func (c *Calculator) Measure(clean, degraded []float64) (Result, error) {
	if len(clean) == 0 {
		return Result{}, fmt.Errorf("snr: clean signal must not be empty")
	}
	if len(clean) != len(degraded) {
		return Result{}, fmt.Errorf("snr: signal lengths differ: %d vs %d",
			len(clean), len(degraded))
	}

	n := len(clean)
	sq := make([]float64, n)

	vecmath.MulBlock(sq, clean, clean)
	signalPower := mean(sq)

	res := make([]float64, n)
	for i := range res {
		res[i] = degraded[i] - clean[i]
	}

	vecmath.MulBlock(sq, res, res)
	noisePower := mean(sq)

	r := Result{
		SignalPower: signalPower,
		NoisePower:  noisePower,
	}

	if noisePower == 0 {
		r.SNR = math.Inf(1)
		r.SNRdB = math.Inf(1)
		r.EffectiveBits = math.Inf(1)
		return r, nil
	}

	r.SNR = signalPower / noisePower
	r.SNRdB = core.LinearPowerToDB(r.SNR)
	r.EffectiveBits = (r.SNRdB - 1.76) / 6.02

	return r, nil
}

// ResidualSpectrum returns single-sided magnitudes of the windowed
// residual (degraded - clean), normalized for window coherent gain.
// The result has FFTSize/2+1 bins; use [Calculator.BinFrequency] to
// map bin indices to Hz. Residuals longer than FFTSize are truncated,
// shorter ones zero-padded.
func (c *Calculator) ResidualSpectrum(clean, degraded []float64) ([]float64, error) {
	if len(clean) == 0 {
		return nil, fmt.Errorf("snr: clean signal must not be empty")
	}
	if len(clean) != len(degraded) {
		return nil, fmt.Errorf("snr: signal lengths differ: %d vs %d",
			len(clean), len(degraded))
	}

	size := c.cfg.FFTSize

	frame := make([]float64, size)
	for i := 0; i < size && i < len(clean); i++ {
		frame[i] = degraded[i] - clean[i]
	}

	coeffs := window.Generate(c.cfg.Window, size)

	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return nil, fmt.Errorf("snr: window gain: %w", err)
	}

	if err := window.ApplyCoefficientsInPlace(frame, coeffs); err != nil {
		return nil, fmt.Errorf("snr: apply window: %w", err)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("snr: fft plan: %w", err)
	}

	in := make([]complex128, size)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("snr: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := 0; k < bins; k++ {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	norm := float64(size) * gain
	last := bins - 1

	for k := range mags {
		mags[k] /= norm
		if k > 0 && k < last {
			mags[k] *= 2
		}
	}

	return mags, nil
}

// BinFrequency returns the center frequency in Hz of spectrum bin k.
func (c *Calculator) BinFrequency(k int) float64 {
	return float64(k) * c.cfg.SampleRate / float64(c.cfg.FFTSize)
}

// Config returns the normalized configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
