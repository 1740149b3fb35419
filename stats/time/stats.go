// Package time computes time-domain statistics of audio signals,
// used for reporting input/output levels around the degradation
// pipeline.
package time

import (
	"math"

	"github.com/andrew-r-thomas/entrope/dsp/core"
)

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	RMSdB         float64
	Max           float64
	MaxPos        int
	Min           float64
	MinPos        int
	Peak          float64 // max(|max|, |min|)
	PeakdB        float64
	CrestFactor   float64 // peak / RMS (linear)
	Power         float64 // mean square
	ZeroCrossings int
}

func emptyStats() Stats {
	return Stats{
		RMSdB:  math.Inf(-1),
		PeakdB: math.Inf(-1),
	}
}

// Calculate computes all statistics in a single pass over the signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	var (
		sum           float64
		sumSq         float64
		maxVal        = signal[0]
		maxPos        int
		minVal        = signal[0]
		minPos        int
		zeroCrossings int
	)

	for i, x := range signal {
		sum += x
		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}

		if x < minVal {
			minVal = x
			minPos = i
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	power := sumSq / float64(n)
	rms := math.Sqrt(power)
	peak := math.Max(math.Abs(maxVal), math.Abs(minVal))

	s := Stats{
		Length:        n,
		DC:            sum / float64(n),
		RMS:           rms,
		RMSdB:         core.LinearToDB(rms),
		Max:           maxVal,
		MaxPos:        maxPos,
		Min:           minVal,
		MinPos:        minPos,
		Peak:          peak,
		PeakdB:        core.LinearToDB(peak),
		Power:         power,
		ZeroCrossings: zeroCrossings,
	}

	if rms > 0 {
		s.CrestFactor = peak / rms
	}

	return s
}
