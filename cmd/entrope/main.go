// Command entrope degrades audio through the crush pipeline: bit-depth
// quantization, sample-and-hold decimation, stochastic depth
// modulation, and dynamic peak clipping.
//
// Usage:
//
//	entrope [flags]
//
// Input is either a WAV file (-in) or a generated sine tone. The
// degraded result is written with -out; -stats prints SNR and
// effective-bit measurements against the clean input.
//
// Examples:
//
//	entrope -in drums.wav -out crushed.wav -crush 6 -redux 8
//	entrope -freq 440 -dur 2 -crush 4 -entropy 30 -seed 7 -out tone.wav
//	entrope -in mix.wav -crush 8 -stats
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"text/tabwriter"

	"github.com/andrew-r-thomas/entrope/dsp/core"
	"github.com/andrew-r-thomas/entrope/dsp/crush"
	"github.com/andrew-r-thomas/entrope/dsp/params"
	"github.com/andrew-r-thomas/entrope/dsp/signal"
	"github.com/andrew-r-thomas/entrope/internal/wav"
	"github.com/andrew-r-thomas/entrope/measure/snr"
	"github.com/andrew-r-thomas/entrope/render"
	timestats "github.com/andrew-r-thomas/entrope/stats/time"
)

func main() {
	var (
		inPath  = flag.String("in", "", "input WAV file (PCM16 or float32); empty generates a tone")
		outPath = flag.String("out", "", "output WAV file (float32)")

		crushDepth = flag.Float64("crush", params.DefaultCrush, "quantization depth in bits [2, 32]")
		redux      = flag.Int("redux", params.DefaultRedux, "sample-and-hold factor [1, 100]")
		entropy    = flag.Int("entropy", params.DefaultEntropy, "random depth-divisor bound [1, 100]")
		clip       = flag.Float64("clip", params.DefaultClip, "peak clip scale [0, 1]")
		mix        = flag.Float64("mix", 1, "dry/wet mix [0, 1]")

		blockSize = flag.Int("block", 512, "processing block size in frames")
		seed      = flag.Uint64("seed", 0, "entropy RNG seed; 0 seeds from the system")

		freq     = flag.Float64("freq", 440, "generated tone frequency in Hz")
		dur      = flag.Float64("dur", 2, "generated tone duration in seconds")
		amp      = flag.Float64("amp", 0.8, "generated tone amplitude")
		rate     = flag.Int("rate", 48000, "generated tone sample rate in Hz")
		channels = flag.Int("channels", 2, "generated tone channel count (1 or 2)")

		stats = flag.Bool("stats", false, "print degradation measurements")
	)

	flag.Parse()

	if err := run(config{
		inPath:     *inPath,
		outPath:    *outPath,
		crushDepth: *crushDepth,
		redux:      *redux,
		entropy:    *entropy,
		clip:       *clip,
		mix:        *mix,
		blockSize:  *blockSize,
		seed:       *seed,
		freq:       *freq,
		dur:        *dur,
		amp:        *amp,
		rate:       *rate,
		channels:   *channels,
		stats:      *stats,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "entrope: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	inPath, outPath string

	crushDepth float64
	redux      int
	entropy    int
	clip       float64
	mix        float64

	blockSize int
	seed      uint64

	freq, dur, amp float64
	rate, channels int

	stats bool
}

func run(cfg config) error {
	if cfg.outPath == "" && !cfg.stats {
		return fmt.Errorf("nothing to do: pass -out and/or -stats")
	}

	clean, sampleRate, channels, err := loadInput(cfg)
	if err != nil {
		return err
	}

	store := params.NewStore()
	if err := store.SetCrush(cfg.crushDepth); err != nil {
		return err
	}
	if err := store.SetClip(cfg.clip); err != nil {
		return err
	}
	store.SetRedux(cfg.redux)
	store.SetEntropy(cfg.entropy)

	var crushOpts []crush.Option
	if cfg.seed != 0 {
		crushOpts = append(crushOpts, crush.WithRNG(rand.New(rand.NewPCG(cfg.seed, cfg.seed))))
	}

	crusher, err := crush.New(crushOpts...)
	if err != nil {
		return err
	}

	renderer, err := render.New(store, crusher,
		render.WithBlockSize(cfg.blockSize),
		render.WithChannels(channels),
		render.WithMix(cfg.mix),
	)
	if err != nil {
		return err
	}

	degraded := make([]float64, len(clean))
	copy(degraded, clean)

	if err := renderer.ProcessInterleaved(degraded); err != nil {
		return err
	}

	if cfg.outPath != "" {
		data, err := wav.Encode(degraded, sampleRate, channels)
		if err != nil {
			return err
		}

		if err := os.WriteFile(cfg.outPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", cfg.outPath, err)
		}
	}

	if cfg.stats {
		printStats(clean, degraded, sampleRate)
	}

	return nil
}

func loadInput(cfg config) (samples []float64, sampleRate, channels int, err error) {
	if cfg.inPath == "" {
		if cfg.channels != 1 && cfg.channels != 2 {
			return nil, 0, 0, fmt.Errorf("generated tone channel count must be 1 or 2: %d", cfg.channels)
		}

		gen := signal.NewGenerator([]core.ProcessorOption{
			core.WithSampleRate(float64(cfg.rate)),
		})

		frames := int(float64(cfg.rate) * cfg.dur)

		mono, err := gen.Sine(cfg.freq, cfg.amp, frames)
		if err != nil {
			return nil, 0, 0, err
		}

		out := make([]float64, frames*cfg.channels)
		for i, v := range mono {
			for c := 0; c < cfg.channels; c++ {
				out[i*cfg.channels+c] = v
			}
		}

		return out, cfg.rate, cfg.channels, nil
	}

	raw, err := os.ReadFile(cfg.inPath)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read %s: %w", cfg.inPath, err)
	}

	f, err := wav.Decode(raw)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%s: %w", cfg.inPath, err)
	}

	return f.Samples, f.SampleRate, f.Channels, nil
}

func printStats(clean, degraded []float64, sampleRate int) {
	calc := snr.NewCalculator(snr.Config{SampleRate: float64(sampleRate)})

	r, err := calc.Measure(clean, degraded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "entrope: stats: %v\n", err)
		return
	}

	in := timestats.Calculate(clean)
	out := timestats.Calculate(degraded)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "signal power\t%.6g\n", r.SignalPower)
	fmt.Fprintf(w, "noise power\t%.6g\n", r.NoisePower)
	fmt.Fprintf(w, "SNR\t%.2f dB\n", r.SNRdB)
	fmt.Fprintf(w, "effective bits\t%.2f\n", r.EffectiveBits)
	fmt.Fprintf(w, "peak in\t%.4f (%.2f dBFS)\n", in.Peak, in.PeakdB)
	fmt.Fprintf(w, "peak out\t%.4f (%.2f dBFS)\n", out.Peak, out.PeakdB)
	fmt.Fprintf(w, "RMS in\t%.4f (%.2f dBFS)\n", in.RMS, in.RMSdB)
	fmt.Fprintf(w, "RMS out\t%.4f (%.2f dBFS)\n", out.RMS, out.RMSdB)
	w.Flush()
}
