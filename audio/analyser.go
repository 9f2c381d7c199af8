package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/lixenwraith/sfx-forge/constant"
)

// analysisWindow bounds the FFT length used by Analyze
const analysisWindow = 1 << 16

// Analyser keeps the most recent output frames for metering
type Analyser struct {
	mu         sync.Mutex
	sampleRate float64
	ring       []float64
	pos        int
}

// NewAnalyser creates an analyser holding one FFT window of history
func NewAnalyser(sampleRate int) *Analyser {
	return &Analyser{
		sampleRate: float64(sampleRate),
		ring:       make([]float64, constant.AnalyserFFTSize),
	}
}

// Write appends frames, overwriting the oldest
func (a *Analyser) Write(frames []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, v := range frames {
		a.ring[a.pos] = v
		a.pos = (a.pos + 1) % len(a.ring)
	}
}

// Waveform returns the stored history, oldest first
func (a *Analyser) Waveform() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float64, 0, len(a.ring))
	out = append(out, a.ring[a.pos:]...)
	return append(out, a.ring[:a.pos]...)
}

// Spectrum returns Hann-windowed magnitudes of the history, DC to Nyquist
func (a *Analyser) Spectrum() []float64 {
	return magnitudes(a.Waveform())
}

// Levels returns peak and RMS of the history
func (a *Analyser) Levels() (peak, rms float64) {
	wave := a.Waveform()
	return floats.Norm(wave, math.Inf(1)), floats.Norm(wave, 2) / math.Sqrt(float64(len(wave)))
}

// BinFrequency is the centre frequency of spectrum bin i
func (a *Analyser) BinFrequency(i int) float64 {
	return float64(i) * a.sampleRate / float64(len(a.ring))
}

// Analysis summarizes a rendered signal
type Analysis struct {
	Frames     int     `json:"frames"`
	Duration   float64 `json:"duration"`
	Peak       float64 `json:"peak"`
	RMS        float64 `json:"rms"`
	DominantHz float64 `json:"dominantHz"`
	Clipped    int     `json:"clipped"` // samples at or beyond full scale
}

// Analyze measures levels over the whole signal and the dominant frequency
// over its first analysisWindow samples
func Analyze(samples []float64, sampleRate int) Analysis {
	res := Analysis{Frames: len(samples)}
	if len(samples) == 0 || sampleRate <= 0 {
		return res
	}
	res.Duration = float64(len(samples)) / float64(sampleRate)
	res.Peak = floats.Norm(samples, math.Inf(1))
	res.RMS = floats.Norm(samples, 2) / math.Sqrt(float64(len(samples)))
	for _, v := range samples {
		if math.Abs(v) >= 1 {
			res.Clipped++
		}
	}

	mags := magnitudes(samples[:min(len(samples), analysisWindow)])
	if len(mags) > 1 {
		// Skip DC
		bin := floats.MaxIdx(mags[1:]) + 1
		n := 2 * (len(mags) - 1)
		res.DominantHz = float64(bin) * float64(sampleRate) / float64(n)
	}
	return res
}

// magnitudes returns |X[k]| for k in [0, n/2] of the Hann-windowed input,
// scaled so a full-scale sine peaks near 1
func magnitudes(x []float64) []float64 {
	n := len(x)
	if n < 2 {
		return nil
	}
	if n%2 == 1 {
		x = x[:n-1]
		n--
	}
	buf := make([]float64, n)
	copy(buf, x)
	window.Apply(buf, window.Hann)

	bins := fft.FFTReal(buf)
	mags := make([]float64, n/2+1)
	for i := range mags {
		mags[i] = cmplx.Abs(bins[i]) * 4 / float64(n)
	}
	return mags
}
