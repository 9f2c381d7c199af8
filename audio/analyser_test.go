package audio

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/lixenwraith/sfx-forge/constant"
)

func sine(freq float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / testRate)
	}
	return out
}

// TestAnalyzeSine verifies levels and dominant frequency of a pure tone
func TestAnalyzeSine(t *testing.T) {
	res := Analyze(sine(1000, testRate), testRate)

	if math.Abs(res.DominantHz-1000) > 1 {
		t.Errorf("Expected dominant 1000 Hz, got %f", res.DominantHz)
	}
	if math.Abs(res.Peak-1) > 1e-3 {
		t.Errorf("Expected peak near 1, got %f", res.Peak)
	}
	if math.Abs(res.RMS-math.Sqrt2/2) > 1e-3 {
		t.Errorf("Expected RMS near 0.707, got %f", res.RMS)
	}
	if res.Duration != 1 || res.Frames != testRate {
		t.Errorf("Expected 1s of %d frames, got %fs of %d", testRate, res.Duration, res.Frames)
	}
	if res.Clipped != 0 {
		t.Errorf("Expected no clipped samples, got %d", res.Clipped)
	}
}

// TestAnalyzeEmpty verifies empty input yields a zero analysis
func TestAnalyzeEmpty(t *testing.T) {
	if res := Analyze(nil, testRate); res != (Analysis{}) {
		t.Errorf("Expected zero analysis, got %+v", res)
	}
}

// TestAnalyzeClipped verifies full-scale samples are counted
func TestAnalyzeClipped(t *testing.T) {
	res := Analyze([]float64{0, 1, -1.5, 0.5}, testRate)
	if res.Clipped != 2 {
		t.Errorf("Expected 2 clipped samples, got %d", res.Clipped)
	}
}

// TestAnalyserWaveformOrder verifies the ring returns oldest first
func TestAnalyserWaveformOrder(t *testing.T) {
	a := NewAnalyser(testRate)
	size := constant.AnalyserFFTSize
	in := make([]float64, size+500)
	for i := range in {
		in[i] = float64(i)
	}
	a.Write(in)

	wave := a.Waveform()
	if len(wave) != size {
		t.Fatalf("Expected %d frames, got %d", size, len(wave))
	}
	if wave[0] != 500 || wave[size-1] != float64(size+499) {
		t.Errorf("Expected range [500, %d], got [%f, %f]", size+499, wave[0], wave[size-1])
	}
}

// TestAnalyserLevels verifies peak and RMS of a constant signal
func TestAnalyserLevels(t *testing.T) {
	a := NewAnalyser(testRate)
	in := make([]float64, constant.AnalyserFFTSize)
	for i := range in {
		in[i] = -0.5
	}
	a.Write(in)

	peak, rms := a.Levels()
	if math.Abs(peak-0.5) > 1e-12 || math.Abs(rms-0.5) > 1e-12 {
		t.Errorf("Expected peak and RMS 0.5, got %f and %f", peak, rms)
	}
}

// TestAnalyserSpectrum verifies a bin-centred tone peaks at its bin
func TestAnalyserSpectrum(t *testing.T) {
	a := NewAnalyser(testRate)
	size := constant.AnalyserFFTSize
	freq := a.BinFrequency(100)
	if math.Abs(freq-100*float64(testRate)/float64(size)) > 1e-9 {
		t.Errorf("Unexpected bin frequency %f", freq)
	}

	a.Write(sine(freq, size))
	bins := a.Spectrum()
	if len(bins) != size/2+1 {
		t.Fatalf("Expected %d bins, got %d", size/2+1, len(bins))
	}
	if idx := floats.MaxIdx(bins); idx != 100 {
		t.Errorf("Expected peak at bin 100, got %d", idx)
	}
}
