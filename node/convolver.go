package node

import (
	"math"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Impulse normalisation constants
const (
	gainCalibration           = 0.00125
	gainCalibrationSampleRate = 44100.0
	minPower                  = 0.000125
)

// kernel holds the frequency-domain partitions of a mono-downmixed impulse
type kernel struct {
	parts [][]complex128
}

var (
	kernelCache = make(map[*Buffer]*kernel)
	kernelMu    sync.RWMutex
)

// kernelFor builds or reuses the partitioned spectrum of buf
func kernelFor(buf *Buffer) *kernel {
	kernelMu.RLock()
	k, ok := kernelCache[buf]
	kernelMu.RUnlock()
	if ok {
		return k
	}

	kernelMu.Lock()
	defer kernelMu.Unlock()
	if k, ok = kernelCache[buf]; ok {
		return k
	}
	k = buildKernel(buf)
	kernelCache[buf] = k
	return k
}

// normalizationScale matches the equal-power impulse normalisation of Web Audio
func normalizationScale(buf *Buffer) float64 {
	length := buf.Len()
	if length == 0 {
		return 1
	}
	var power float64
	for _, ch := range buf.Channels {
		power += floats.Dot(ch, ch)
	}
	power = math.Sqrt(power / float64(len(buf.Channels)*length))
	if math.IsNaN(power) || math.IsInf(power, 0) || power < minPower {
		power = minPower
	}
	scale := gainCalibration / power
	if buf.SampleRate > 0 {
		scale *= gainCalibrationSampleRate / buf.SampleRate
	}
	return scale
}

func buildKernel(buf *Buffer) *kernel {
	length := buf.Len()
	if length == 0 {
		return &kernel{}
	}
	// Mono destination hears the channel average
	mono := make([]float64, length)
	for _, ch := range buf.Channels {
		floats.Add(mono, ch)
	}
	floats.Scale(normalizationScale(buf)/float64(len(buf.Channels)), mono)

	n := (length + quantum - 1) / quantum
	k := &kernel{parts: make([][]complex128, n)}
	seg := make([]float64, 2*quantum)
	for p := 0; p < n; p++ {
		clear(seg)
		copy(seg, mono[p*quantum:min((p+1)*quantum, length)])
		k.parts[p] = fft.FFTReal(seg)
	}
	return k
}

// Convolver applies an impulse response by uniformly partitioned
// overlap-save convolution with the render quantum as partition size
type Convolver struct {
	base
	kernel *kernel
	fdl    [][]complex128 // input spectra, newest at head
	head   int
	prev   []float64
	window []float64
	acc    []complex128
	quiet  int // consecutive silent input blocks
}

func (c *Context) CreateConvolver() ConvolverNode {
	cv := &Convolver{
		prev:   make([]float64, quantum),
		window: make([]float64, 2*quantum),
		acc:    make([]complex128, 2*quantum),
	}
	cv.init(c, cv.process)
	return cv
}

// SetBuffer installs the impulse response; buffers are treated as immutable
func (cv *Convolver) SetBuffer(b *Buffer) {
	cv.kernel = kernelFor(b)
	cv.fdl = make([][]complex128, len(cv.kernel.parts))
	cv.head = 0
	clear(cv.prev)
}

func (cv *Convolver) process(blk int64, out []float64) {
	cv.sumInputs(blk, out)
	if cv.kernel == nil || len(cv.kernel.parts) == 0 {
		clear(out)
		return
	}
	parts := len(cv.kernel.parts)

	silent := true
	for _, v := range out {
		if v != 0 {
			silent = false
			break
		}
	}
	if silent {
		cv.quiet++
	} else {
		cv.quiet = 0
	}
	// Every stored spectrum is zero once the line has flushed
	if cv.quiet > parts+1 {
		return
	}

	copy(cv.window, cv.prev)
	copy(cv.window[quantum:], out)
	copy(cv.prev, out)

	cv.head = (cv.head + 1) % parts
	cv.fdl[cv.head] = fft.FFTReal(cv.window)

	clear(cv.acc)
	for j := 0; j < parts; j++ {
		x := cv.fdl[(cv.head-j+parts)%parts]
		if x == nil {
			continue
		}
		h := cv.kernel.parts[j]
		for i := range cv.acc {
			cv.acc[i] += x[i] * h[i]
		}
	}

	y := fft.IFFT(cv.acc)
	for i := range out {
		out[i] = real(y[quantum+i])
	}
}
