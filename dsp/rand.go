package dsp

// Rand is the mulberry32 generator: 32-bit state, one output per call.
// The same seed always yields the same stream on every platform.
type Rand struct {
	state uint32
}

// NewRand seeds a generator
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Uint32 advances the state and returns the next raw value
func (r *Rand) Uint32() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return t ^ t>>14
}

// Float64 returns a value in [0, 1)
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Range returns a value in [min, max)
func (r *Rand) Range(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Intn returns a value in [0, n)
func (r *Rand) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Bipolar returns a value in [-1, 1)
func (r *Rand) Bipolar() float64 {
	return r.Float64()*2 - 1
}
