package dsp

import (
	"math"

	"github.com/lixenwraith/sfx-forge/constant"
)

// DistortionCurve builds a soft-clipping waveshaper table for amount in [0,1].
// Zero amount returns nil, which shapers treat as identity.
func DistortionCurve(amount float64) []float64 {
	if amount <= 0 {
		return nil
	}
	const n = constant.DistortionCurveLength
	const deg = math.Pi / 180
	k := amount * constant.DistortionDrive
	curve := make([]float64, n)
	for i := range curve {
		x := float64(i)*2/n - 1
		curve[i] = (3 + k) * x * 20 * deg / (math.Pi + k*math.Abs(x))
	}
	return curve
}

// Shape maps x through curve with linear interpolation.
// Inputs outside [-1,1] take the end values; a nil curve passes x through.
func Shape(curve []float64, x float64) float64 {
	n := len(curve)
	if n == 0 {
		return x
	}
	v := float64(n-1) / 2 * (x + 1)
	if v <= 0 {
		return curve[0]
	}
	if v >= float64(n-1) {
		return curve[n-1]
	}
	i := int(v)
	f := v - float64(i)
	return curve[i] + (curve[i+1]-curve[i])*f
}
