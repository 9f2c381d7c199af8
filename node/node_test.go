package node

import (
	"context"
	"math"
	"testing"

	"github.com/lixenwraith/sfx-forge/parameter"
)

const testRate = 44100

func render(t *testing.T, c *Context, frames int) []float64 {
	t.Helper()
	out, err := c.Render(context.Background(), frames)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

// constSource plays a looping buffer of ones from t=0
func constSource(c *Context) BufferSourceNode {
	buf := c.CreateBuffer(1, 64)
	for i := range buf.Channels[0] {
		buf.Channels[0][i] = 1
	}
	src := c.CreateBufferSource()
	src.SetBuffer(buf)
	src.SetLoop(true)
	src.Start(0)
	return src
}

// impulseSource plays a single unit sample at t=0
func impulseSource(c *Context) BufferSourceNode {
	buf := c.CreateBuffer(1, 1)
	buf.Channels[0][0] = 1
	src := c.CreateBufferSource()
	src.SetBuffer(buf)
	src.Start(0)
	return src
}

// TestOscillatorSampleAccurate verifies start and stop land on exact frames
func TestOscillatorSampleAccurate(t *testing.T) {
	c := NewContext(testRate)
	osc := c.CreateOscillator()
	osc.SetType(parameter.WaveSquare)
	osc.Frequency().SetValue(100)
	osc.Connect(c.Destination())
	osc.Start(0.01)
	osc.Stop(0.02)

	out := render(t, c, 1000)
	if out[440] != 0 {
		t.Errorf("Expected silence before start, got %f", out[440])
	}
	if out[441] != 1 {
		t.Errorf("Expected square high at start frame, got %f", out[441])
	}
	if out[881] == 0 {
		t.Error("Expected output before stop frame")
	}
	if out[882] != 0 {
		t.Errorf("Expected silence at stop frame, got %f", out[882])
	}
	if !osc.Ended() {
		t.Error("Expected oscillator to report ended")
	}
}

// TestGainLinearRamp verifies a-rate automation of gain
func TestGainLinearRamp(t *testing.T) {
	c := NewContext(testRate)
	g := c.CreateGain()
	g.Gain().SetValueAtTime(0, 0)
	g.Gain().LinearRampToValueAtTime(1, 1)
	constSource(c).Connect(g)
	g.Connect(c.Destination())

	out := render(t, c, testRate)
	if out[0] != 0 {
		t.Errorf("Expected 0 at start, got %f", out[0])
	}
	if math.Abs(out[testRate/2]-0.5) > 1e-9 {
		t.Errorf("Expected 0.5 at midpoint, got %f", out[testRate/2])
	}
}

// TestAutomationAlignsWithStart verifies an event scheduled with a source
// lands on the source's first frame when the time is off the frame grid
func TestAutomationAlignsWithStart(t *testing.T) {
	at := 0.2 * 3 // 0.6000000000000001
	c := NewContext(testRate)
	osc := c.CreateOscillator()
	osc.SetType(parameter.WaveSquare)
	osc.Frequency().SetValue(100)
	g := c.CreateGain()
	g.Gain().SetValueAtTime(0, 0)
	g.Gain().SetValueAtTime(1, at)
	osc.Connect(g)
	g.Connect(c.Destination())
	osc.Start(at)

	out := render(t, c, 27000)
	start := int(c.frameAt(at))
	if start != 26460 {
		t.Fatalf("Expected start frame 26460, got %d", start)
	}
	if out[start-1] != 0 {
		t.Errorf("Expected silence before start, got %f", out[start-1])
	}
	if out[start] != 1 {
		t.Errorf("Expected full gain on start frame, got %f", out[start])
	}
}

// TestParamModulation verifies node outputs add onto parameter values
func TestParamModulation(t *testing.T) {
	c := NewContext(testRate)
	g := c.CreateGain()
	g.Gain().SetValue(0)
	constSource(c).Connect(g)
	constSource(c).ConnectParam(g.Gain())
	g.Connect(c.Destination())

	out := render(t, c, 256)
	if out[200] != 1 {
		t.Errorf("Expected modulated gain of 1, got %f", out[200])
	}
}

// TestDelayImpulse verifies delay placement and the one-quantum minimum
func TestDelayImpulse(t *testing.T) {
	tests := []struct {
		name  string
		delay float64
		want  int
	}{
		{"10ms", 0.01, 441},
		{"clamped", 0.001, quantum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(testRate)
			d := c.CreateDelay(1)
			d.DelayTime().SetValue(tt.delay)
			impulseSource(c).Connect(d)
			d.Connect(c.Destination())

			out := render(t, c, 2000)
			for i, v := range out {
				want := 0.0
				if i == tt.want {
					want = 1
				}
				if v != want {
					t.Fatalf("Frame %d: expected %f, got %f", i, want, v)
				}
			}
		})
	}
}

// TestDelayFeedbackCycle verifies a delay closes a feedback loop
func TestDelayFeedbackCycle(t *testing.T) {
	c := NewContext(testRate)
	d := c.CreateDelay(1)
	d.DelayTime().SetValue(0.01)
	fb := c.CreateGain()
	fb.Gain().SetValue(0.5)

	impulseSource(c).Connect(d)
	d.Connect(fb)
	fb.Connect(d)
	d.Connect(c.Destination())

	out := render(t, c, 1500)
	want := map[int]float64{441: 1, 882: 0.5, 1323: 0.25}
	for i, v := range out {
		if w, ok := want[i]; ok {
			if v != w {
				t.Errorf("Frame %d: expected %f, got %f", i, w, v)
			}
		} else if v != 0 {
			t.Fatalf("Frame %d: expected silence, got %f", i, v)
		}
	}
}

// TestWaveShaperNilCurve verifies a shaper without a curve is transparent
func TestWaveShaperNilCurve(t *testing.T) {
	build := func(withShaper bool) []float64 {
		c := NewContext(testRate)
		osc := c.CreateOscillator()
		osc.SetType(parameter.WaveSawtooth)
		osc.Start(0)
		if withShaper {
			ws := c.CreateWaveShaper()
			ws.SetCurve(nil)
			osc.Connect(ws)
			ws.Connect(c.Destination())
		} else {
			osc.Connect(c.Destination())
		}
		out, _ := c.Render(context.Background(), 1024)
		return out
	}

	a, b := build(true), build(false)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Frame %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

// TestConvolverPartitions verifies delayed impulses across partition boundaries
func TestConvolverPartitions(t *testing.T) {
	c := NewContext(testRate)
	ir := c.CreateBuffer(1, 1000)
	ir.Channels[0][700] = 1
	scale := normalizationScale(ir)

	cv := c.CreateConvolver()
	cv.SetBuffer(ir)
	impulseSource(c).Connect(cv)
	cv.Connect(c.Destination())

	out := render(t, c, 2048)
	for i, v := range out {
		want := 0.0
		if i == 700 {
			want = scale
		}
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("Frame %d: expected %g, got %g", i, want, v)
		}
	}
}

// TestConvolverStereoDownmix verifies two channels are averaged
func TestConvolverStereoDownmix(t *testing.T) {
	c := NewContext(testRate)
	ir := c.CreateBuffer(2, 256)
	ir.Channels[0][10] = 1
	ir.Channels[1][20] = 1
	scale := normalizationScale(ir)

	cv := c.CreateConvolver()
	cv.SetBuffer(ir)
	impulseSource(c).Connect(cv)
	cv.Connect(c.Destination())

	out := render(t, c, 512)
	if math.Abs(out[10]-scale/2) > 1e-9 || math.Abs(out[20]-scale/2) > 1e-9 {
		t.Errorf("Expected %g at frames 10 and 20, got %g and %g", scale/2, out[10], out[20])
	}
}

// TestCompressorReducesLoudSignal verifies gain reduction above threshold only
func TestCompressorReducesLoudSignal(t *testing.T) {
	run := func(level float64) ([]float64, float64) {
		c := NewContext(testRate)
		g := c.CreateGain()
		g.Gain().SetValue(level)
		cp := c.CreateCompressor()
		constSource(c).Connect(g)
		g.Connect(cp)
		cp.Connect(c.Destination())
		out, _ := c.Render(context.Background(), testRate/2)
		return out, cp.Reduction()
	}

	loud, red := run(0.9)
	if loud[len(loud)-1] >= 0.5 {
		t.Errorf("Expected loud signal compressed, got %f", loud[len(loud)-1])
	}
	if red >= 0 {
		t.Errorf("Expected negative reduction, got %f", red)
	}

	quiet, _ := run(0.01)
	if quiet[len(quiet)-1] != 0.01 {
		t.Errorf("Expected quiet signal untouched, got %f", quiet[len(quiet)-1])
	}
}

// TestScheduleOrderAndCancel verifies tasks run in time order and cancelled ones are skipped
func TestScheduleOrderAndCancel(t *testing.T) {
	c := NewContext(testRate)
	var order []int
	c.Schedule(0.02, func() { order = append(order, 2) })
	c.Schedule(0.01, func() { order = append(order, 1) })
	task := c.Schedule(0.015, func() { order = append(order, 99) })
	task.Cancel()
	c.Schedule(5, func() { order = append(order, 5) })

	render(t, c, testRate/10)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Expected [1 2], got %v", order)
	}
	if c.PendingTasks() != 1 {
		t.Errorf("Expected 1 pending task, got %d", c.PendingTasks())
	}
}

// TestScheduleLookahead verifies tasks fire ahead of the clock by the lookahead
func TestScheduleLookahead(t *testing.T) {
	c := NewContext(testRate)
	c.SetLookahead(0.1)
	fired := -1.0
	c.Schedule(0.1, func() { fired = c.CurrentTime() })
	render(t, c, quantum)
	if fired != 0 {
		t.Errorf("Expected task to fire at time 0, got %f", fired)
	}
}

// TestRenderCancelled verifies cancellation stops offline rendering
func TestRenderCancelled(t *testing.T) {
	c := NewContext(testRate)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Render(ctx, testRate); err == nil {
		t.Error("Expected error from cancelled render")
	}
}

// TestDisconnect verifies removed connections stop contributing
func TestDisconnect(t *testing.T) {
	c := NewContext(testRate)
	src := constSource(c)
	src.Connect(c.Destination())
	src.Connect(c.Destination())

	out := render(t, c, quantum)
	if out[0] != 1 {
		t.Errorf("Expected duplicate connection to count once, got %f", out[0])
	}

	src.Disconnect()
	out = render(t, c, quantum)
	if out[0] != 0 {
		t.Errorf("Expected silence after disconnect, got %f", out[0])
	}
	if c.FramesRendered() != 2*quantum {
		t.Errorf("Expected %d frames rendered, got %d", 2*quantum, c.FramesRendered())
	}
}
