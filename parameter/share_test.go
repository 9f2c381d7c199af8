package parameter

import (
	"math"
	"net/url"
	"strings"
	"testing"
)

// TestShareRoundTrip verifies every preset survives encode/decode
func TestShareRoundTrip(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.Name, func(t *testing.T) {
			q := EncodeShare(p)
			got := DecodeShare(q)
			if EncodeShare(got) != q {
				t.Errorf("Expected stable encoding\n%s\n%s", q, EncodeShare(got))
			}
			if got.Name != p.Name {
				t.Errorf("Expected name %q, got %q", p.Name, got.Name)
			}
		})
	}
}

// TestShareShortKeys verifies the compact key names and list formatting
func TestShareShortKeys(t *testing.T) {
	p := Default()
	p.BaseFrequency = 880
	p.WaveformPairs = []Waveform{WaveSquare, WaveTriangle}
	p.SequenceOffsets = [SequenceSlots]float64{0, 3, 7, 10}

	v, err := url.ParseQuery(EncodeShare(p))
	if err != nil {
		t.Fatalf("Encoded query did not parse: %v", err)
	}
	if v.Get("bf") != "880" {
		t.Errorf("Expected bf=880, got %q", v.Get("bf"))
	}
	if v.Get("wf") != "square,triangle" {
		t.Errorf("Expected wf=square,triangle, got %q", v.Get("wf"))
	}
	if v.Get("so") != "0,3,7,10" {
		t.Errorf("Expected so=0,3,7,10, got %q", v.Get("so"))
	}
	if v.Has("de") {
		t.Error("Expected default decay to be omitted")
	}
}

// TestDecodeShareMalformed verifies bad values fall back to defaults
func TestDecodeShareMalformed(t *testing.T) {
	p := DecodeShare("?bf=abc&de=0.3&so=1,x,3&at=NaN&pm=sideways")
	d := Default()
	if p.BaseFrequency != d.BaseFrequency {
		t.Errorf("Expected default frequency, got %f", p.BaseFrequency)
	}
	if p.Decay != 0.3 {
		t.Errorf("Expected decay 0.3, got %f", p.Decay)
	}
	if p.SequenceOffsets != d.SequenceOffsets {
		t.Errorf("Expected default offsets, got %v", p.SequenceOffsets)
	}
	if math.IsNaN(p.Attack) || p.Attack != d.Attack {
		t.Errorf("Expected default attack, got %f", p.Attack)
	}
	if p.PlaybackMode != PlayOnce {
		t.Errorf("Expected once, got %q", p.PlaybackMode)
	}
}

// TestDecodeShareInvalidQuery verifies unparsable queries decode to defaults
func TestDecodeShareInvalidQuery(t *testing.T) {
	p := DecodeShare("%zz")
	if p.Name != Default().Name {
		t.Errorf("Expected defaults, got %q", p.Name)
	}
}

// TestEncodeShareDefaults verifies the default sound encodes to an empty query
func TestEncodeShareDefaults(t *testing.T) {
	if q := EncodeShare(Default()); q != "" {
		t.Errorf("Expected empty query, got %q", q)
	}
	if strings.Contains(EncodeShare(Default()), "id=") {
		t.Error("Expected id to be excluded from share links")
	}
}
