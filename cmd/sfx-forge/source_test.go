package main

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/parameter"
)

func sourceCmd(t *testing.T, flags map[string]string) (*cobra.Command, *soundFlags) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	f := addSoundFlags(cmd)
	for k, v := range flags {
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}
	return cmd, f
}

// TestResolveSources verifies each flag selects its sound
func TestResolveSources(t *testing.T) {
	cmd, f := sourceCmd(t, map[string]string{"seed": "42"})
	if p, err := f.resolve(cmd); err != nil || p.Name != audio.ParamsFromSeed(42).Name {
		t.Errorf("Expected seed 42 sound, got %s (%v)", p.Name, err)
	}

	cmd, f = sourceCmd(t, map[string]string{"preset": "classic laser"})
	if p, err := f.resolve(cmd); err != nil || p.Name != "Classic Laser" {
		t.Errorf("Expected Classic Laser, got %s (%v)", p.Name, err)
	}

	cmd, f = sourceCmd(t, map[string]string{"share": "https://example.test/?bf=880&wf=square"})
	p, err := f.resolve(cmd)
	if err != nil || p.BaseFrequency != 880 || p.WaveformPairs[0] != parameter.WaveSquare {
		t.Errorf("Expected square at 880 Hz, got %v at %f (%v)", p.WaveformPairs, p.BaseFrequency, err)
	}

	cmd, f = sourceCmd(t, nil)
	if p, err := f.resolve(cmd); err != nil || p.Name != parameter.Default().Name {
		t.Errorf("Expected default sound, got %s (%v)", p.Name, err)
	}
}

// TestResolveParamsStdin verifies JSON params are read from stdin
func TestResolveParamsStdin(t *testing.T) {
	cmd, f := sourceCmd(t, map[string]string{"params": "-"})
	cmd.SetIn(strings.NewReader(`{"name": "Piped", "decay": 0.2}`))

	p, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if p.Name != "Piped" || p.Decay != 0.2 {
		t.Errorf("Expected Piped with decay 0.2, got %s %f", p.Name, p.Decay)
	}
}

// TestResolveLibrarySound verifies --sound looks up the library file
func TestResolveLibrarySound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	os.WriteFile(path, []byte(`[{"name": "Zap", "baseFrequency": 1000}]`), 0o644)

	cmd, f := sourceCmd(t, map[string]string{"sound": "Zap", "library": path})
	if p, err := f.resolve(cmd); err != nil || p.BaseFrequency != 1000 {
		t.Errorf("Expected Zap at 1000 Hz, got %f (%v)", p.BaseFrequency, err)
	}

	cmd, f = sourceCmd(t, map[string]string{"sound": "Nope", "library": path})
	if _, err := f.resolve(cmd); err == nil || !strings.Contains(err.Error(), "Zap") {
		t.Errorf("Expected error listing available sounds, got %v", err)
	}

	cmd, f = sourceCmd(t, map[string]string{"sound": "Zap"})
	if _, err := f.resolve(cmd); err == nil {
		t.Error("Expected error without --library")
	}
}

// TestResolveErrors verifies conflicts and unknown presets fail
func TestResolveErrors(t *testing.T) {
	cmd, f := sourceCmd(t, map[string]string{"seed": "1", "preset": "Classic Laser"})
	if _, err := f.resolve(cmd); !errors.Is(err, errSourceConflict) {
		t.Errorf("Expected errSourceConflict, got %v", err)
	}

	cmd, f = sourceCmd(t, map[string]string{"preset": "No Such Preset"})
	if _, err := f.resolve(cmd); err == nil {
		t.Error("Expected unknown preset error")
	}
}

// TestExportAnalyzeRoundTrip verifies the export command writes a decodable WAV
func TestExportAnalyzeRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "laser.wav")
	rootCmd.SetArgs([]string{"export", "--preset", "Classic Laser", "--sample-rate", "8000", "-o", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	samples, rate, err := decodeWAV(out)
	if err != nil {
		t.Fatalf("decodeWAV failed: %v", err)
	}
	if rate != 8000 {
		t.Errorf("Expected 8000 Hz, got %d", rate)
	}

	p, _ := parameter.Preset("Classic Laser")
	want := math.Round(audio.ExportDuration(p) * 8000)
	if math.Abs(float64(len(samples))-want) > 1 {
		t.Errorf("Expected %.0f frames, got %d", want, len(samples))
	}
	res := audio.Analyze(samples, rate)
	if res.Peak == 0 {
		t.Error("Expected audible output")
	}

	// Levels read back from the file match the direct render
	rendered, err := audio.NewRenderer(8000, nil).Render(context.Background(), p)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	peak := math.Min(audio.Analyze(rendered, 8000).Peak, 1)
	if math.Abs(res.Peak-peak) > 1e-3 {
		t.Errorf("Expected file peak %f, got %f", peak, res.Peak)
	}
}
