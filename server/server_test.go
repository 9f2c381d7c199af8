package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/library"
	"github.com/lixenwraith/sfx-forge/parameter"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	lib := library.New(nil)
	lib.Load([]byte(`[{"name": "Blip", "id": "blip", "decay": 0.05, "reverbAmount": 0}]`))
	return New(Config{SampleRate: 8000}, lib, nil)
}

func do(s *Server, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// wavRate reads the sample rate from a WAV header
func wavRate(t *testing.T, data []byte) int {
	t.Helper()
	if len(data) < 44 || string(data[0:4]) != "RIFF" {
		t.Fatalf("Expected WAV body, got %d bytes", len(data))
	}
	return int(binary.LittleEndian.Uint32(data[24:]))
}

// TestHealth verifies the health endpoint
func TestHealth(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Expected ok health, got %d %s", rec.Code, rec.Body.String())
	}
}

// TestPresets verifies the preset list is served as JSON
func TestPresets(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/presets", "")
	var presets []parameter.SoundParams
	if err := json.Unmarshal(rec.Body.Bytes(), &presets); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(presets) != len(parameter.Presets()) {
		t.Errorf("Expected %d presets, got %d", len(parameter.Presets()), len(presets))
	}
}

// TestSeedJSON verifies seeded params match the randomizer
func TestSeedJSON(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/seed/42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var p parameter.SoundParams
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := audio.ParamsFromSeed(42)
	if p.BaseFrequency != want.BaseFrequency || p.Name != want.Name {
		t.Errorf("Expected %s at %f Hz, got %s at %f Hz", want.Name, want.BaseFrequency, p.Name, p.BaseFrequency)
	}
}

// TestSeedWAVCached verifies WAV rendering and cache hits
func TestSeedWAVCached(t *testing.T) {
	s := newTestServer(t)

	first := do(s, http.MethodGet, "/seed/7.wav", "")
	if first.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", first.Code, first.Body.String())
	}
	if ct := first.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Expected audio/wav, got %q", ct)
	}
	if rate := wavRate(t, first.Body.Bytes()); rate != 8000 {
		t.Errorf("Expected 8000 Hz, got %d", rate)
	}
	if first.Header().Get("X-Cache") != "miss" {
		t.Errorf("Expected cache miss, got %q", first.Header().Get("X-Cache"))
	}

	second := do(s, http.MethodGet, "/seed/7.wav", "")
	if second.Header().Get("X-Cache") != "hit" {
		t.Errorf("Expected cache hit, got %q", second.Header().Get("X-Cache"))
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("Expected identical cached bytes")
	}
	if s.cache.len() != 1 {
		t.Errorf("Expected 1 cache entry, got %d", s.cache.len())
	}
}

// TestSeedInvalid verifies non-numeric seeds are rejected
func TestSeedInvalid(t *testing.T) {
	for _, target := range []string{"/seed/abc", "/seed/-1.wav", "/seed/99999999999"} {
		if rec := do(newTestServer(t), http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

// TestShareWAV verifies share queries and JSON bodies hit the same cache entry
func TestShareWAV(t *testing.T) {
	s := newTestServer(t)
	p := parameter.Default()
	p.BaseFrequency = 660
	p.Decay = 0.1

	rec := do(s, http.MethodGet, "/render.wav?"+parameter.EncodeShare(p), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body, _ := json.Marshal(p)
	rec = do(s, http.MethodPost, "/render", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "hit" {
		t.Errorf("Expected equivalent params to share a cache entry, got %q", rec.Header().Get("X-Cache"))
	}
}

// TestRenderBadJSON verifies malformed bodies are rejected
func TestRenderBadJSON(t *testing.T) {
	if rec := do(newTestServer(t), http.MethodPost, "/render", "{nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

// TestRenderTooLong verifies oversize renders map to 422
func TestRenderTooLong(t *testing.T) {
	body := `{"sequenceSteps": 4, "sequenceBpm": 30, "playbackMode": "ping-pong", "loopCount": 16}`
	if rec := do(newTestServer(t), http.MethodPost, "/render", body); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
}

// TestLibrarySounds verifies listing and rendering library sounds
func TestLibrarySounds(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodGet, "/sounds", "")
	var keys []string
	json.Unmarshal(rec.Body.Bytes(), &keys)
	if len(keys) != 1 || keys[0] != "Blip" {
		t.Errorf("Expected [Blip], got %v", keys)
	}

	rec = do(s, http.MethodGet, "/sounds/blip.wav", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "blip.wav") {
		t.Errorf("Expected blip.wav filename, got %q", cd)
	}

	if rec = do(s, http.MethodGet, "/sounds/nothing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

// TestComposition verifies a grid referencing a library sound renders one cycle
func TestComposition(t *testing.T) {
	s := newTestServer(t)
	body := `{"state": {"bpm": 120, "tracks": [
		{"soundId": "blip", "steps": [true, false, false, false, true, false, false, false],
		 "stepNotes": ["C4", "", "", "", "E4", "", "", ""], "volume": 0.8}
	]}}`

	rec := do(s, http.MethodPost, "/composition", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	// 8 steps of 0.125s at 8000 Hz
	frames := (rec.Body.Len() - 44) / 2
	if frames < 8000 {
		t.Errorf("Expected at least one cycle of frames, got %d", frames)
	}

	if rec = do(s, http.MethodPost, "/composition", "[]"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for wrong body shape, got %d", rec.Code)
	}
}

// TestServeShutdown verifies Serve returns after cancellation
func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- newTestServer(t).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Expected Serve to return")
	}
}
