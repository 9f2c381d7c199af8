package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/parameter"
)

// compositionRequest is the POST /composition body. Without sounds the
// library and presets resolve track references.
type compositionRequest struct {
	State  parameter.CompositionState `json:"state"`
	Sounds []parameter.SoundParams    `json:"sounds"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, parameter.Presets())
}

func (s *Server) handleSounds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.library.Keys())
}

// handleSoundWAV renders a library sound by id or name
func (s *Server) handleSoundWAV(w http.ResponseWriter, r *http.Request) {
	key, _ := strings.CutSuffix(chi.URLParam(r, "key"), ".wav")
	p, ok := s.library.Sound(key)
	if !ok {
		http.Error(w, fmt.Sprintf("sound %q not found", key), http.StatusNotFound)
		return
	}
	s.renderCached(w, r, p)
}

// handleSeed returns the seeded params as JSON, or as WAV with a .wav suffix
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	raw, wav := strings.CutSuffix(chi.URLParam(r, "seed"), ".wav")
	seed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, "seed must be an unsigned 32-bit integer", http.StatusBadRequest)
		return
	}

	p := audio.ParamsFromSeed(uint32(seed))
	if !wav {
		s.writeJSON(w, p)
		return
	}
	s.renderCached(w, r, p)
}

// handleShareWAV renders the params carried in the share query
func (s *Server) handleShareWAV(w http.ResponseWriter, r *http.Request) {
	s.renderCached(w, r, parameter.FromShareValues(r.URL.Query()))
}

// handleRender renders a JSON params document
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constant.ServerMaxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	p, err := parameter.Decode(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.renderCached(w, r, p)
}

// handleComposition renders one cycle of a composer grid
func (s *Server) handleComposition(w http.ResponseWriter, r *http.Request) {
	var req compositionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, constant.ServerMaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid composition: %v", err), http.StatusBadRequest)
		return
	}

	var sounds audio.SoundSource = s.sources()
	if len(req.Sounds) > 0 {
		sounds = audio.SoundList(req.Sounds)
	}

	data, err := s.renderer.ExportCompositionToWav(r.Context(), req.State, sounds)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.writeWAV(w, "composition.wav", data)
}

// sources resolves library sounds first, then presets
func (s *Server) sources() audio.SoundSource {
	return audio.SoundList(append(s.library.Sounds(), parameter.Presets()...))
}

// renderCached renders p keyed by its canonical share encoding
func (s *Server) renderCached(w http.ResponseWriter, r *http.Request, p parameter.SoundParams) {
	p = parameter.Sanitize(p)
	key := parameter.EncodeShare(p)

	data, hit, err := s.cache.getOrRender(key, func() ([]byte, error) {
		return s.renderer.ExportToWav(r.Context(), p)
	})
	if err != nil {
		s.renderError(w, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	s.writeWAV(w, p.FileName(), data)
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, audio.ErrExportTooLong):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error("render failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) writeWAV(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Write(data)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encode failed", zap.Error(err))
	}
}
