// Package library holds named sound presets loaded from JSON documents and
// plays them through an audio engine with per-trigger overrides.
package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/parameter"
)

var (
	// ErrEmptyDocument is returned for blank library input
	ErrEmptyDocument = errors.New("empty library document")
	// ErrInvalidDocument is returned for input that is not JSON
	ErrInvalidDocument = errors.New("invalid library document")
)

// Library maps sound names to parameter sets. Lookups fall back from id
// to name so composer tracks can reference either.
type Library struct {
	mu     sync.RWMutex
	byName map[string]parameter.SoundParams
	order  []string // Insertion order of names
	logger *zap.Logger
}

// New creates an empty library; nil logger discards
func New(logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		byName: make(map[string]parameter.SoundParams),
		logger: logger,
	}
}

// Parse decodes an array of sounds or a single sound object. Entries
// without a name are skipped; a malformed document is an error.
func Parse(data []byte) ([]parameter.SoundParams, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	var entries []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("library: %w", err)
		}
	} else {
		if !json.Valid(data) {
			return nil, fmt.Errorf("library: %w", ErrInvalidDocument)
		}
		entries = []json.RawMessage{data}
	}

	sounds := make([]parameter.SoundParams, 0, len(entries))
	for _, raw := range entries {
		var head struct {
			Name string `json:"name"`
		}
		// Non-object entries and missing names are not sounds
		if err := json.Unmarshal(raw, &head); err != nil || strings.TrimSpace(head.Name) == "" {
			continue
		}
		p, err := parameter.Decode(raw)
		if err != nil {
			continue
		}
		sounds = append(sounds, p)
	}
	return sounds, nil
}

// Load registers every named sound in data, replacing same-named entries,
// and returns how many were registered
func (l *Library) Load(data []byte) (int, error) {
	sounds, err := Parse(data)
	if err != nil {
		l.logger.Warn("library load failed", zap.Error(err))
		return 0, err
	}

	l.mu.Lock()
	for _, p := range sounds {
		l.putLocked(p)
	}
	size := len(l.order)
	l.mu.Unlock()

	l.logger.Debug("library loaded", zap.Int("sounds", len(sounds)), zap.Int("size", size))
	return len(sounds), nil
}

// LoadFile reads a library document from disk
func (l *Library) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("library: %w", err)
	}
	return l.Load(data)
}

// Replace swaps the whole library for the sounds in data. On error the
// current contents are kept.
func (l *Library) Replace(data []byte) (int, error) {
	sounds, err := Parse(data)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	l.byName = make(map[string]parameter.SoundParams, len(sounds))
	l.order = l.order[:0]
	for _, p := range sounds {
		l.putLocked(p)
	}
	n := len(l.order)
	l.mu.Unlock()
	return n, nil
}

// Add registers a single sound under its name
func (l *Library) Add(p parameter.SoundParams) {
	if p.Name == "" {
		return
	}
	l.mu.Lock()
	l.putLocked(parameter.Sanitize(p))
	l.mu.Unlock()
}

func (l *Library) putLocked(p parameter.SoundParams) {
	if _, exists := l.byName[p.Name]; !exists {
		l.order = append(l.order, p.Name)
	}
	l.byName[p.Name] = p
}

// Sound resolves key as an id first, then as a name
func (l *Library) Sound(key string) (parameter.SoundParams, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if key == "" {
		return parameter.SoundParams{}, false
	}
	for _, name := range l.order {
		if p := l.byName[name]; p.ID == key {
			return p.Clone(), true
		}
	}
	p, ok := l.byName[key]
	if !ok {
		return parameter.SoundParams{}, false
	}
	return p.Clone(), true
}

// Keys returns sound names in registration order
func (l *Library) Keys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.order...)
}

// Sounds returns every sound in registration order
func (l *Library) Sounds() []parameter.SoundParams {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]parameter.SoundParams, len(l.order))
	for i, name := range l.order {
		out[i] = l.byName[name].Clone()
	}
	return out
}

// Len returns the number of registered sounds
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Clear removes all sounds
func (l *Library) Clear() {
	l.mu.Lock()
	l.byName = make(map[string]parameter.SoundParams)
	l.order = nil
	l.mu.Unlock()
}
