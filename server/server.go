// Package server exposes the offline renderer over HTTP: sounds by seed,
// share query, JSON document or library name, returned as WAV.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lixenwraith/sfx-forge/audio"
	"github.com/lixenwraith/sfx-forge/constant"
	"github.com/lixenwraith/sfx-forge/library"
)

// Config holds server configuration
type Config struct {
	Port       int
	SampleRate int
}

// Server is the HTTP render service
type Server struct {
	config   Config
	router   *chi.Mux
	renderer *audio.Renderer
	library  *library.Library
	cache    *wavCache
	logger   *zap.Logger
}

// New creates a server; lib may be nil, nil logger discards
func New(cfg Config, lib *library.Library, logger *zap.Logger) *Server {
	if cfg.Port == 0 {
		cfg.Port = constant.ServerDefaultPort
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if lib == nil {
		lib = library.New(logger)
	}

	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		renderer: audio.NewRenderer(cfg.SampleRate, logger),
		library:  lib,
		cache:    newWAVCache(constant.ServerCacheEntries),
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler { return s.router }

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/presets", s.handlePresets)
	r.Get("/sounds", s.handleSounds)
	r.Get("/sounds/{key}", s.handleSoundWAV)
	r.Get("/seed/{seed}", s.handleSeed)
	r.Get("/render.wav", s.handleShareWAV)
	r.Post("/render", s.handleRender)
	r.Post("/composition", s.handleComposition)
}

// requestLogger logs one line per request at debug level
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  constant.ServerReadTimeout,
		WriteTimeout: constant.ServerWriteTimeout,
		IdleTimeout:  constant.ServerIdleTimeout,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()

		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constant.ServerShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", zap.Error(err))
		}
	}()

	s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
