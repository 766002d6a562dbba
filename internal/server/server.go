// Package server serves renders over HTTP so a browser can preview
// patterns and composite them over uploaded backgrounds.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrsinham/camoforge/internal/cache"
	"github.com/mrsinham/camoforge/internal/composite"
	"github.com/mrsinham/camoforge/internal/palette"
)

// DefaultTTL is the lifetime of cached renders.
const DefaultTTL = 24 * time.Hour

// Options configures a Server. Zero values select defaults.
type Options struct {
	Cache   cache.Cache
	Catalog *palette.Catalog
	Logger  *log.Logger
	TTL     time.Duration
	// MaxUpload bounds background uploads in bytes.
	MaxUpload int64
	// RenderTimeout bounds a single request.
	RenderTimeout time.Duration
}

// Server holds the shared state of the HTTP handlers.
type Server struct {
	cache         cache.Cache
	catalog       *palette.Catalog
	logger        *log.Logger
	ttl           time.Duration
	maxUpload     int64
	renderTimeout time.Duration
}

// New creates a server with the given options.
func New(opts Options) *Server {
	s := &Server{
		cache:         opts.Cache,
		catalog:       opts.Catalog,
		logger:        opts.Logger,
		ttl:           opts.TTL,
		maxUpload:     opts.MaxUpload,
		renderTimeout: opts.RenderTimeout,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.catalog == nil {
		s.catalog = palette.DefaultCatalog()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.ttl == 0 {
		s.ttl = DefaultTTL
	}
	if s.maxUpload <= 0 {
		s.maxUpload = composite.DefaultMaxBytes()
	}
	if s.renderTimeout <= 0 {
		s.renderTimeout = time.Minute
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.renderTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Get("/styles", s.handleStyles)
	})
	r.Get("/render.{format}", s.handleRender)
	r.Post("/composite.{format}", s.handleComposite)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}
