package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mrsinham/camoforge/internal/cache"
	"github.com/mrsinham/camoforge/internal/composite"
	"github.com/mrsinham/camoforge/internal/config"
	"github.com/mrsinham/camoforge/internal/export"
	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/palette"
	"github.com/mrsinham/camoforge/internal/pattern"
	"github.com/mrsinham/camoforge/internal/render"
)

// Views selectable with the "view" parameter.
const (
	viewComposite   = "composite"
	viewPattern     = "pattern"
	viewEnvironment = "environment"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

type presetResponse struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Presets  []preset `json:"presets"`
}

type preset struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	var out []presetResponse
	for _, key := range s.catalog.CategoryKeys() {
		group := presetResponse{Category: key, Label: palette.CategoryLabel(key)}
		for _, p := range s.catalog.Presets(key) {
			group.Presets = append(group.Presets, preset{ID: p.ID, Name: p.Name(), Colors: p.Palette().Hex()})
		}
		out = append(out, group)
	}
	writeJSON(w, http.StatusOK, out)
}

type styleResponse struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	var out []styleResponse
	for _, st := range pattern.AllStyles() {
		out = append(out, styleResponse{
			ID:          string(st),
			Description: st.Description(),
			Categories:  st.PresetCategories(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return
	}
	cfg, err := configFromValues(r.URL.Query())
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	view := r.URL.Query().Get("view")

	cacheable := isCacheable(cfg)
	key, err := cache.Key("render", cfg, view, format)
	if err != nil {
		s.logger.Warn("render not cacheable", "err", err)
		cacheable = false
	}
	if cacheable {
		if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
			s.logger.Warn("cache get failed", "err", err)
		} else if ok {
			writeImage(w, format, data, true)
			return
		}
	}

	data, err := s.render(r, cfg, nil, view, format)
	if err != nil {
		s.renderError(w, err)
		return
	}
	if cacheable {
		if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
			s.logger.Warn("cache set failed", "err", err)
		}
	}
	writeImage(w, format, data, false)
}

// isCacheable reports whether cfg renders the same bytes in every process.
// Entropy grain changes on every render and the unseeded classic engine is
// shuffled once per process, so neither may reach a shared cache.
func isCacheable(cfg *config.Config) bool {
	if cfg.Grain == string(pattern.GrainEntropy) {
		return false
	}
	classic := cfg.Noise == "" || cfg.Noise == string(noise.Classic)
	return !classic || cfg.NoiseSeed != 0
}

func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return
	}

	// Leave headroom for the other form fields.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			httpError(w, http.StatusRequestEntityTooLarge, composite.ErrTooLarge)
			return
		}
		httpError(w, http.StatusBadRequest, err)
		return
	}

	cfg, err := configFromValues(r.Form)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	var bg image.Image
	file, _, err := r.FormFile("background")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		httpError(w, http.StatusBadRequest, err)
		return
	default:
		defer file.Close()
		bg, _, err = composite.DecodeBackground(file, s.maxUpload)
		if err != nil {
			s.renderError(w, err)
			return
		}
	}

	data, err := s.render(r, cfg, bg, r.Form.Get("view"), format)
	if err != nil {
		s.renderError(w, err)
		return
	}
	writeImage(w, format, data, false)
}

func (s *Server) render(r *http.Request, cfg *config.Config, bg image.Image, view string, format export.Format) ([]byte, error) {
	opts, rejected, err := cfg.RenderOptions(s.catalog)
	if err != nil {
		return nil, err
	}
	if len(rejected) > 0 {
		s.logger.Warn("invalid palette entries replaced with black", "entries", rejected)
	}
	opts.Background = bg

	res, err := render.Render(r.Context(), opts)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch view {
	case viewPattern:
		img = res.Pattern
	case viewEnvironment:
		img = res.Environment
	default:
		img = res.Composite
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, img, format, export.Options{Description: render.Caption(opts.Style, opts.Params.Seed)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, composite.ErrTooLarge):
		httpError(w, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, composite.ErrUnsupportedImage):
		httpError(w, http.StatusUnsupportedMediaType, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httpError(w, http.StatusServiceUnavailable, err)
	default:
		s.logger.Error("render failed", "err", err)
		httpError(w, http.StatusBadRequest, err)
	}
}

func writeImage(w http.ResponseWriter, format export.Format, data []byte, hit bool) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
