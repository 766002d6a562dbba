package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mrsinham/camoforge/internal/cache"
	"github.com/mrsinham/camoforge/internal/config"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(opts).Router())
	t.Cleanup(ts.Close)
	return ts
}

func decodePNG(t *testing.T, r io.Reader) image.Image {
	t.Helper()
	img, err := png.Decode(r)
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	return img
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok\n" {
		t.Errorf("expected ok, got %q", body)
	}
}

func TestPresets(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/api/presets")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var groups []presetResponse
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 6 {
		t.Errorf("expected 6 categories, got %d", len(groups))
	}
	found := false
	for _, g := range groups {
		for _, p := range g.Presets {
			if p.ID == "woodland" {
				found = true
				if len(p.Colors) == 0 {
					t.Error("woodland preset has no colors")
				}
			}
		}
	}
	if !found {
		t.Error("woodland preset missing")
	}
}

func TestStyles(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/api/styles")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var styles []styleResponse
	if err := json.NewDecoder(resp.Body).Decode(&styles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(styles) != 5 {
		t.Fatalf("expected 5 styles, got %d", len(styles))
	}
	for _, s := range styles {
		if s.Description == "" || len(s.Categories) == 0 {
			t.Errorf("style %s lacks description or categories", s.ID)
		}
	}
}

func TestRender_PNG(t *testing.T) {
	ts := newTestServer(t, Options{})

	q := url.Values{}
	q.Set("pattern", "mosaic")
	q.Set("preset", "marpat-woodland")
	q.Set("width", "64")
	q.Set("height", "40")
	q.Set("seed", "12")

	resp, err := http.Get(ts.URL + "/render.png?" + q.Encode())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	img := decodePNG(t, resp.Body)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 40 {
		t.Errorf("expected 64x40, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRender_OtherFormats(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		path string
		ct   string
	}{
		{"/render.jpg", "image/jpeg"},
		{"/render.bmp", "image/bmp"},
		{"/render.tiff", "image/tiff"},
		{"/render.dcm", "application/dicom"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path + "?width=16&height=16")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.ct {
				t.Errorf("expected %s, got %s", tt.ct, ct)
			}
		})
	}
}

func TestRender_Cached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, Options{Cache: c})
	path := ts.URL + "/render.png?pattern=stripes&width=32&height=32&seed=3&noise_seed=4"

	var bodies [2][]byte
	for i, want := range []string{"MISS", "HIT"} {
		resp, err := http.Get(path)
		if err != nil {
			t.Fatal(err)
		}
		bodies[i], _ = io.ReadAll(resp.Body)
		resp.Body.Close()
		if got := resp.Header.Get("X-Cache"); got != want {
			t.Errorf("request %d: expected X-Cache %s, got %s", i, want, got)
		}
	}
	if !bytes.Equal(bodies[0], bodies[1]) {
		t.Error("cached body differs from rendered body")
	}
}

func TestRender_NonFiniteValuesKeepDistinctKeys(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, Options{Cache: c})

	var bodies [2][]byte
	for i, query := range []string{
		"noise_seed=1&pattern=matte&scale=NaN&width=24&height=24",
		"noise_seed=1&pattern=stripes&contrast=NaN&width=24&height=24",
	} {
		resp, err := http.Get(ts.URL + "/render.png?" + query)
		if err != nil {
			t.Fatal(err)
		}
		bodies[i], _ = io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.StatusCode)
		}
		if got := resp.Header.Get("X-Cache"); got != "MISS" {
			t.Errorf("request %d: expected MISS, got %s", i, got)
		}
	}
	if bytes.Equal(bodies[0], bodies[1]) {
		t.Error("different patterns were served the same image")
	}
}

func TestRender_NotCached(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"entropy grain", "pattern=matte&grain=entropy&noise_seed=4&width=16&height=16"},
		{"process noise table", "pattern=matte&width=16&height=16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := cache.NewFileCache(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			ts := newTestServer(t, Options{Cache: c})

			for i := 0; i < 2; i++ {
				resp, err := http.Get(ts.URL + "/render.png?" + tt.query)
				if err != nil {
					t.Fatal(err)
				}
				resp.Body.Close()
				if got := resp.Header.Get("X-Cache"); got != "MISS" {
					t.Errorf("request %d: expected MISS, got %s", i, got)
				}
			}
		})
	}
}

func TestIsCacheable(t *testing.T) {
	tests := []struct {
		noise     string
		noiseSeed uint64
		grain     string
		expected  bool
	}{
		{"", 0, "", false},
		{"classic", 0, "seeded", false},
		{"classic", 3, "seeded", true},
		{"simplex", 0, "", true},
		{"perlin", 3, "entropy", false},
	}

	for _, tt := range tests {
		cfg := config.Default()
		cfg.Noise, cfg.NoiseSeed, cfg.Grain = tt.noise, tt.noiseSeed, tt.grain
		if got := isCacheable(cfg); got != tt.expected {
			t.Errorf("isCacheable(%s/%d/%q) = %v, want %v", tt.noise, tt.noiseSeed, tt.grain, got, tt.expected)
		}
	}
}

func TestRender_BadRequests(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		query  string
		status int
	}{
		{"/render.png?pattern=plaid", http.StatusBadRequest},
		{"/render.png?scale=big", http.StatusBadRequest},
		{"/render.png?width=1.5", http.StatusBadRequest},
		{"/render.png?edges=maybe", http.StatusBadRequest},
		{"/render.png?noise_seed=-1", http.StatusBadRequest},
		{"/render.png?preset=tartan", http.StatusBadRequest},
		{"/render.gif", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("expected JSON error body, err=%v body=%v", err, body)
			}
		})
	}
}

func TestRender_Views(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/render.png?view=environment&width=8&height=8")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	img := decodePNG(t, resp.Body)

	// Without a background the environment view is opaque black.
	r, g, b, a := img.At(4, 4).RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("expected opaque black, got %d %d %d %d", r, g, b, a)
	}
}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("background", "bg.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestComposite_Upload(t *testing.T) {
	ts := newTestServer(t, Options{})

	body, ct := multipartBody(t, map[string]string{
		"width":        "20",
		"height":       "10",
		"show_overlay": "false",
	}, solidPNG(t, 40, 20, color.RGBA{200, 10, 10, 255}))

	resp, err := http.Post(ts.URL+"/composite.png", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, msg)
	}

	img := decodePNG(t, resp.Body)
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("expected 20x10, got %dx%d", b.Dx(), b.Dy())
	}
	// Overlay hidden: the background shows through unchanged.
	r, _, _, _ := img.At(10, 5).RGBA()
	if r>>8 < 195 {
		t.Errorf("expected the red background, got r=%d", r>>8)
	}
}

func TestComposite_Errors(t *testing.T) {
	ts := newTestServer(t, Options{MaxUpload: 1024})

	t.Run("too large", func(t *testing.T) {
		body, ct := multipartBody(t, nil, bytes.Repeat([]byte{0}, 4096))
		resp, err := http.Post(ts.URL+"/composite.png", ct, body)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Errorf("expected 413, got %d", resp.StatusCode)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		body, ct := multipartBody(t, nil, []byte("hello, world"))
		resp, err := http.Post(ts.URL+"/composite.png", ct, body)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnsupportedMediaType {
			t.Errorf("expected 415, got %d", resp.StatusCode)
		}
	})

	t.Run("not multipart", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/composite.png", "text/plain", strings.NewReader("x"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestComposite_NoBackground(t *testing.T) {
	ts := newTestServer(t, Options{})

	body, ct := multipartBody(t, map[string]string{"width": "12", "height": "12"}, nil)
	resp, err := http.Post(ts.URL+"/composite.png", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	decodePNG(t, resp.Body)
}

func TestConfigFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("pattern", "panels")
	v.Set("palette", "#111111, #222222,,")
	v.Set("alpha", "0.25")
	v.Set("edges", "true")
	v.Set("noise", "simplex")
	v.Set("noise_seed", "77")

	cfg, err := configFromValues(v)
	if err != nil {
		t.Fatalf("configFromValues: %v", err)
	}
	if cfg.Pattern != "panels" || cfg.Alpha != 0.25 || !cfg.Edges {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Palette) != 2 {
		t.Errorf("expected 2 palette entries, got %v", cfg.Palette)
	}
	if cfg.Noise != "simplex" || cfg.NoiseSeed != 77 {
		t.Errorf("expected simplex/77, got %s/%d", cfg.Noise, cfg.NoiseSeed)
	}
}

func TestConfigFromValues_NonFinite(t *testing.T) {
	def := config.Default()
	v := url.Values{}
	v.Set("scale", "NaN")
	v.Set("contrast", "+Inf")
	v.Set("alpha", "-Inf")

	cfg, err := configFromValues(v)
	if err != nil {
		t.Fatalf("configFromValues: %v", err)
	}
	if cfg.Scale != def.Scale || cfg.Contrast != def.Contrast || cfg.Alpha != def.Alpha {
		t.Errorf("expected defaults %v/%v/%v, got %v/%v/%v",
			def.Scale, def.Contrast, def.Alpha, cfg.Scale, cfg.Contrast, cfg.Alpha)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Options{}).ListenAndServe(ctx, "127.0.0.1:0")
	}()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
