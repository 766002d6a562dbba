package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mrsinham/camoforge/internal/filter"
	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/pattern"
)

func testOptions() Options {
	o := DefaultOptions()
	o.Style = pattern.Mosaic
	o.Field = noise.NewSeeded(21)
	o.Params.Width, o.Params.Height = 64, 48
	o.Params.Scale = 30
	return o
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestRender_PatternOnly(t *testing.T) {
	res, err := Render(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Composite == res.Pattern {
		t.Fatal("Composite must not alias the pattern buffer")
	}
	if !bytes.Equal(res.Composite.Pix, res.Pattern.Pix) {
		t.Error("Without background the composite should equal the pattern")
	}
	for i := 0; i < len(res.Environment.Pix); i += 4 {
		if !bytes.Equal(res.Environment.Pix[i:i+4], []uint8{0, 0, 0, 255}) {
			t.Fatal("Environment without background should be opaque black")
		}
	}
}

func TestRender_Filters(t *testing.T) {
	o := testOptions()
	o.Background = solid(32, 32, color.RGBA{200, 40, 40, 255})
	o.Vision = filter.Monochrome

	res, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, img := range []*image.RGBA{res.Composite, res.Environment} {
		for i := 0; i < len(img.Pix); i += 4 {
			if img.Pix[i] != img.Pix[i+1] || img.Pix[i+1] != img.Pix[i+2] {
				t.Fatalf("Pixel %d is not gray after monochrome filter", i/4)
			}
		}
	}

	o.Edges = true
	res, err = Render(context.Background(), o)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := res.Composite.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("Edge filter should clear the border, got %v", got)
	}
	// The environment is a flat color, so its interior has no edges.
	if got := res.Environment.RGBAAt(10, 10); got.R > 2 || got.A != 255 {
		t.Errorf("Flat environment should have no edges, got %v", got)
	}
}

func TestRender_OverlayHidden(t *testing.T) {
	o := testOptions()
	o.Background = solid(10, 10, color.RGBA{1, 2, 3, 255})
	o.ShowOverlay = false

	res, err := Render(context.Background(), o)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.Equal(res.Composite.Pix, res.Environment.Pix) {
		t.Error("With the overlay hidden the composite should equal the environment")
	}
}

func TestRender_Caption(t *testing.T) {
	o := testOptions()
	plain, err := Render(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	o.Caption = true
	stamped, err := Render(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain.Pattern.Pix, stamped.Pattern.Pix) {
		t.Error("Caption must not touch the pattern buffer")
	}
	if bytes.Equal(plain.Composite.Pix, stamped.Composite.Pix) {
		t.Error("Caption should change the composite")
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, testOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRender_InvalidNoise(t *testing.T) {
	o := testOptions()
	o.Field = nil
	o.Noise = "wavelet"
	o.NoiseSeed = 3
	if _, err := Render(context.Background(), o); err == nil {
		t.Error("Expected error for unknown noise backend")
	}
}

func TestOptions_NoiseField(t *testing.T) {
	o := DefaultOptions()
	f, err := o.NoiseField()
	if err != nil || f != noise.Default() {
		t.Errorf("Classic backend with zero seed should use the default engine, got %v, %v", f, err)
	}

	for _, b := range noise.AllBackends() {
		o.Noise, o.NoiseSeed = b, 9
		a, err := o.NoiseField()
		if err != nil {
			t.Fatalf("%s: %v", b, err)
		}
		c, _ := o.NoiseField()
		if a.Noise2(1.3, 4.7) != c.Noise2(1.3, 4.7) {
			t.Errorf("%s: fields from the same seed differ", b)
		}
	}
}

func TestBatch_OrderedAndEqualToRender(t *testing.T) {
	o := testOptions()
	seeds := SeedSequence(0, 250, 6)

	var calls atomic.Int32
	results, err := Batch(context.Background(), o, seeds, BatchOptions{
		Workers:  3,
		Progress: func(completed, total int) { calls.Add(1) },
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(results) != len(seeds) {
		t.Fatalf("Expected %d results, got %d", len(seeds), len(results))
	}
	if int(calls.Load()) != len(seeds) {
		t.Errorf("Expected %d progress calls, got %d", len(seeds), calls.Load())
	}

	for i, seed := range seeds {
		single := o
		single.Params.Seed = seed
		want, err := Render(context.Background(), single)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(results[i].Composite.Pix, want.Composite.Pix) {
			t.Errorf("Result %d differs from a single render with seed %v", i, seed)
		}
	}
}

func TestBatch_Sink(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}
	results, err := Batch(context.Background(), testOptions(), SeedSequence(1, 1, 4), BatchOptions{
		Sink: func(index int, r *Result) error {
			mu.Lock()
			defer mu.Unlock()
			if r == nil || r.Composite == nil {
				return errors.New("empty result")
			}
			seen[index] = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(seen) != 4 {
		t.Errorf("Sink saw %d results, want 4", len(seen))
	}
	for i, r := range results {
		if r != nil {
			t.Errorf("Result %d should not be retained when a sink is set", i)
		}
	}
}

func TestBatch_FirstErrorWins(t *testing.T) {
	boom := errors.New("disk full")
	_, err := Batch(context.Background(), testOptions(), SeedSequence(0, 1, 5), BatchOptions{
		Workers: 2,
		Sink: func(index int, r *Result) error {
			return boom
		},
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected sink error, got %v", err)
	}
}

func TestBatch_Empty(t *testing.T) {
	results, err := Batch(context.Background(), testOptions(), nil, BatchOptions{})
	if err != nil || results != nil {
		t.Errorf("Expected nil results, got %v, %v", results, err)
	}
}

func TestStamp(t *testing.T) {
	img := solid(120, 40, color.RGBA{128, 128, 128, 255})
	Stamp(img, "mosaic seed 1.00")

	white, black := 0, 0
	for i := 0; i < len(img.Pix); i += 4 {
		switch img.Pix[i] {
		case 255:
			white++
		case 0:
			black++
		}
	}
	if white == 0 || black == 0 {
		t.Errorf("Expected white text with black outline, got %d white and %d black pixels", white, black)
	}

	before := bytes.Clone(img.Pix)
	Stamp(img, "")
	if !bytes.Equal(before, img.Pix) {
		t.Error("Empty text should leave the image untouched")
	}
}

func TestSeedSequence(t *testing.T) {
	got := SeedSequence(10, 0.5, 3)
	want := []float64{10, 10.5, 11}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SeedSequence[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
