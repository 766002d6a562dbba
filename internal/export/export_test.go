package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 90, 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"png", PNG, false},
		{"JPG", JPEG, false},
		{"jpeg", JPEG, false},
		{".tif", TIFF, false},
		{"bmp", BMP, false},
		{"dicom", DICOM, false},
		{"dcm", DICOM, false},
		{"gif", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("Expected ErrUnknownFormat, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("out/pattern.JPG"); err != nil || f != JPEG {
		t.Errorf("FormatFromPath(jpg) = %q, %v", f, err)
	}
	if _, err := FormatFromPath("pattern"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat for missing extension, got %v", err)
	}
	if JPEG.Extension() != ".jpg" || DICOM.Extension() != ".dcm" {
		t.Errorf("Unexpected extensions %q %q", JPEG.Extension(), DICOM.Extension())
	}
	if PNG.ContentType() != "image/png" || DICOM.ContentType() != "application/dicom" {
		t.Error("Unexpected content types")
	}
}

func TestEncode_RasterFormats(t *testing.T) {
	src := testImage(24, 16)
	for _, f := range []Format{PNG, JPEG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, f, Options{}); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			img, _, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
				t.Errorf("Decoded bounds %v", img.Bounds())
			}
			if f == PNG {
				if got := color.RGBAModel.Convert(img.At(3, 2)).(color.RGBA); got != src.RGBAAt(3, 2) {
					t.Errorf("PNG is lossless, got %v want %v", got, src.RGBAAt(3, 2))
				}
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, src, "webp", Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestWriteFile_DICOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pattern.dcm")
	if err := WriteFile(path, testImage(20, 10), Options{Description: "mosaic seed 1", UIDSeed: "run-1"}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		t.Fatalf("Failed to parse DICOM file: %v", err)
	}

	rows, err := ds.FindElementByTag(tag.Rows)
	if err != nil {
		t.Fatalf("Rows tag should exist: %v", err)
	}
	if got := dicom.MustGetInts(rows.Value)[0]; got != 10 {
		t.Errorf("Rows = %d, want 10", got)
	}
	cols, _ := ds.FindElementByTag(tag.Columns)
	if got := dicom.MustGetInts(cols.Value)[0]; got != 20 {
		t.Errorf("Columns = %d, want 20", got)
	}
	pi, _ := ds.FindElementByTag(tag.PhotometricInterpretation)
	if got := dicom.MustGetStrings(pi.Value)[0]; got != "RGB" {
		t.Errorf("PhotometricInterpretation = %q, want RGB", got)
	}
	sop, _ := ds.FindElementByTag(tag.SOPInstanceUID)
	if got := dicom.MustGetStrings(sop.Value)[0]; got != DeterministicUID("run-1_instance") {
		t.Errorf("SOPInstanceUID = %q", got)
	}
	if _, err := ds.FindElementByTag(tag.PixelData); err != nil {
		t.Errorf("PixelData tag should exist: %v", err)
	}
}

func sopInstanceUID(t *testing.T, img image.Image, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, img, DICOM, opts); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	ds, err := dicom.Parse(&buf, int64(buf.Len()), nil)
	if err != nil {
		t.Fatalf("Failed to parse DICOM: %v", err)
	}
	sop, err := ds.FindElementByTag(tag.SOPInstanceUID)
	if err != nil {
		t.Fatalf("SOPInstanceUID tag should exist: %v", err)
	}
	return dicom.MustGetStrings(sop.Value)[0]
}

func TestEncode_DICOMUIDsFollowPixels(t *testing.T) {
	solid := func(c color.RGBA) *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
		}
		return img
	}
	opts := Options{Description: "matte seed 0.00"}
	red := sopInstanceUID(t, solid(color.RGBA{255, 0, 0, 255}), opts)
	blue := sopInstanceUID(t, solid(color.RGBA{0, 0, 255, 255}), opts)

	if red == blue {
		t.Errorf("Different images share SOPInstanceUID %s", red)
	}
	if again := sopInstanceUID(t, solid(color.RGBA{255, 0, 0, 255}), opts); again != red {
		t.Errorf("Same image and description should keep its UID: %s != %s", again, red)
	}
}

func TestWriteFile_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.png")
	if err := WriteFile(path, testImage(8, 8), Options{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("Expected a non-empty file, got %v, %v", info, err)
	}
	if err := WriteFile(filepath.Join(t.TempDir(), "pattern.xyz"), testImage(8, 8), Options{}); err == nil {
		t.Error("Expected error for unknown extension")
	}
}

func TestDeterministicUID(t *testing.T) {
	seeds := []string{"test", "study_123_series_456", "this_is_a_very_long_seed_string_for_testing_uid_generation", ""}
	for _, seed := range seeds {
		uid := DeterministicUID(seed)
		if !strings.HasPrefix(uid, "2.25.") {
			t.Errorf("UID should start with 2.25., got %s", uid)
		}
		if len(uid) > 64 {
			t.Errorf("UID too long: %d chars: %s", len(uid), uid)
		}
		for _, c := range uid {
			if c != '.' && (c < '0' || c > '9') {
				t.Errorf("UID contains invalid character '%c': %s", c, uid)
				break
			}
		}
		for _, part := range strings.Split(uid, ".") {
			if len(part) > 1 && part[0] == '0' {
				t.Errorf("UID component %q has a leading zero: %s", part, uid)
			}
		}
		if DeterministicUID(seed) != uid {
			t.Errorf("UID for %q is not deterministic", seed)
		}
	}
	if DeterministicUID("a") == DeterministicUID("b") {
		t.Error("Different seeds should give different UIDs")
	}
}

func TestSequencePath(t *testing.T) {
	tests := []struct {
		path         string
		index, total int
		expected     string
	}{
		{"camo.png", 0, 1, "camo.png"},
		{"camo.png", 0, 5, "camo-001.png"},
		{"out/camo.dcm", 6, 12, filepath.Join("out", "camo-007.dcm")},
		{"camo", 1, 2, "camo-002"},
		{"camo.png", 41, 1500, "camo-0042.png"},
	}
	for _, tt := range tests {
		if got := SequencePath(tt.path, tt.index, tt.total); got != tt.expected {
			t.Errorf("SequencePath(%q, %d, %d) = %q, want %q", tt.path, tt.index, tt.total, got, tt.expected)
		}
	}
}
