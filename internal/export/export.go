// Package export encodes rendered buffers to image files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output encoding.
type Format string

const (
	PNG   Format = "png"
	JPEG  Format = "jpeg"
	BMP   Format = "bmp"
	TIFF  Format = "tiff"
	DICOM Format = "dcm" // RGB Secondary Capture
)

// ErrUnknownFormat is returned for unrecognized format names or extensions.
var ErrUnknownFormat = errors.New("unknown output format")

// AllFormats returns all supported formats.
func AllFormats() []Format {
	return []Format{PNG, JPEG, BMP, TIFF, DICOM}
}

var formatAliases = map[string]Format{
	"png":   PNG,
	"jpeg":  JPEG,
	"jpg":   JPEG,
	"bmp":   BMP,
	"tiff":  TIFF,
	"tif":   TIFF,
	"dcm":   DICOM,
	"dicom": DICOM,
}

// ParseFormat parses a format name such as "png", "jpg" or "dicom".
func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))]
	if !ok {
		return "", fmt.Errorf("%w %q, valid options: %v", ErrUnknownFormat, s, AllFormats())
	}
	return f, nil
}

// FormatFromPath infers the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Extension returns the canonical file extension, with the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case DICOM:
		return "application/dicom"
	default:
		return "image/png"
	}
}

// Options tunes encoding.
type Options struct {
	// JPEGQuality is 1..100; zero selects 90.
	JPEGQuality int
	// Description is stored in the DICOM series description.
	Description string
	// UIDSeed makes DICOM UIDs deterministic; empty derives them from
	// the description and a hash of the pixel data, so distinct images
	// never share a SOP Instance UID.
	UIDSeed string
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, opts Options) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		q := opts.JPEGQuality
		if q <= 0 {
			q = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: min(q, 100)})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case DICOM:
		return encodeDICOM(w, img, opts)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// WriteFile encodes img to path, inferring the format from its extension.
// Missing parent directories are created.
func WriteFile(path string, img image.Image, opts Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if err := Encode(out, img, f, opts); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

// SequencePath numbers path for the index-th file of a run of total files:
// "out/camo.png" becomes "out/camo-007.png". A single file keeps its path.
func SequencePath(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	width := len(strconv.Itoa(total))
	if width < 3 {
		width = 3
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%0*d%s", strings.TrimSuffix(path, ext), width, index+1, ext)
}
