package composite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mrsinham/camoforge/internal/util"
)

// DefaultMaxSize is the largest background file accepted by default.
const DefaultMaxSize = "10MB"

var (
	// ErrUnsupportedImage is returned for data no registered decoder accepts.
	ErrUnsupportedImage = errors.New("unsupported image format")
	// ErrTooLarge is returned when a background exceeds the size limit.
	ErrTooLarge = errors.New("image exceeds size limit")
)

// DefaultMaxBytes returns DefaultMaxSize in bytes.
func DefaultMaxBytes() int64 {
	n, err := util.ParseSize(DefaultMaxSize)
	if err != nil {
		panic(err)
	}
	return n
}

// DecodeBackground reads at most maxBytes from r and decodes a JPEG, PNG,
// GIF, BMP, TIFF or WebP image. It returns the image and its format name.
// A non-positive maxBytes selects DefaultMaxBytes.
func DecodeBackground(r io.Reader, maxBytes int64) (image.Image, string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes()
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("%w: more than %s", ErrTooLarge, util.FormatSize(maxBytes))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// LoadBackground opens and decodes the background image at path.
func LoadBackground(path string, maxBytes int64) (image.Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat background: %w", err)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrTooLarge, path, util.FormatSize(info.Size()), util.FormatSize(maxBytes))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open background: %w", err)
	}
	defer f.Close()

	img, _, err := DecodeBackground(f, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("background %s: %w", path, err)
	}
	return img, nil
}
