// Package imaging prepares uploaded photos for barcode decoding.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension bounds the longer side of a prepared scan.
const MaxDimension = 1600

// MaxUploadBytes is the largest accepted upload.
const MaxUploadBytes = 10 << 20

// ErrUnsupportedFormat is returned for uploads that are not JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = errors.New("image too large")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Scan is a normalized grayscale image, PNG encoded.
type Scan struct {
	Data          []byte
	Width, Height int
}

// Prepare sniffs the upload, decodes it, converts it to grayscale, shrinks
// it to MaxDimension and re-encodes it losslessly so bar edges stay sharp.
func Prepare(r io.Reader) (*Scan, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	if detected := http.DetectContentType(data); !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	gray := toGray(src, MaxDimension)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	b := gray.Bounds()
	return &Scan{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// toGray draws src into a grayscale canvas no larger than maxDim on either
// side, preserving aspect ratio. Smaller images are not upscaled.
func toGray(src image.Image, maxDim int) *image.Gray {
	bounds := src.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy(), maxDim)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

func fit(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w > h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
