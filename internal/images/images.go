// Package images validates uploaded pictures and produces the stored variants.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const (
	// MaxEdge bounds the stored original; larger uploads are scaled down.
	MaxEdge = 1600
	// ThumbEdge is the bounding box of the generated thumbnail.
	ThumbEdge = 320

	jpegQuality = 85
)

// ErrNotAnImage is returned when the uploaded bytes do not decode as an image.
var ErrNotAnImage = errors.New("file is not a supported image")

// Processed holds the JPEG-encoded variants of one upload.
type Processed struct {
	Original  []byte
	Thumbnail []byte
}

// Process decodes r, applies EXIF orientation, bounds the original to MaxEdge,
// and renders a ThumbEdge thumbnail. Both variants are re-encoded as JPEG so
// the store never holds the raw client bytes.
func Process(r io.Reader) (*Processed, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrNotAnImage
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}

	original := img
	if b := img.Bounds(); b.Dx() > MaxEdge || b.Dy() > MaxEdge {
		original = imaging.Fit(img, MaxEdge, MaxEdge, imaging.Lanczos)
	}
	thumb := imaging.Fit(img, ThumbEdge, ThumbEdge, imaging.Lanczos)

	var origBuf, thumbBuf bytes.Buffer
	if err := imaging.Encode(&origBuf, original, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode original: %w", err)
	}
	if err := imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return &Processed{Original: origBuf.Bytes(), Thumbnail: thumbBuf.Bytes()}, nil
}
