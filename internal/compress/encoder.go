package compress

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"math"
)

// Encoder turns a surface into bytes at a quality in [0,1]
type Encoder interface {
	Encode(ctx context.Context, img image.Image, quality float64) ([]byte, error)
	MIMEType() string
}

// JPEGEncoder encodes baseline JPEG
type JPEGEncoder struct{}

// NewJPEGEncoder creates the default output encoder
func NewJPEGEncoder() *JPEGEncoder {
	return &JPEGEncoder{}
}

func (e *JPEGEncoder) MIMEType() string { return "image/jpeg" }

// Encode maps quality to the 1..100 JPEG scale
func (e *JPEGEncoder) Encode(ctx context.Context, img image.Image, quality float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func jpegQuality(q float64) int {
	v := int(math.Round(q * 100))
	return min(max(v, 1), 100)
}
