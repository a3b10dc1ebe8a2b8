// Package ocr reads the printed annotation back and scores it against the expected text.
package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable is returned when the binary was built without an OCR engine
var ErrUnavailable = errors.New("ocr engine not available")

// Reader extracts text from an image
type Reader interface {
	ReadText(ctx context.Context, img image.Image) (string, error)
	Close() error
}

// Options configures the OCR engine
type Options struct {
	Language       string
	TessdataPrefix string
}
