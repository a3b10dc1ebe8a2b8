package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// Decoded is a source bitmap with the content type it was sniffed as
type Decoded struct {
	Image    image.Image
	MIMEType string
	Bytes    int
}

// Decode sniffs data, enforces the byte and pixel limits and decodes it. Every failure is a validation error.
func Decode(data []byte, maxBytes int64) (*Decoded, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("Invalid file: please select a valid image.", nil)
	}
	mtype := mimetype.Detect(data)
	if !isImage(mtype) {
		return nil, apperrors.NewValidationError("Invalid file: please select a valid image.", nil).WithDetails(mtype.String())
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperrors.NewValidationError("Invalid file: unable to decode image.", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > profile.MaxInputPixels {
		return nil, apperrors.NewValidationError("Invalid file: image is too large to process.", nil).
			WithDetails(fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid file: unable to decode image.", err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, apperrors.NewValidationError("Invalid file: unable to decode image.", nil)
	}
	return &Decoded{Image: img, MIMEType: mtype.String(), Bytes: len(data)}, nil
}

func isImage(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

func tooLarge(maxBytes int64) error {
	return apperrors.NewValidationError(fmt.Sprintf("Invalid file: image is larger than %dMB.", maxBytes/profile.MB), nil)
}
