//go:build !tesseract

package ocr

// NewReader reports ErrUnavailable; build with -tags tesseract to enable OCR
func NewReader(Options) (Reader, error) {
	return nil, ErrUnavailable
}
