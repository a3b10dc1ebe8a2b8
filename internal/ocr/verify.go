package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
)

// MaxLegibleCER is the character error rate above which the print is considered unreadable
const MaxLegibleCER = 0.35

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Verify reads the region of img and scores the text found there against expected.
// OCR errors are recorded on the result rather than returned.
func Verify(ctx context.Context, reader Reader, img image.Image, region image.Rectangle, expected string) *models.OCRResult {
	result := &models.OCRResult{ExpectedText: expected}
	if reader == nil {
		result.OCRError = ErrUnavailable.Error()
		return result
	}

	target := img
	if si, ok := img.(subImager); ok && !region.Empty() {
		target = si.SubImage(region.Intersect(img.Bounds()))
	}

	text, err := reader.ReadText(ctx, target)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.OCRError = "ocr cancelled: " + err.Error()
		} else {
			result.OCRError = err.Error()
		}
		return result
	}

	result.ExtractedText = strings.TrimSpace(text)
	result.CER, result.WER = Score(expected, result.ExtractedText)
	return result
}

// Score returns the character and word error rates of extracted against expected.
// Comparison ignores case and runs of whitespace.
func Score(expected, extracted string) (cer, werRate float64) {
	exp := normalize(expected)
	got := normalize(extracted)
	if exp == "" {
		if got == "" {
			return 0, 0
		}
		return 1, 1
	}
	if got == "" {
		return 1, 1
	}

	cer = float64(levenshtein.Distance(exp, got)) / float64(utf8.RuneCountInString(exp))
	werRate, _ = wer.WER(strings.Fields(exp), strings.Fields(got))
	return cer, werRate
}

// Legible reports whether the OCR read-back is close enough to the expected text
func Legible(result *models.OCRResult) bool {
	return result != nil && result.OCRError == "" && result.CER <= MaxLegibleCER
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}
