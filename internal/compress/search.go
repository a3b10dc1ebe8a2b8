package compress

import (
	"context"
	"fmt"
	"image"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/logger"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	MinQuality    = 0.05
	MaxQuality    = 1.0
	minSearchCeil = 0.4
	qualityNudge  = 0.01
	maxIterations = 14
)

// Request describes the byte window an export must land in
type Request struct {
	PreferredQuality float64
	MinBytes         int
	MaxBytes         int
}

// Searcher finds the highest encoder quality whose output fits under MaxBytes
type Searcher struct {
	encoder Encoder
}

// NewSearcher creates a searcher over the given encoder
func NewSearcher(encoder Encoder) *Searcher {
	return &Searcher{encoder: encoder}
}

// Compress binary-searches quality on [0.05, clamp(preferred, 0.4, 1)].
// Encodes run one after another since each step depends on the last size.
// A window miss is reported as a warning; only an empty encode is an error.
func (s *Searcher) Compress(ctx context.Context, img image.Image, req Request) (*models.CompressionResult, error) {
	low := MinQuality
	high := min(max(req.PreferredQuality, minSearchCeil), MaxQuality)

	var best []byte
	bestQuality := 0.0
	for i := 0; i < maxIterations; i++ {
		q := (low + high) / 2
		blob, err := s.encode(ctx, img, q)
		if err != nil {
			return nil, err
		}
		if len(blob) > req.MaxBytes {
			high = q - qualityNudge
			continue
		}
		best, bestQuality = blob, q
		low = q + qualityNudge
	}

	output, quality := best, bestQuality
	if output == nil {
		blob, err := s.encode(ctx, img, MinQuality)
		if err != nil {
			return nil, err
		}
		output, quality = blob, MinQuality
	}

	warning := ""
	if len(output) < req.MinBytes {
		blob, err := s.encode(ctx, img, MaxQuality)
		if err != nil {
			return nil, err
		}
		switch {
		case len(blob) >= req.MinBytes && len(blob) <= req.MaxBytes:
			output, quality = blob, MaxQuality
		case len(blob) < req.MinBytes:
			output, quality = blob, MaxQuality
			warning = fmt.Sprintf("File is below %dKB even at max quality.", req.MinBytes/1024)
		default:
			warning = "File is below minimum size with current settings. Adjust crop and retry."
		}
	}
	if len(output) > req.MaxBytes && warning == "" {
		warning = fmt.Sprintf("Could not reduce below %dKB. Retake with cleaner framing.", req.MaxBytes/1024)
	}

	bounds := img.Bounds()
	logger.WithFields(logrus.Fields{
		"bytes":   len(output),
		"quality": quality,
		"warning": warning,
	}).Debug("Compression search finished")

	return &models.CompressionResult{
		Blob:     output,
		Bytes:    len(output),
		Quality:  quality,
		MIMEType: s.encoder.MIMEType(),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Warning:  warning,
	}, nil
}

func (s *Searcher) encode(ctx context.Context, img image.Image, q float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("Compression cancelled", err)
	}
	blob, err := s.encoder.Encode(ctx, img, q)
	if err != nil {
		return nil, apperrors.NewEncodingError(fmt.Sprintf("Compression failure at quality %.2f", q), err)
	}
	if len(blob) == 0 {
		return nil, apperrors.NewEncodingError("Compression failure: encoder produced no output", nil)
	}
	return blob, nil
}
