// Package face provides the optional face detection capability used by the photo checks.
package face

import (
	"context"
	"image"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
)

// Detector finds at most one face on the rendered surface.
// Failures are reported inside the result, never as errors.
type Detector interface {
	Detect(ctx context.Context, img image.Image) models.FaceDetectionResult
}

// Unavailable is the detector used when no detection capability is configured
type Unavailable struct{}

func (Unavailable) Detect(context.Context, image.Image) models.FaceDetectionResult {
	return models.FaceDetectionResult{Available: false}
}

// Static always returns the same result. Useful when detection ran elsewhere.
type Static struct {
	Result models.FaceDetectionResult
}

func (s Static) Detect(context.Context, image.Image) models.FaceDetectionResult {
	return s.Result
}
