package analyzer

import (
	"math"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// DeriveFaceChecks turns a raw detection into coverage, centering, frontal and eye verdicts.
// A missing detector or an empty detection degrades to warnings, never to failures.
func DeriveFaceChecks(face models.FaceDetectionResult, frameW, frameH int, cfg profile.Face) models.FaceChecks {
	if !face.Available {
		return models.FaceChecks{
			Coverage: models.Warn("Face detection unavailable. Use guide and manual checks."),
			Centered: models.Warn("Centering check unavailable without face detection."),
			Frontal:  models.Warn("Frontal auto-check unavailable."),
			EyesOpen: models.Warn("Eye detection unavailable."),
		}
	}
	if !face.Detected || face.Box == nil || frameW <= 0 || frameH <= 0 {
		return models.FaceChecks{
			Coverage: models.Warn("Face not detected. Ensure full frontal face and better light."),
			Centered: models.Warn("Head centering could not be verified."),
			Frontal:  models.Warn("Frontal alignment could not be verified."),
			EyesOpen: models.Warn("Eye visibility could not be verified."),
		}
	}

	box := *face.Box
	fw, fh := float64(frameW), float64(frameH)
	areaRatio := box.Area() / (fw * fh)
	center := box.Center()
	diffX := math.Abs(center.X-fw/2) / fw
	diffY := math.Abs(center.Y-fh/2) / fh

	checks := models.FaceChecks{Box: &box}
	if areaRatio >= cfg.MinCoverageRatio && areaRatio <= cfg.MaxCoverageRatio {
		checks.Coverage = models.Pass("Face area appears within the required range.")
	} else {
		checks.Coverage = models.Warn("Face appears too small or too close.")
	}
	if diffX <= cfg.CenterToleranceRatio && diffY <= cfg.CenterToleranceRatio {
		checks.Centered = models.Pass("Head appears centered.")
	} else {
		checks.Centered = models.Warn("Head appears off-center.")
	}

	if face.LeftEye == nil || face.RightEye == nil {
		checks.Frontal = models.Warn("Eye landmarks unavailable for tilt check.")
		checks.EyesOpen = models.Warn("Eyes not clearly detected.")
		return checks
	}
	if math.Abs(face.LeftEye.Y-face.RightEye.Y) <= cfg.TiltTolerancePx {
		checks.Frontal = models.Pass("Face appears straight.")
	} else {
		checks.Frontal = models.Warn("Face appears tilted.")
	}
	checks.EyesOpen = models.Pass("Eyes landmarks detected.")
	return checks
}
