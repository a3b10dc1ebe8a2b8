package analyzer

import (
	"testing"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

func TestDeriveFaceChecks(t *testing.T) {
	cfg := profile.Photo().Face
	centred := &models.Rect{X: 30, Y: 40, Width: 540, Height: 720}
	level := [2]*models.Point{{X: 200, Y: 300}, {X: 400, Y: 310}}
	tilted := [2]*models.Point{{X: 200, Y: 280}, {X: 400, Y: 320}}

	tests := []struct {
		name     string
		face     models.FaceDetectionResult
		coverage models.Status
		centered models.Status
		frontal  models.Status
		eyes     models.Status
	}{
		{
			name:     "detector unavailable",
			face:     models.FaceDetectionResult{},
			coverage: models.StatusWarn, centered: models.StatusWarn, frontal: models.StatusWarn, eyes: models.StatusWarn,
		},
		{
			name:     "nothing detected",
			face:     models.FaceDetectionResult{Available: true},
			coverage: models.StatusWarn, centered: models.StatusWarn, frontal: models.StatusWarn, eyes: models.StatusWarn,
		},
		{
			name:     "centred face with level eyes",
			face:     models.FaceDetectionResult{Available: true, Detected: true, Box: centred, LeftEye: level[0], RightEye: level[1]},
			coverage: models.StatusPass, centered: models.StatusPass, frontal: models.StatusPass, eyes: models.StatusPass,
		},
		{
			name:     "tilted face",
			face:     models.FaceDetectionResult{Available: true, Detected: true, Box: centred, LeftEye: tilted[0], RightEye: tilted[1]},
			coverage: models.StatusPass, centered: models.StatusPass, frontal: models.StatusWarn, eyes: models.StatusPass,
		},
		{
			name:     "no landmarks",
			face:     models.FaceDetectionResult{Available: true, Detected: true, Box: centred},
			coverage: models.StatusPass, centered: models.StatusPass, frontal: models.StatusWarn, eyes: models.StatusWarn,
		},
		{
			name:     "small off-centre face",
			face:     models.FaceDetectionResult{Available: true, Detected: true, Box: &models.Rect{X: 0, Y: 0, Width: 200, Height: 200}},
			coverage: models.StatusWarn, centered: models.StatusWarn, frontal: models.StatusWarn, eyes: models.StatusWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := DeriveFaceChecks(tt.face, 600, 800, cfg)
			got := []models.Status{checks.Coverage.Status, checks.Centered.Status, checks.Frontal.Status, checks.EyesOpen.Status}
			want := []models.Status{tt.coverage, tt.centered, tt.frontal, tt.eyes}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("check %d: expected %s, got %s", i, want[i], got[i])
				}
			}
		})
	}
}

func TestDeriveFaceChecks_DistinctMessages(t *testing.T) {
	cfg := profile.Photo().Face
	unavailable := DeriveFaceChecks(models.FaceDetectionResult{}, 600, 800, cfg)
	missing := DeriveFaceChecks(models.FaceDetectionResult{Available: true}, 600, 800, cfg)
	if unavailable.Coverage.Detail == missing.Coverage.Detail {
		t.Error("Expected unavailable and not-detected details to differ")
	}
	if unavailable.Box != nil || missing.Box != nil {
		t.Error("Expected no face box without a detection")
	}
}
