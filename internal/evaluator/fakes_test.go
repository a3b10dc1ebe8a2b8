package evaluator

import (
	"image"
	"image/color"

	"github.com/anime-shed/photo-compliance-go/internal/analyzer"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// fakeRegions returns canned analyzer results and records the glare box it was given
type fakeRegions struct {
	background models.BackgroundResult
	blur       models.BlurResult
	shadows    models.ShadowResult
	glare      models.GlareResult
	glareBox   *models.Rect
}

func passingRegions() *fakeRegions {
	return &fakeRegions{
		background: models.BackgroundResult{Status: models.Pass("Background appears plain white."), Metrics: &models.BackgroundMetrics{MeanLuminance: 255}},
		blur:       models.BlurResult{Status: models.Pass("Photo sharpness looks acceptable."), Score: 30},
		shadows:    models.ShadowResult{Status: models.Pass("Shadow levels look acceptable."), Metrics: &models.ShadowMetrics{}},
		glare:      models.GlareResult{Status: models.Pass("No strong glare detected.")},
	}
}

func (f *fakeRegions) Background(*analyzer.PixelBuffer, profile.Background) models.BackgroundResult {
	return f.background
}

func (f *fakeRegions) Blur(*analyzer.PixelBuffer, profile.Blur) models.BlurResult {
	return f.blur
}

func (f *fakeRegions) Shadows(*analyzer.PixelBuffer, profile.Shadow) models.ShadowResult {
	return f.shadows
}

func (f *fakeRegions) Glare(_ *analyzer.PixelBuffer, box *models.Rect, _ profile.Glare) models.GlareResult {
	f.glareBox = box
	return f.glare
}

type fakeStructure struct {
	result models.StructureResult
}

func (f fakeStructure) Analyze(*analyzer.PixelBuffer, profile.Detect) models.StructureResult {
	return f.result
}

func goodStructure() models.StructureResult {
	return models.StructureResult{
		SignatureCount: 3,
		SpacingOK:      true,
		AlignmentOK:    true,
		Contrast:       200,
		InkRatio:       0.1,
	}
}

func whiteSurface(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// fillRect paints r onto img
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
