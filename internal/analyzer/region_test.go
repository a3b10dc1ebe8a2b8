package analyzer

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// createStripedImage alternates black and white every two pixels on both axes
func createStripedImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/2+y/2)%2 == 0 {
				img.SetRGBA(x, y, white)
			} else {
				img.SetRGBA(x, y, black)
			}
		}
	}
	return img
}

func TestBackground(t *testing.T) {
	ra := NewRegionAnalyzer()
	cfg := profile.Photo().Background

	t.Run("all white passes", func(t *testing.T) {
		result := ra.Background(NewPixelBuffer(createTestImage(600, 800, white)), cfg)
		if result.Status.Status != models.StatusPass {
			t.Fatalf("Expected pass, got %s: %s", result.Status.Status, result.Status.Detail)
		}
		if result.Metrics == nil {
			t.Fatal("Expected metrics for a sampled buffer")
		}
		if result.Metrics.MeanLuminance < 254.999 || result.Metrics.MeanSaturation != 0 || result.Metrics.Variance > 1e-6 {
			t.Errorf("Unexpected metrics for white background: %+v", result.Metrics)
		}
	})

	t.Run("colored background warns", func(t *testing.T) {
		result := ra.Background(NewPixelBuffer(createTestImage(600, 800, color.RGBA{40, 90, 200, 255})), cfg)
		if result.Status.Status != models.StatusWarn {
			t.Errorf("Expected warn, got %s", result.Status.Status)
		}
	})

	t.Run("white border around dark centre passes", func(t *testing.T) {
		img := createTestImage(600, 800, white)
		fillRect(img, image.Rect(100, 100, 500, 700), black)
		result := ra.Background(NewPixelBuffer(img), cfg)
		if result.Status.Status != models.StatusPass {
			t.Errorf("Expected centre content to be ignored, got %s", result.Status.Status)
		}
	})

	t.Run("empty buffer warns", func(t *testing.T) {
		result := ra.Background(&PixelBuffer{}, cfg)
		if result.Status.Status != models.StatusWarn || result.Metrics != nil {
			t.Errorf("Expected warn without metrics, got %+v", result)
		}
	})
}

func TestBlur(t *testing.T) {
	ra := NewRegionAnalyzer()
	cfg := profile.Photo().Blur

	tests := []struct {
		name     string
		img      *image.RGBA
		expected models.Status
	}{
		{"flat image is blurry", createTestImage(100, 100, white), models.StatusWarn},
		{"striped image is sharp", createStripedImage(100, 100), models.StatusPass},
		{"too small to sample", createTestImage(2, 2, white), models.StatusWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ra.Blur(NewPixelBuffer(tt.img), cfg)
			if result.Status.Status != tt.expected {
				t.Errorf("Expected %s, got %s (score %f)", tt.expected, result.Status.Status, result.Score)
			}
		})
	}
}

func TestShadows(t *testing.T) {
	ra := NewRegionAnalyzer()
	cfg := profile.Photo().Shadow

	result := ra.Shadows(NewPixelBuffer(createTestImage(120, 120, white)), cfg)
	if result.Status.Status != models.StatusPass {
		t.Errorf("Expected white image to pass, got %s", result.Status.Status)
	}
	if result.Metrics.SideDiff != 0 || result.Metrics.DarkRatio != 0 {
		t.Errorf("Expected zero metrics, got %+v", result.Metrics)
	}

	img := createTestImage(120, 120, white)
	fillRect(img, image.Rect(0, 0, 60, 120), black)
	result = ra.Shadows(NewPixelBuffer(img), cfg)
	if result.Status.Status != models.StatusWarn {
		t.Errorf("Expected half-dark image to warn, got %s", result.Status.Status)
	}
	if result.Metrics.SideDiff < 250 {
		t.Errorf("Expected large side difference, got %f", result.Metrics.SideDiff)
	}
}

func TestGlare(t *testing.T) {
	ra := NewRegionAnalyzer()
	cfg := profile.Photo().Glare
	box := &models.Rect{X: 100, Y: 100, Width: 200, Height: 200}

	tests := []struct {
		name     string
		img      *image.RGBA
		box      *models.Rect
		expected models.Status
		detail   string
	}{
		{"no face box", createTestImage(400, 400, white), nil, models.StatusWarn, "Glare check unavailable without face detection."},
		{"degenerate box", createTestImage(400, 400, white), &models.Rect{X: 10, Y: 10}, models.StatusWarn, "Glare region could not be evaluated."},
		{"box outside frame", createTestImage(400, 400, white), &models.Rect{X: 500, Y: 500, Width: 50, Height: 50}, models.StatusWarn, "Glare region could not be evaluated."},
		{"bright eye band", createTestImage(400, 400, white), box, models.StatusWarn, "Possible glare detected near eye area."},
		{"matte eye band", createTestImage(400, 400, color.RGBA{128, 128, 128, 255}), box, models.StatusPass, "No obvious glare detected."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ra.Glare(NewPixelBuffer(tt.img), tt.box, cfg)
			if result.Status.Status != tt.expected || result.Status.Detail != tt.detail {
				t.Errorf("Expected %s %q, got %s %q", tt.expected, tt.detail, result.Status.Status, result.Status.Detail)
			}
		})
	}
}

func TestRegionAnalyzersAreIdempotent(t *testing.T) {
	ra := NewRegionAnalyzer()
	p := profile.Photo()
	img := createStripedImage(200, 240)
	fillRect(img, image.Rect(0, 0, 50, 240), color.RGBA{30, 60, 90, 255})
	buf := NewPixelBuffer(img)
	box := &models.Rect{X: 40, Y: 40, Width: 120, Height: 150}

	if a, b := ra.Background(buf, p.Background), ra.Background(buf, p.Background); !reflect.DeepEqual(a, b) {
		t.Errorf("Background not idempotent: %+v vs %+v", a, b)
	}
	if a, b := ra.Blur(buf, p.Blur), ra.Blur(buf, p.Blur); !reflect.DeepEqual(a, b) {
		t.Errorf("Blur not idempotent: %+v vs %+v", a, b)
	}
	if a, b := ra.Shadows(buf, p.Shadow), ra.Shadows(buf, p.Shadow); !reflect.DeepEqual(a, b) {
		t.Errorf("Shadows not idempotent: %+v vs %+v", a, b)
	}
	if a, b := ra.Glare(buf, box, p.Glare), ra.Glare(buf, box, p.Glare); !reflect.DeepEqual(a, b) {
		t.Errorf("Glare not idempotent: %+v vs %+v", a, b)
	}
}
