package analyzer

import (
	"math"
	"sync"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
	"gonum.org/v1/gonum/stat"
)

const (
	shadowLuminance  = 70.0
	glareLuminance   = 245.0
	glareSaturation  = 0.2
	backgroundStride = 2
	blurStride       = 2
	shadowStride     = 3
)

// RegionAnalyzer runs the per-region heuristics over a pixel buffer
type RegionAnalyzer interface {
	Background(buf *PixelBuffer, cfg profile.Background) models.BackgroundResult
	Blur(buf *PixelBuffer, cfg profile.Blur) models.BlurResult
	Shadows(buf *PixelBuffer, cfg profile.Shadow) models.ShadowResult
	Glare(buf *PixelBuffer, box *models.Rect, cfg profile.Glare) models.GlareResult
}

// regionAnalyzer implements RegionAnalyzer with pooled sample slices and Gonum statistics
type regionAnalyzer struct {
	slicePool sync.Pool
}

// NewRegionAnalyzer creates a region analyzer
func NewRegionAnalyzer() RegionAnalyzer {
	return &regionAnalyzer{
		slicePool: sync.Pool{
			New: func() interface{} {
				return make([]float64, 0, 4096)
			},
		},
	}
}

func (ra *regionAnalyzer) getSlice() []float64 {
	return ra.slicePool.Get().([]float64)[:0]
}

func (ra *regionAnalyzer) putSlice(s []float64) {
	ra.slicePool.Put(s[:0])
}

// Background samples every 2nd pixel inside the edge margin and checks it is bright, neutral and flat
func (ra *regionAnalyzer) Background(buf *PixelBuffer, cfg profile.Background) models.BackgroundResult {
	if buf.Empty() {
		return models.BackgroundResult{Status: models.Warn("Background could not be evaluated.")}
	}
	w, h := buf.Width, buf.Height
	edgeX := max(2, int(math.Floor(float64(w)*cfg.EdgeSampleRatio)))
	edgeY := max(2, int(math.Floor(float64(h)*cfg.EdgeSampleRatio)))

	lums := ra.getSlice()
	sats := ra.getSlice()
	defer func() {
		ra.putSlice(lums)
		ra.putSlice(sats)
	}()

	for y := 0; y < h; y += backgroundStride {
		for x := 0; x < w; x += backgroundStride {
			onEdge := x < edgeX || x > w-edgeX || y < edgeY || y > h-edgeY
			if !onEdge {
				continue
			}
			r, g, b := buf.RGB(x, y)
			lums = append(lums, Luminance(r, g, b))
			sats = append(sats, Saturation(r, g, b))
		}
	}

	if len(lums) == 0 {
		return models.BackgroundResult{Status: models.Warn("Background could not be evaluated.")}
	}

	meanLum, variance := stat.PopMeanVariance(lums, nil)
	meanSat := stat.Mean(sats, nil)
	metrics := &models.BackgroundMetrics{
		MeanLuminance:  meanLum,
		MeanSaturation: meanSat,
		Variance:       variance,
		Samples:        len(lums),
	}

	pass := meanLum >= cfg.MinBrightness &&
		meanSat <= cfg.MaxSaturation &&
		variance <= cfg.MaxVariance
	if !pass {
		return models.BackgroundResult{
			Status:  models.Warn("Background may be dark, colored, or patterned."),
			Metrics: metrics,
		}
	}
	return models.BackgroundResult{
		Status:  models.Pass("Background appears plain white."),
		Metrics: metrics,
	}
}

// Blur scores edge energy from luminance differences to the pixel two to the right and two below
func (ra *regionAnalyzer) Blur(buf *PixelBuffer, cfg profile.Blur) models.BlurResult {
	var score float64
	count := 0
	if !buf.Empty() {
		for y := 0; y < buf.Height-2; y += blurStride {
			for x := 0; x < buf.Width-2; x += blurStride {
				lum := buf.Luminance(x, y)
				score += math.Abs(lum-buf.Luminance(x+2, y)) + math.Abs(lum-buf.Luminance(x, y+2))
				count++
			}
		}
	}

	edgeScore := 0.0
	if count > 0 {
		edgeScore = score / float64(count)
	}
	if edgeScore < cfg.MinEdgeScore {
		return models.BlurResult{
			Status:  models.Warn("Photo appears blurry."),
			Score:   edgeScore,
			Samples: count,
		}
	}
	return models.BlurResult{
		Status:  models.Pass("Photo sharpness looks acceptable."),
		Score:   edgeScore,
		Samples: count,
	}
}

// Shadows measures the share of dark pixels and the luminance imbalance between the two halves
func (ra *regionAnalyzer) Shadows(buf *PixelBuffer, cfg profile.Shadow) models.ShadowResult {
	var leftLum, rightLum float64
	var total, dark, leftCount, rightCount int
	if !buf.Empty() {
		half := float64(buf.Width) / 2
		for y := 0; y < buf.Height; y += shadowStride {
			for x := 0; x < buf.Width; x += shadowStride {
				lum := buf.Luminance(x, y)
				if lum < shadowLuminance {
					dark++
				}
				if float64(x) < half {
					leftLum += lum
					leftCount++
				} else {
					rightLum += lum
					rightCount++
				}
				total++
			}
		}
	}

	metrics := &models.ShadowMetrics{}
	if total > 0 {
		metrics.DarkRatio = float64(dark) / float64(total)
	}
	if leftCount > 0 {
		metrics.LeftMean = leftLum / float64(leftCount)
	}
	if rightCount > 0 {
		metrics.RightMean = rightLum / float64(rightCount)
	}
	metrics.SideDiff = math.Abs(metrics.LeftMean - metrics.RightMean)

	if metrics.DarkRatio > cfg.MaxDarkPixelRatio || metrics.SideDiff > cfg.MaxSideDifference {
		return models.ShadowResult{
			Status:  models.Warn("Shadows detected on face or background."),
			Metrics: metrics,
		}
	}
	return models.ShadowResult{
		Status:  models.Pass("Shadow levels look acceptable."),
		Metrics: metrics,
	}
}

// Glare counts near-white, low-saturation pixels in the eye band of the face box
func (ra *regionAnalyzer) Glare(buf *PixelBuffer, box *models.Rect, cfg profile.Glare) models.GlareResult {
	if box == nil || buf.Empty() {
		return models.GlareResult{Status: models.Warn("Glare check unavailable without face detection.")}
	}

	xStart := max(0, int(math.Floor(box.X+box.Width*0.15)))
	yStart := max(0, int(math.Floor(box.Y+box.Height*0.18)))
	xEnd := min(buf.Width, int(math.Floor(box.X+box.Width*0.85)))
	yEnd := min(buf.Height, int(math.Floor(box.Y+box.Height*0.42)))
	if xEnd <= xStart || yEnd <= yStart {
		return models.GlareResult{Status: models.Warn("Glare region could not be evaluated.")}
	}

	bright, total := 0, 0
	for y := yStart; y < yEnd; y++ {
		for x := xStart; x < xEnd; x++ {
			r, g, b := buf.RGB(x, y)
			if Luminance(r, g, b) > glareLuminance && Saturation(r, g, b) < glareSaturation {
				bright++
			}
			total++
		}
	}

	ratio := float64(bright) / float64(total)
	if ratio > cfg.MaxBrightRatio {
		return models.GlareResult{
			Status:      models.Warn("Possible glare detected near eye area."),
			BrightRatio: ratio,
			Samples:     total,
		}
	}
	return models.GlareResult{
		Status:      models.Pass("No obvious glare detected."),
		BrightRatio: ratio,
		Samples:     total,
	}
}
