package analyzer

import (
	"math"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	smoothRadius     = 2
	minProjection    = 2
	minBandThickness = 6
	expectedBands    = 3
)

// StructureAnalyzer finds the ink bands of a signature sheet
type StructureAnalyzer interface {
	Analyze(buf *PixelBuffer, cfg profile.Detect) models.StructureResult
}

type structureAnalyzer struct{}

// inkProjection is the partial result of one row strip
type inkProjection struct {
	colInk    []float64
	totalLum  float64
	inkLum    float64
	inkPixels int
}

// NewStructureAnalyzer creates a signature structure analyzer
func NewStructureAnalyzer() StructureAnalyzer {
	return &structureAnalyzer{}
}

// isInk classifies dark, low-saturation pixels as pen strokes
func isInk(r, g, b float64, cfg profile.Detect) bool {
	return Luminance(r, g, b) < cfg.InkLuminanceThreshold && Saturation(r, g, b) <= cfg.MaxInkSaturation
}

// Analyze projects ink counts onto rows and columns, segments them into bands
// and derives spacing, alignment and orientation from the row bands.
func (sa *structureAnalyzer) Analyze(buf *PixelBuffer, cfg profile.Detect) models.StructureResult {
	if buf.Empty() {
		return models.StructureResult{}
	}
	w, h := buf.Width, buf.Height
	rowInk := make([]float64, h)
	strips := partitionRows(w, h, 0)
	parts := make([]inkProjection, len(strips))
	runStrips(strips, func(i int, s rowStrip) {
		p := inkProjection{colInk: make([]float64, w)}
		for y := s.Start; y < s.End; y++ {
			for x := 0; x < w; x++ {
				r, g, b := buf.RGB(x, y)
				lum := Luminance(r, g, b)
				p.totalLum += lum
				if isInk(r, g, b, cfg) {
					p.inkPixels++
					p.inkLum += lum
					rowInk[y]++
					p.colInk[x]++
				}
			}
		}
		parts[i] = p
	})

	// merge in strip order so sums do not depend on scheduling
	colInk := make([]float64, w)
	var totalLum, inkLum float64
	inkPixels := 0
	for _, p := range parts {
		floats.Add(colInk, p.colInk)
		totalLum += p.totalLum
		inkLum += p.inkLum
		inkPixels += p.inkPixels
	}

	pixels := float64(w * h)
	avgLum := totalLum / pixels
	avgInkLum := avgLum
	if inkPixels > 0 {
		avgInkLum = inkLum / float64(inkPixels)
	}

	minRowCount := float64(max(minProjection, int(math.Floor(float64(w)*cfg.MinRowInkRatio))))
	minColCount := float64(max(minProjection, int(math.Floor(float64(h)*cfg.MinColInkRatio))))
	minBandHeight := max(minBandThickness, int(math.Floor(float64(h)*cfg.MinBandHeightRatio)))
	minBandWidth := max(minBandThickness, int(math.Floor(float64(w)*cfg.MinBandHeightRatio)))

	rowBands := DetectBands(Smooth(rowInk, smoothRadius), minRowCount, minBandHeight, cfg.MaxBandGapPx)
	colBands := DetectBands(Smooth(colInk, smoothRadius), minColCount, minBandWidth, cfg.MaxBandGapPx)

	result := models.StructureResult{
		SignatureCount: len(rowBands),
		RowBands:       rowBands,
		ColBands:       colBands,
		Gaps:           bandGaps(rowBands),
		MinGapRequired: int(math.Floor(float64(h) * cfg.MinGapRatio)),
		Contrast:       avgLum - avgInkLum,
		InkRatio:       float64(inkPixels) / pixels,
		RotatedLikely:  len(colBands) >= expectedBands && len(rowBands) <= expectedBands-1,
	}

	if len(result.Gaps) > 0 {
		gaps := make([]float64, len(result.Gaps))
		for i, g := range result.Gaps {
			gaps[i] = float64(g)
		}
		result.MinGap = int(floats.Min(gaps))
	}
	if len(rowBands) == expectedBands {
		result.SpacingOK = true
		for _, g := range result.Gaps {
			if g < result.MinGapRequired {
				result.SpacingOK = false
				break
			}
		}
	}

	result.BandCenters = make([]float64, len(rowBands))
	for i, band := range rowBands {
		result.BandCenters[i] = sa.bandCenterX(buf, band, cfg)
	}
	if len(result.BandCenters) > 0 {
		mean := stat.Mean(result.BandCenters, nil)
		deviations := make([]float64, len(result.BandCenters))
		for i, c := range result.BandCenters {
			deviations[i] = math.Abs(c - mean)
		}
		result.MaxCenterDeviation = floats.Max(deviations)
	}
	result.AlignmentOK = len(rowBands) == expectedBands &&
		result.MaxCenterDeviation <= float64(w)*cfg.MaxAlignmentDeviationRatio

	return result
}

// bandCenterX is the mean X of ink pixels within the band's rows, or the frame midline when there are none
func (sa *structureAnalyzer) bandCenterX(buf *PixelBuffer, band models.Band, cfg profile.Detect) float64 {
	var sumX float64
	count := 0
	for y := band.Start; y <= band.End; y++ {
		for x := 0; x < buf.Width; x++ {
			r, g, b := buf.RGB(x, y)
			if isInk(r, g, b, cfg) {
				sumX += float64(x)
				count++
			}
		}
	}
	if count == 0 {
		return float64(buf.Width) / 2
	}
	return sumX / float64(count)
}
