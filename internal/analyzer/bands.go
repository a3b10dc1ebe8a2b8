package analyzer

import "github.com/anime-shed/photo-compliance-go/pkg/models"

// DetectBands segments a density profile into runs where values[i] >= minCount.
// A run survives gaps of up to maxGap inactive samples and is kept only if its
// span reaches minSpan. Peak records the highest density inside the run.
func DetectBands(values []float64, minCount float64, minSpan, maxGap int) []models.Band {
	var bands []models.Band
	start, lastActive := -1, -1
	peak := 0.0

	closeBand := func() {
		end := lastActive
		if end < 0 {
			end = len(values) - 1
		}
		span := end - start + 1
		if span >= minSpan {
			bands = append(bands, models.Band{Start: start, End: end, Span: span, Peak: peak})
		}
		start, lastActive = -1, -1
		peak = 0
	}

	for i, v := range values {
		if v >= minCount {
			if start < 0 {
				start = i
			}
			lastActive = i
			peak = max(peak, v)
			continue
		}
		if start >= 0 && i-lastActive > maxGap {
			closeBand()
		}
	}
	if start >= 0 {
		closeBand()
	}
	return bands
}

// bandGaps returns the number of inactive samples between consecutive bands
func bandGaps(bands []models.Band) []int {
	if len(bands) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(bands)-1)
	for i := 0; i < len(bands)-1; i++ {
		gaps = append(gaps, bands[i+1].Start-bands[i].End-1)
	}
	return gaps
}
