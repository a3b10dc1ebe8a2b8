package evaluator

import (
	"fmt"
	"image"

	"github.com/anime-shed/photo-compliance-go/internal/analyzer"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// SignatureEvaluator builds the 11-entry signature checklist and its hard-fail tier
type SignatureEvaluator struct {
	profile   profile.SignatureProfile
	regions   analyzer.RegionAnalyzer
	structure analyzer.StructureAnalyzer
}

func NewSignatureEvaluator(p profile.SignatureProfile, regions analyzer.RegionAnalyzer, structure analyzer.StructureAnalyzer) *SignatureEvaluator {
	return &SignatureEvaluator{profile: p, regions: regions, structure: structure}
}

// Evaluate runs the signature checks. Output-aware checks are pending while output is nil
// and become hard failures once an export has been produced and misses its criterion.
func (e *SignatureEvaluator) Evaluate(surface image.Image, output *models.CompressionResult) *models.Evaluation {
	p := e.profile
	buf := analyzer.NewPixelBuffer(surface)

	background := e.regions.Background(buf, p.Background)
	shadows := e.regions.Shadows(buf, p.Shadow)
	blur := e.regions.Blur(buf, p.Blur)
	structure := e.structure.Analyze(buf, p.Detect)

	minKB, maxKB := p.FileSize.MinBytes/profile.KB, p.FileSize.MaxBytes/profile.KB
	minPx, maxPx := p.Dimension.MinPx, p.Dimension.MaxPx

	checks := models.NewChecklist(models.SignatureCheckKeys)
	if output == nil {
		checks.Set(models.CheckFileFormat, models.Warn("Generate output to verify format."))
		checks.Set(models.CheckFileSize, models.Warn("Generate output to verify file size."))
		checks.Set(models.CheckDimensions, models.Warn("Generate output to verify dimensions."))
	} else {
		inRange := func(v int) bool { return v >= minPx && v <= maxPx }
		checks.Set(models.CheckFileFormat, pick(output.MIMEType == p.Output.MIMEType && output.Bytes > 0,
			models.Pass("JPG format generated."),
			models.Fail("Output is not JPG/JPEG.")))
		checks.Set(models.CheckFileSize, pick(output.Bytes >= p.FileSize.MinBytes && output.Bytes <= p.FileSize.MaxBytes,
			models.Pass(fmt.Sprintf("File size is within %dKB to %dKB.", minKB, maxKB)),
			models.Fail(fmt.Sprintf("File size is outside %dKB to %dKB.", minKB, maxKB))))
		checks.Set(models.CheckDimensions, pick(inRange(output.Width) && inRange(output.Height),
			models.Pass(fmt.Sprintf("Dimensions are within %dpx to %dpx.", minPx, maxPx)),
			models.Fail(fmt.Sprintf("Dimensions are outside %dpx to %dpx.", minPx, maxPx))))
	}
	checks.Set(models.CheckThreeSignatures, pick(structure.SignatureCount == 3,
		models.Pass("Exactly 3 signature bands detected."),
		models.Fail(fmt.Sprintf("Detected %d signature band(s).", structure.SignatureCount))))
	checks.Set(models.CheckSharpness, pick(blur.Status.Passed(),
		models.Pass("Image sharpness looks acceptable."),
		models.Fail("Image appears blurry or unreadable.")))
	checks.Set(models.CheckPlainWhiteBackground, pick(background.Status.Passed(),
		models.Pass("Background appears plain white."),
		models.Warn("Background may not be pure white.")))
	checks.Set(models.CheckNoShadows, pick(shadows.Status.Passed(),
		models.Pass("No major shadows detected."),
		models.Warn("Shadow detected on paper.")))
	checks.Set(models.CheckContrast, pick(structure.Contrast >= p.Detect.MinContrast,
		models.Pass("Ink contrast is acceptable."),
		models.Warn("Low contrast or faint ink detected.")))
	checks.Set(models.CheckSpacing, pick(structure.SpacingOK,
		models.Pass("Spacing between signatures looks good."),
		models.Warn("Signatures may be too close together.")))
	checks.Set(models.CheckAlignment, pick(structure.AlignmentOK,
		models.Pass("Signatures look vertically aligned."),
		models.Warn("Signatures may not be vertically aligned.")))
	checks.Set(models.CheckOrientation, pick(!structure.RotatedLikely,
		models.Pass("Orientation appears acceptable."),
		models.Warn("Image may be tilted or rotated.")))

	var hardFails []string
	if checks.Status(models.CheckFileFormat) == models.StatusFail {
		hardFails = append(hardFails, "Not JPG/JPEG output.")
	}
	if checks.Status(models.CheckFileSize) == models.StatusFail {
		hardFails = append(hardFails, fmt.Sprintf("File size not within %dKB to %dKB.", minKB, maxKB))
	}
	if checks.Status(models.CheckDimensions) == models.StatusFail {
		hardFails = append(hardFails, fmt.Sprintf("Dimensions not within %dpx to %dpx.", minPx, maxPx))
	}
	if checks.Status(models.CheckThreeSignatures) == models.StatusFail {
		hardFails = append(hardFails, fmt.Sprintf("Less than 3 or more than 3 signatures detected (found %d).", structure.SignatureCount))
	}
	if checks.Status(models.CheckSharpness) == models.StatusFail {
		hardFails = append(hardFails, "Signature image is blurry or unreadable.")
	}
	if structure.InkRatio < p.Detect.MinInkRatioHard {
		hardFails = append(hardFails, "Signature ink coverage is too low and unreadable.")
	}
	if structure.Contrast < p.Detect.SevereContrast {
		hardFails = append(hardFails, "Signature contrast is too low for reliable readability.")
	}

	var warnings []string
	if checks.Status(models.CheckPlainWhiteBackground) == models.StatusWarn {
		warnings = append(warnings, "Background is not pure white.")
	}
	if checks.Status(models.CheckNoShadows) == models.StatusWarn {
		warnings = append(warnings, "Shadows detected on paper.")
	}
	if checks.Status(models.CheckContrast) == models.StatusWarn {
		warnings = append(warnings, "Low contrast or faint ink.")
	}
	if checks.Status(models.CheckSpacing) == models.StatusWarn {
		warnings = append(warnings, "Signatures are too close together.")
	}
	if checks.Status(models.CheckAlignment) == models.StatusWarn {
		warnings = append(warnings, "Signatures are not vertically aligned.")
	}
	if checks.Status(models.CheckOrientation) == models.StatusWarn {
		warnings = append(warnings, "Image appears tilted or rotated.")
	}
	if output != nil && output.Warning != "" {
		warnings = append(warnings, output.Warning)
	}

	return &models.Evaluation{
		Mode:      models.ModeSignature,
		Checklist: checks,
		Warnings:  models.Dedupe(warnings),
		HardFails: models.Dedupe(hardFails),
		Metrics: models.EvaluationMetrics{
			Background: background.Metrics,
			Blur:       &blur,
			Shadow:     shadows.Metrics,
			Structure:  &structure,
			Output:     output.Summary(),
		},
	}
}
