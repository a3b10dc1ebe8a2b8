// Package evaluator assembles analyzer verdicts into the photo and signature checklists.
package evaluator

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/anime-shed/photo-compliance-go/internal/analyzer"
	"github.com/anime-shed/photo-compliance-go/internal/face"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// ManualChecks are the confirmations a person makes while looking at the photo
type ManualChecks struct {
	Frontal             bool `json:"frontal"`
	EyesOpen            bool `json:"eyes_open"`
	EarsVisible         bool `json:"ears_visible"`
	NaturalExpression   bool `json:"natural_expression"`
	HairClear           bool `json:"hair_clear"`
	GlassesNoGlare      bool `json:"glasses_no_glare"`
	FlagUniformHeadwear bool `json:"flag_uniform_headwear"`
	FlagSignedPhoto     bool `json:"flag_signed_photo"`
}

// PhotoInput is everything the photo evaluator reads besides the surface
type PhotoInput struct {
	Manual        ManualChecks
	CandidateName string
	Dates         RecencyInput
	// Output is nil until an export has run
	Output *models.CompressionResult
}

// PhotoEvaluator builds the 16-entry photo checklist
type PhotoEvaluator struct {
	profile  profile.PhotoProfile
	regions  analyzer.RegionAnalyzer
	detector face.Detector
}

// NewPhotoEvaluator creates a photo evaluator. A nil detector is treated as unavailable.
func NewPhotoEvaluator(p profile.PhotoProfile, regions analyzer.RegionAnalyzer, detector face.Detector) *PhotoEvaluator {
	if detector == nil {
		detector = face.Unavailable{}
	}
	return &PhotoEvaluator{profile: p, regions: regions, detector: detector}
}

// Evaluate runs every photo check against the surface. Output-aware checks stay
// pending until in.Output is set.
func (e *PhotoEvaluator) Evaluate(ctx context.Context, surface image.Image, in PhotoInput) *models.Evaluation {
	p := e.profile
	buf := analyzer.NewPixelBuffer(surface)

	recency, daysOld := EvaluateRecency(in.Dates, p.RecencyDays)
	detection := e.detector.Detect(ctx, surface)
	faceChecks := analyzer.DeriveFaceChecks(detection, buf.Width, buf.Height, p.Face)

	background := e.regions.Background(buf, p.Background)
	blur := e.regions.Blur(buf, p.Blur)
	shadows := e.regions.Shadows(buf, p.Shadow)
	glare := e.regions.Glare(buf, faceChecks.Box, p.Glare)

	m := in.Manual
	checks := models.NewChecklist(models.PhotoCheckKeys)
	checks.Set(models.CheckFaceCoverage, faceChecks.Coverage)
	checks.Set(models.CheckHeadCentered, faceChecks.Centered)
	checks.Set(models.CheckFrontal, pick(faceChecks.Frontal.Passed() && m.Frontal,
		models.Pass("Frontal alignment confirmed."),
		models.Warn("Confirm full frontal view.")))
	checks.Set(models.CheckEyesOpen, pick(faceChecks.EyesOpen.Passed() && m.EyesOpen,
		models.Pass("Eyes appear open and visible."),
		models.Warn("Eyes open/visible confirmation is required.")))
	checks.Set(models.CheckEarsVisible, pick(m.EarsVisible,
		models.Pass("Both ears manually confirmed visible."),
		models.Warn("Confirm both ears are clearly visible.")))
	checks.Set(models.CheckPlainWhiteBackground, background.Status)
	checks.Set(models.CheckNoShadows, shadows.Status)
	checks.Set(models.CheckSharpness, blur.Status)
	checks.Set(models.CheckNaturalExpression, pick(m.NaturalExpression,
		models.Pass("Natural expression manually confirmed."),
		models.Warn("Confirm natural expression.")))
	checks.Set(models.CheckHairClear, pick(m.HairClear,
		models.Pass("Hair clearance manually confirmed."),
		models.Warn("Confirm hair is not covering eyes.")))
	// manual confirmation takes precedence over the computed glare check
	checks.Set(models.CheckNoGlare, pick(m.GlassesNoGlare,
		models.Pass("No glare manually confirmed."),
		glare.Status))
	checks.Set(models.CheckNoRestrictedItems, pick(!m.FlagUniformHeadwear && !m.FlagSignedPhoto,
		models.Pass("No restricted items flagged."),
		models.Warn("Restricted item flags are active.")))
	checks.Set(models.CheckNameDatePrinted, pick(HasNameAndDate(in.CandidateName, in.Dates.PhotoDate),
		models.Pass("Name and date fields are ready."),
		models.Warn("Candidate Name and Date are required.")))
	checks.Set(models.CheckRecency, recency)
	e.setOutputChecks(checks, in.Output)

	var warnings []string
	if checks.Status(models.CheckFaceCoverage) == models.StatusWarn {
		warnings = append(warnings, "Face too small or too close.")
	}
	if checks.Status(models.CheckPlainWhiteBackground) == models.StatusWarn {
		warnings = append(warnings, "Dark/colored/patterned background detected.")
	}
	if m.FlagUniformHeadwear {
		warnings = append(warnings, "Uniform/sunglasses/headwear flagged.")
	}
	if m.FlagSignedPhoto {
		warnings = append(warnings, "Signed photo flagged.")
	}
	if checks.Status(models.CheckSharpness) == models.StatusWarn {
		warnings = append(warnings, "Blurry photo detected.")
	}
	if checks.Status(models.CheckNoShadows) == models.StatusWarn {
		warnings = append(warnings, "Shadows detected on face/background.")
	}
	if in.Output != nil && in.Output.Warning != "" {
		warnings = append(warnings, in.Output.Warning)
	}

	return &models.Evaluation{
		Mode:      models.ModePhoto,
		Checklist: checks,
		Warnings:  models.Dedupe(warnings),
		Metrics: models.EvaluationMetrics{
			Background: background.Metrics,
			Blur:       &blur,
			Shadow:     shadows.Metrics,
			Glare:      &glare,
			Face:       &detection,
			DaysOld:    daysOld,
			Output:     in.Output.Summary(),
		},
	}
}

func (e *PhotoEvaluator) setOutputChecks(checks *models.Checklist, output *models.CompressionResult) {
	minKB, maxKB := e.profile.FileSize.MinBytes/profile.KB, e.profile.FileSize.MaxBytes/profile.KB
	if output == nil {
		checks.Set(models.CheckFileFormat, models.Warn("Generate output to verify format."))
		checks.Set(models.CheckFileSize, models.Warn("Generate output to verify file size."))
		return
	}
	checks.Set(models.CheckFileFormat, pick(output.MIMEType == e.profile.Output.MIMEType,
		models.Pass("Output format is JPG/JPEG."),
		models.Warn("Output is not JPG/JPEG.")))
	checks.Set(models.CheckFileSize, pick(output.Bytes >= e.profile.FileSize.MinBytes && output.Bytes <= e.profile.FileSize.MaxBytes,
		models.Pass(fmt.Sprintf("File size is within %dKB to %dKB.", minKB, maxKB)),
		models.Warn(fmt.Sprintf("File size is outside %dKB to %dKB.", minKB, maxKB))))
}

// HasNameAndDate reports whether both annotation fields are filled in
func HasNameAndDate(name, date string) bool {
	return strings.TrimSpace(name) != "" && strings.TrimSpace(date) != ""
}

func pick(ok bool, pass, otherwise models.StatusRecord) models.StatusRecord {
	if ok {
		return pass
	}
	return otherwise
}
