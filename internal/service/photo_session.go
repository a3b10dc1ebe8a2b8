package service

import (
	"context"
	"time"

	"github.com/anime-shed/photo-compliance-go/internal/analyzer"
	"github.com/anime-shed/photo-compliance-go/internal/compress"
	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/evaluator"
	"github.com/anime-shed/photo-compliance-go/internal/observer"
	"github.com/anime-shed/photo-compliance-go/internal/ocr"
	"github.com/anime-shed/photo-compliance-go/internal/render"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
	"github.com/anime-shed/photo-compliance-go/pkg/validation"
)

// legibilityWarning is added when the printed name/date cannot be read back
const legibilityWarning = "Printed name/date may not be legible."

// PhotoDetails are the per-candidate inputs of the photo checks
type PhotoDetails struct {
	Manual        evaluator.ManualChecks `json:"manual"`
	CandidateName string                 `json:"candidate_name"`
	Dates         evaluator.RecencyInput `json:"dates"`
}

// PhotoExportRequest carries what the photo export needs besides the details
type PhotoExportRequest struct {
	PhotoDetails
	// Confirmed is the operator's compliance-mode confirmation
	Confirmed bool
	// Quality is the preferred encode quality in percent
	Quality float64
}

// PhotoSession frames an ID photo on the 600x800 surface, evaluates it and exports it
type PhotoSession struct {
	session
	profile   profile.PhotoProfile
	evaluator *evaluator.PhotoEvaluator
}

// NewPhotoSession creates a photo session. A nil renderer defaults to Catmull-Rom.
func NewPhotoSession(deps Dependencies) *PhotoSession {
	p := profile.Photo()
	renderer := deps.Renderer
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	s := &PhotoSession{
		profile:   p,
		evaluator: evaluator.NewPhotoEvaluator(p, analyzer.NewRegionAnalyzer(), deps.Detector),
	}
	s.init(models.ModePhoto, render.Frame{Width: p.Output.Width, Height: p.Output.Height},
		deps, renderer.RenderPhoto, validation.PhotoOutputRules(p))
	return s
}

// Evaluate runs the photo checks over the current surface
func (s *PhotoSession) Evaluate(ctx context.Context, details PhotoDetails) (*models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireSourceLocked(); err != nil {
		return nil, err
	}
	return s.evaluateLocked(ctx, details), nil
}

func (s *PhotoSession) evaluateLocked(ctx context.Context, details PhotoDetails) *models.Evaluation {
	start := time.Now()
	s.publish(ctx, observer.ComplianceEvent{EventType: observer.EvaluationStarted})

	eval := s.evaluator.Evaluate(ctx, s.surface, evaluator.PhotoInput{
		Manual:        details.Manual,
		CandidateName: details.CandidateName,
		Dates:         details.Dates,
		Output:        s.output,
	})
	if s.ocrResult != nil && s.ocrResult.OCRError == "" && !ocr.Legible(s.ocrResult) {
		eval.Warnings = models.Dedupe(append(eval.Warnings, legibilityWarning))
	}
	s.evaluation = eval

	s.publish(ctx, observer.ComplianceEvent{
		EventType:      observer.EvaluationCompleted,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"warnings": len(eval.Warnings),
			"passed":   eval.Checklist.Count(models.StatusPass),
		},
	})
	return eval
}

// Export prints the name/date bar, compresses the annotated surface into the byte window,
// optionally reads the bar back and re-evaluates with output-aware checks.
func (s *PhotoSession) Export(ctx context.Context, req PhotoExportRequest) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.requireSourceLocked(); err != nil {
		return nil, err
	}
	if !req.Confirmed {
		return nil, apperrors.NewValidationError("Compliance mode confirmation is required before export.", nil)
	}
	if !evaluator.HasNameAndDate(req.CandidateName, req.Dates.PhotoDate) {
		return nil, apperrors.NewValidationError("Candidate Name and Date are required before export.", nil)
	}

	text := render.AnnotationText(req.CandidateName, req.Dates.PhotoDate)
	annotated, annotation, err := render.Annotate(s.surface, text, s.profile.Text)
	if err != nil {
		return nil, s.exportFailed(ctx, start, apperrors.NewInternalError("Export failure: unable to print name and date.", err))
	}

	output, issues, err := s.compressLocked(ctx, annotated, compress.Request{
		PreferredQuality: qualityFraction(req.Quality),
		MinBytes:         s.profile.FileSize.MinBytes,
		MaxBytes:         s.profile.FileSize.MaxBytes,
	})
	if err != nil {
		return nil, s.exportFailed(ctx, start, err)
	}
	s.output = output

	s.ocrResult = nil
	if s.deps.OCR != nil {
		s.ocrResult = ocr.Verify(ctx, s.deps.OCR, annotated, annotation.Bar, annotation.Text)
	}

	eval := s.evaluateLocked(ctx, req.PhotoDetails)
	s.publish(ctx, observer.ComplianceEvent{
		EventType:      observer.ExportCompleted,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"bytes":     output.Bytes,
			"quality":   output.Quality,
			"font_size": annotation.FontSize,
			"warning":   output.Warning,
		},
	})
	return &ExportResult{
		Evaluation: eval,
		Output:     output,
		OCR:        s.ocrResult,
		Issues:     issues,
	}, nil
}

// WriteOutput writes the last export to path
func (s *PhotoSession) WriteOutput(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.output == nil {
		return apperrors.NewValidationError("Export failure: final image is not ready.", nil)
	}
	return writeBlob(path, s.output.Blob)
}
