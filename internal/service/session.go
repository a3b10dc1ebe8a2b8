// Package service orchestrates per-mode compliance sessions: load a source, frame it,
// evaluate it and export a size-bounded JPEG.
package service

import (
	"context"
	"image"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anime-shed/photo-compliance-go/internal/compress"
	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/face"
	"github.com/anime-shed/photo-compliance-go/internal/observer"
	"github.com/anime-shed/photo-compliance-go/internal/ocr"
	"github.com/anime-shed/photo-compliance-go/internal/render"
	"github.com/anime-shed/photo-compliance-go/internal/repository"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/validation"
)

// Dependencies are the collaborators shared by every session
type Dependencies struct {
	Sources  repository.SourceRepository
	Renderer *render.Renderer
	Encoder  compress.Encoder
	Events   observer.Subject
	// Detector may be nil, in which case face checks degrade to warnings
	Detector face.Detector
	// OCR may be nil, in which case the printed annotation is not read back
	OCR ocr.Reader
}

// ExportResult is the outcome of one export attempt
type ExportResult struct {
	Evaluation *models.Evaluation        `json:"evaluation"`
	Output     *models.CompressionResult `json:"output"`
	OCR        *models.OCRResult         `json:"ocr,omitempty"`
	Issues     []validation.OutputIssue  `json:"issues,omitempty"`
	Blocked    bool                      `json:"blocked"`
}

type drawFunc func(src image.Image, frame render.Frame, baseScale float64, t render.Transform) *image.RGBA

// session holds the state common to both modes. Every exported method takes mu,
// so evaluations and exports on one session never interleave.
type session struct {
	mu         sync.Mutex
	id         string
	mode       models.Mode
	frame      render.Frame
	deps       Dependencies
	draw       drawFunc
	searcher   *compress.Searcher
	validator  *validation.OutputValidator
	source     *repository.Source
	baseScale  float64
	transform  render.Transform
	surface    *image.RGBA
	output     *models.CompressionResult
	ocrResult  *models.OCRResult
	evaluation *models.Evaluation
}

func (s *session) init(mode models.Mode, frame render.Frame, deps Dependencies, draw drawFunc, rules validation.OutputRules) {
	if deps.Events == nil {
		deps.Events = observer.NewEventPublisher()
	}
	if deps.Encoder == nil {
		deps.Encoder = compress.NewJPEGEncoder()
	}
	s.id = uuid.NewString()
	s.mode = mode
	s.frame = frame
	s.deps = deps
	s.draw = draw
	s.searcher = compress.NewSearcher(deps.Encoder)
	s.validator = validation.NewOutputValidator(rules)
	s.transform = render.IdentityTransform()
}

func (s *session) ID() string { return s.id }

// Load fetches and decodes location and makes it the current source at identity framing
func (s *session) Load(ctx context.Context, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	src, err := s.deps.Sources.Load(ctx, location)
	if err != nil {
		s.publish(ctx, observer.ComplianceEvent{
			EventType:      observer.SourceLoadFailed,
			Source:         location,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return err
	}
	s.useSourceLocked(src)
	s.publish(ctx, observer.ComplianceEvent{
		EventType:      observer.SourceLoaded,
		Source:         location,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"width":      src.Width,
			"height":     src.Height,
			"mime":       src.MIMEType,
			"base_scale": s.baseScale,
		},
	})
	return nil
}

// UseImage makes an already decoded bitmap the current source
func (s *session) UseImage(ctx context.Context, img image.Image, label string) error {
	if img == nil || img.Bounds().Empty() {
		return apperrors.NewValidationError("Invalid file: unable to decode image.", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := img.Bounds()
	s.useSourceLocked(&repository.Source{
		Location: label,
		Kind:     "image",
		Width:    b.Dx(),
		Height:   b.Dy(),
		Image:    img,
	})
	s.publish(ctx, observer.ComplianceEvent{
		EventType: observer.SourceLoaded,
		Source:    label,
		Success:   true,
		Metadata: map[string]interface{}{
			"width":      b.Dx(),
			"height":     b.Dy(),
			"base_scale": s.baseScale,
		},
	})
	return nil
}

// SetTransform reframes the source. Any previous export is discarded.
func (s *session) SetTransform(t render.Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTransformLocked(t)
}

func (s *session) Transform() render.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transform
}

func (s *session) BaseScale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseScale
}

// Source returns the current source, or nil
func (s *session) Source() *repository.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Surface returns the rendered output-frame surface. Callers must not modify it.
func (s *session) Surface() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// Output returns the last export, or nil when the framing changed since
func (s *session) Output() *models.CompressionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

func (s *session) useSourceLocked(src *repository.Source) {
	s.source = src
	s.baseScale = render.BaseScale(src.Width, src.Height, s.frame.Width, s.frame.Height)
	s.transform = render.IdentityTransform()
	s.resetOutputLocked()
	s.surface = s.draw(src.Image, s.frame, s.baseScale, s.transform)
}

func (s *session) setTransformLocked(t render.Transform) error {
	if s.source == nil {
		return apperrors.NewValidationError("No source loaded.", nil)
	}
	if t.Zoom <= 0 {
		return apperrors.NewValidationError("Zoom must be positive.", nil)
	}
	s.transform = t
	s.resetOutputLocked()
	s.surface = s.draw(s.source.Image, s.frame, s.baseScale, s.transform)
	return nil
}

func (s *session) resetOutputLocked() {
	s.output = nil
	s.ocrResult = nil
	s.evaluation = nil
}

func (s *session) requireSourceLocked() error {
	if s.source == nil || s.surface == nil {
		return apperrors.NewValidationError("No source loaded.", nil)
	}
	return nil
}

// compressLocked encodes img into the byte window and checks the encoded bytes.
// A sniffed format mismatch is recorded on the result so the evaluators see it.
func (s *session) compressLocked(ctx context.Context, img image.Image, req compress.Request) (*models.CompressionResult, []validation.OutputIssue, error) {
	result, err := s.searcher.Compress(ctx, img, req)
	if err != nil {
		return nil, nil, err
	}
	issues := s.validator.Validate(result)
	for _, issue := range issues {
		switch issue.Type {
		case "format":
			result.MIMEType = issue.Detected
		case "decode", "missing_output":
			return nil, issues, apperrors.NewEncodingError("Export failure: encoded output is unreadable.", nil).WithDetails(issue.Message)
		}
	}
	return result, issues, nil
}

func (s *session) publish(ctx context.Context, event observer.ComplianceEvent) {
	event.SessionID = s.id
	event.Mode = string(s.mode)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.deps.Events.NotifyObservers(ctx, event)
}

func (s *session) exportFailed(ctx context.Context, start time.Time, err error) error {
	s.publish(ctx, observer.ComplianceEvent{
		EventType:      observer.ExportFailed,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
	return err
}

func writeBlob(path string, blob []byte) error {
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return apperrors.NewInternalError("Export failure: unable to write output.", err).WithDetails(path)
	}
	return nil
}

// qualityFraction maps a preferred quality percentage to the encoder's [0,1] range
func qualityFraction(percent float64) float64 {
	return min(max(percent, 0), 100) / 100
}
