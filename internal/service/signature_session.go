package service

import (
	"context"
	"fmt"
	"time"

	"github.com/anime-shed/photo-compliance-go/internal/analyzer"
	"github.com/anime-shed/photo-compliance-go/internal/compress"
	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/evaluator"
	"github.com/anime-shed/photo-compliance-go/internal/observer"
	"github.com/anime-shed/photo-compliance-go/internal/render"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
	"github.com/anime-shed/photo-compliance-go/pkg/validation"
)

// SignatureSession frames a three-signature sheet on the 400x500 surface
type SignatureSession struct {
	session
	profile   profile.SignatureProfile
	evaluator *evaluator.SignatureEvaluator
}

func NewSignatureSession(deps Dependencies) *SignatureSession {
	p := profile.Signature()
	renderer := deps.Renderer
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	s := &SignatureSession{
		profile:   p,
		evaluator: evaluator.NewSignatureEvaluator(p, analyzer.NewRegionAnalyzer(), analyzer.NewStructureAnalyzer()),
	}
	s.init(models.ModeSignature, render.Frame{Width: p.Output.Width, Height: p.Output.Height},
		deps, renderer.RenderSignature, validation.SignatureOutputRules(p))
	return s
}

// Rotate turns the sheet a further quarter turn clockwise
func (s *SignatureSession) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTransformLocked(s.transform.Rotate())
}

// Evaluate runs the signature checks. Output-aware checks reflect the last export, if any.
func (s *SignatureSession) Evaluate(ctx context.Context) (*models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireSourceLocked(); err != nil {
		return nil, err
	}
	return s.evaluateLocked(ctx), nil
}

func (s *SignatureSession) evaluateLocked(ctx context.Context) *models.Evaluation {
	start := time.Now()
	s.publish(ctx, observer.ComplianceEvent{EventType: observer.EvaluationStarted})

	eval := s.evaluator.Evaluate(s.surface, s.output)
	s.evaluation = eval

	s.publish(ctx, observer.ComplianceEvent{
		EventType:      observer.EvaluationCompleted,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"warnings":   len(eval.Warnings),
			"hard_fails": len(eval.HardFails),
			"signatures": eval.Metrics.Structure.SignatureCount,
		},
	})
	return eval
}

// Export compresses the surface and re-evaluates with output-aware checks. When any hard
// fail remains the result is returned with Blocked set and the output cannot be written.
func (s *SignatureSession) Export(ctx context.Context, quality float64) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.requireSourceLocked(); err != nil {
		return nil, err
	}

	output, issues, err := s.compressLocked(ctx, s.surface, compress.Request{
		PreferredQuality: qualityFraction(quality),
		MinBytes:         s.profile.FileSize.MinBytes,
		MaxBytes:         s.profile.FileSize.MaxBytes,
	})
	if err != nil {
		return nil, s.exportFailed(ctx, start, err)
	}
	s.output = output

	eval := s.evaluateLocked(ctx)
	result := &ExportResult{
		Evaluation: eval,
		Output:     output,
		Issues:     issues,
		Blocked:    eval.ExportBlocked(),
	}

	eventType := observer.ExportCompleted
	errMsg := ""
	if result.Blocked {
		eventType = observer.ExportBlocked
		errMsg = fmt.Sprintf("Export blocked by hard fail checks (%d). Resolve and regenerate.", len(eval.HardFails))
	}
	s.publish(ctx, observer.ComplianceEvent{
		EventType:      eventType,
		ProcessingTime: time.Since(start),
		Success:        !result.Blocked,
		ErrorMessage:   errMsg,
		Metadata: map[string]interface{}{
			"bytes":      output.Bytes,
			"quality":    output.Quality,
			"hard_fails": len(eval.HardFails),
			"warning":    output.Warning,
		},
	})
	return result, nil
}

// WriteOutput writes the last export to path unless hard fails block it
func (s *SignatureSession) WriteOutput(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.output == nil {
		return apperrors.NewValidationError("Export failure: final signature image is not ready.", nil)
	}
	if s.evaluation.ExportBlocked() {
		return apperrors.NewBlockedError("Download blocked. Resolve hard fail checks first.", nil).
			WithDetails(fmt.Sprintf("%d hard fail(s)", len(s.evaluation.HardFails)))
	}
	return writeBlob(path, s.output.Blob)
}
