package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/logger"
	"github.com/anime-shed/photo-compliance-go/internal/render"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
)

// InspectRequest describes one end-to-end run: load, frame, evaluate and optionally export
type InspectRequest struct {
	Mode   models.Mode
	Source string

	// ZoomPercent of 0 means 100
	ZoomPercent float64
	OffsetX     float64
	OffsetY     float64
	// QuarterTurns rotates a signature sheet clockwise; ignored for photos
	QuarterTurns int

	Photo     PhotoDetails
	Confirmed bool
	// Quality is the preferred encode quality in percent
	Quality float64

	Export     bool
	OutputPath string
}

// InspectionService runs a complete session for one source
type InspectionService interface {
	Inspect(ctx context.Context, req InspectRequest) (*models.Report, error)
}

type inspectionService struct {
	deps          Dependencies
	exportTimeout time.Duration
}

// NewInspectionService creates the service. exportTimeout bounds each compression search.
func NewInspectionService(deps Dependencies, exportTimeout time.Duration) InspectionService {
	return &inspectionService{deps: deps, exportTimeout: exportTimeout}
}

// Inspect returns a report for every run that got as far as evaluating. Hard fails are
// reported through Report.Blocked, not as an error.
func (s *inspectionService) Inspect(ctx context.Context, req InspectRequest) (*models.Report, error) {
	start := time.Now()
	var (
		report *models.Report
		err    error
	)
	switch req.Mode {
	case models.ModePhoto:
		report, err = s.inspectPhoto(ctx, req)
	case models.ModeSignature:
		report, err = s.inspectSignature(ctx, req)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown mode %q", req.Mode), nil)
	}
	if report != nil {
		report.Source = req.Source
		report.Timestamp = start.UTC()
		report.ProcessingTimeSec = time.Since(start).Seconds()
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	entry := logger.WithFields(logrus.Fields{
		"mode":   req.Mode,
		"source": req.Source,
	})
	if err != nil {
		entry.WithError(err).Error("Inspection failed")
	} else {
		entry.WithField("blocked", report.Blocked).Info("Inspection finished")
	}
	return report, err
}

func (s *inspectionService) inspectPhoto(ctx context.Context, req InspectRequest) (*models.Report, error) {
	sess := NewPhotoSession(s.deps)
	if err := sess.Load(ctx, req.Source); err != nil {
		return nil, err
	}
	if err := sess.SetTransform(requestTransform(req, false)); err != nil {
		return nil, err
	}

	report := &models.Report{ID: sess.ID()}
	eval, err := sess.Evaluate(ctx, req.Photo)
	if err != nil {
		return nil, err
	}
	report.Evaluation = eval
	if !req.Export {
		return report, nil
	}

	exportCtx, cancel := s.exportContext(ctx)
	defer cancel()
	result, err := sess.Export(exportCtx, PhotoExportRequest{
		PhotoDetails: req.Photo,
		Confirmed:    req.Confirmed,
		Quality:      req.Quality,
	})
	if err != nil {
		return report, err
	}
	report.Evaluation = result.Evaluation
	report.OCRResult = result.OCR
	if req.OutputPath != "" {
		if err := sess.WriteOutput(req.OutputPath); err != nil {
			return report, err
		}
		report.OutputPath = req.OutputPath
	}
	return report, nil
}

func (s *inspectionService) inspectSignature(ctx context.Context, req InspectRequest) (*models.Report, error) {
	sess := NewSignatureSession(s.deps)
	if err := sess.Load(ctx, req.Source); err != nil {
		return nil, err
	}
	if err := sess.SetTransform(requestTransform(req, true)); err != nil {
		return nil, err
	}

	report := &models.Report{ID: sess.ID()}
	eval, err := sess.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	report.Evaluation = eval
	report.Blocked = eval.ExportBlocked()
	if !req.Export {
		return report, nil
	}

	exportCtx, cancel := s.exportContext(ctx)
	defer cancel()
	result, err := sess.Export(exportCtx, req.Quality)
	if err != nil {
		return report, err
	}
	report.Evaluation = result.Evaluation
	report.Blocked = result.Blocked
	if req.OutputPath != "" && !result.Blocked {
		if err := sess.WriteOutput(req.OutputPath); err != nil {
			return report, err
		}
		report.OutputPath = req.OutputPath
	}
	return report, nil
}

func (s *inspectionService) exportContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.exportTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.exportTimeout)
}

func requestTransform(req InspectRequest, rotate bool) render.Transform {
	t := render.IdentityTransform()
	if req.ZoomPercent > 0 {
		t = t.WithZoomPercent(req.ZoomPercent)
	}
	t = t.WithOffset(req.OffsetX, req.OffsetY)
	if rotate {
		turns := ((req.QuarterTurns % 4) + 4) % 4
		for i := 0; i < turns; i++ {
			t = t.Rotate()
		}
	}
	return t
}
