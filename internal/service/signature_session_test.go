package service

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/observer"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

func signatureSession(t *testing.T, sources memorySources, location string) (*SignatureSession, *observer.MetricsObserver) {
	t.Helper()
	metrics := observer.NewMetricsObserver()
	deps, _ := newDeps(sources, &paddedJPEGEncoder{size: 60 * profile.KB})
	deps.Events.Subscribe(metrics)
	s := NewSignatureSession(deps)
	if err := s.Load(context.Background(), location); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, metrics
}

func TestSignatureSession_BlockedExport(t *testing.T) {
	s, metrics := signatureSession(t, memorySources{"two.png": stripedSheet(100, 300)}, "two.png")

	result, err := s.Export(context.Background(), 92)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !result.Blocked {
		t.Fatal("Expected export to be blocked")
	}
	if got := result.Evaluation.Checklist.Status(models.CheckThreeSignatures); got != models.StatusFail {
		t.Errorf("threeSignatures = %s, want fail", got)
	}
	if got := result.Evaluation.Metrics.Structure.SignatureCount; got != 2 {
		t.Errorf("Expected 2 signatures, got %d", got)
	}

	err = s.WriteOutput(filepath.Join(t.TempDir(), "signature.jpg"))
	if !apperrors.IsType(err, apperrors.ErrorTypeBlocked) {
		t.Errorf("Expected blocked error, got %v", err)
	}
	if got := metrics.GetMetrics()["exports_blocked"]; got != int64(1) {
		t.Errorf("Expected one blocked export, got %v", got)
	}
}

func TestSignatureSession_CleanSheetExports(t *testing.T) {
	s, metrics := signatureSession(t, memorySources{"three.png": stripedSheet(100, 220, 340)}, "three.png")

	result, err := s.Export(context.Background(), 92)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Blocked {
		t.Fatalf("Expected no hard fails, got %v", result.Evaluation.HardFails)
	}
	for _, key := range []models.CheckKey{models.CheckFileFormat, models.CheckFileSize, models.CheckDimensions, models.CheckThreeSignatures} {
		if got := result.Evaluation.Checklist.Status(key); got != models.StatusPass {
			t.Errorf("%s = %s, want pass", key, got)
		}
	}
	if err := s.WriteOutput(filepath.Join(t.TempDir(), "signature.jpg")); err != nil {
		t.Errorf("WriteOutput: %v", err)
	}
	if got := metrics.GetMetrics()["exports_completed"]; got != int64(1) {
		t.Errorf("Expected one completed export, got %v", got)
	}
}

func TestSignatureSession_RotateResetsOutput(t *testing.T) {
	s, _ := signatureSession(t, memorySources{"sheet.png": solid(400, 500, color.RGBA{255, 255, 255, 255})}, "sheet.png")
	if _, err := s.Export(context.Background(), 90); err != nil {
		t.Fatal(err)
	}

	for _, want := range []int{90, 180, 270, 0} {
		if err := s.Rotate(); err != nil {
			t.Fatal(err)
		}
		if got := s.Transform().Rotation; got != want {
			t.Errorf("Rotation = %d, want %d", got, want)
		}
		if s.Output() != nil {
			t.Error("Expected rotation to discard the export")
		}
	}
	if err := s.WriteOutput(filepath.Join(t.TempDir(), "signature.jpg")); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error without output, got %v", err)
	}
}

func TestSignatureSession_EvaluateBeforeExport(t *testing.T) {
	s, _ := signatureSession(t, memorySources{"two.png": stripedSheet(100, 300)}, "two.png")

	eval, err := s.Evaluate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := eval.Checklist.Status(models.CheckFileSize); got != models.StatusWarn {
		t.Errorf("fileSize = %s before export, want warn", got)
	}
	if !eval.ExportBlocked() {
		t.Error("Expected the signature count hard fail before export")
	}
}
