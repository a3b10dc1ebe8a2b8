package face

import (
	"context"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/photo-compliance-go/internal/logger"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
)

// PigoOptions tunes the cascade scan
type PigoOptions struct {
	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IoUThreshold float64
	MinQuality   float32
}

// DefaultPigoOptions suits a 600x800 portrait where the face fills most of the frame
func DefaultPigoOptions() PigoOptions {
	return PigoOptions{
		MinSize:      80,
		MaxSize:      1000,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinQuality:   5.0,
	}
}

// PigoDetector runs the pigo face cascade and, when present, the pupil localisation cascade
type PigoDetector struct {
	classifier *pigo.Pigo
	puploc     *pigo.PuplocCascade
	opts       PigoOptions
}

// LoadPigoDetector reads the cascades from disk. An empty face cascade path yields
// Unavailable so callers can treat the capability as absent.
func LoadPigoDetector(faceCascadePath, pupilCascadePath string, opts PigoOptions) (Detector, error) {
	if faceCascadePath == "" {
		return Unavailable{}, nil
	}
	data, err := os.ReadFile(faceCascadePath)
	if err != nil {
		return nil, fmt.Errorf("read face cascade: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack face cascade: %w", err)
	}

	d := &PigoDetector{classifier: classifier, opts: opts}
	if pupilCascadePath != "" {
		pdata, err := os.ReadFile(pupilCascadePath)
		if err != nil {
			return nil, fmt.Errorf("read pupil cascade: %w", err)
		}
		plc, err := pigo.NewPuplocCascade().UnpackCascade(pdata)
		if err != nil {
			return nil, fmt.Errorf("unpack pupil cascade: %w", err)
		}
		d.puploc = plc
	}

	logger.WithFields(logrus.Fields{
		"face_cascade":  faceCascadePath,
		"pupil_cascade": pupilCascadePath,
	}).Info("Face detector loaded")
	return d, nil
}

// Detect returns the best scoring face, with eye landmarks when the pupil cascade is loaded
func (d *PigoDetector) Detect(ctx context.Context, img image.Image) (result models.FaceDetectionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.FaceDetectionResult{Available: false, Error: fmt.Sprintf("face detection failed: %v", r)}
		}
	}()
	if err := ctx.Err(); err != nil {
		return models.FaceDetectionResult{Available: false, Error: err.Error()}
	}

	bounds := img.Bounds()
	params := pigo.ImageParams{
		Pixels: pigo.RgbToGrayscale(img),
		Rows:   bounds.Dy(),
		Cols:   bounds.Dx(),
		Dim:    bounds.Dx(),
	}
	cascade := pigo.CascadeParams{
		MinSize:     d.opts.MinSize,
		MaxSize:     d.opts.MaxSize,
		ShiftFactor: d.opts.ShiftFactor,
		ScaleFactor: d.opts.ScaleFactor,
		ImageParams: params,
	}

	dets := d.classifier.RunCascade(cascade, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.opts.IoUThreshold)

	best := -1
	for i, det := range dets {
		if det.Q < d.opts.MinQuality {
			continue
		}
		if best < 0 || det.Q > dets[best].Q {
			best = i
		}
	}
	if best < 0 {
		return models.FaceDetectionResult{Available: true, Detected: false}
	}

	det := dets[best]
	half := float64(det.Scale) / 2
	result = models.FaceDetectionResult{
		Available: true,
		Detected:  true,
		Box: &models.Rect{
			X:      float64(det.Col) - half,
			Y:      float64(det.Row) - half,
			Width:  float64(det.Scale),
			Height: float64(det.Scale),
		},
	}
	if d.puploc != nil {
		result.LeftEye = d.locatePupil(det, params, -0.175)
		result.RightEye = d.locatePupil(det, params, 0.185)
	}
	return result
}

// locatePupil seeds the pupil search at a fixed offset from the face centre
func (d *PigoDetector) locatePupil(det pigo.Detection, params pigo.ImageParams, colOffset float64) *models.Point {
	seed := pigo.Puploc{
		Row:      det.Row - int(0.075*float64(det.Scale)),
		Col:      det.Col + int(colOffset*float64(det.Scale)),
		Scale:    float32(det.Scale) * 0.25,
		Perturbs: 63,
	}
	found := d.puploc.RunDetector(seed, params, 0.0, false)
	if found == nil || found.Row <= 0 || found.Col <= 0 {
		return nil
	}
	return &models.Point{X: float64(found.Col), Y: float64(found.Row)}
}
