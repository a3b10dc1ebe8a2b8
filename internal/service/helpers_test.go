package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"sync"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/face"
	"github.com/anime-shed/photo-compliance-go/internal/observer"
	"github.com/anime-shed/photo-compliance-go/internal/repository"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
)

// memorySources serves decoded images by location
type memorySources map[string]image.Image

func (m memorySources) Load(_ context.Context, location string) (*repository.Source, error) {
	img, ok := m[location]
	if !ok {
		return nil, apperrors.NewNotFoundError("Source file not found", nil)
	}
	b := img.Bounds()
	return &repository.Source{Location: location, Kind: "file", MIMEType: "image/png", Width: b.Dx(), Height: b.Dy(), Image: img}, nil
}

// paddedJPEGEncoder emits a real JPEG padded with trailing bytes to a fixed size
type paddedJPEGEncoder struct {
	size  int
	mu    sync.Mutex
	calls int
}

func (e *paddedJPEGEncoder) MIMEType() string { return "image/jpeg" }

func (e *paddedJPEGEncoder) Encode(_ context.Context, img image.Image, _ float64) ([]byte, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 50}); err != nil {
		return nil, err
	}
	if pad := e.size - buf.Len(); pad > 0 {
		buf.Write(make([]byte, pad))
	}
	return buf.Bytes(), nil
}

type emptyEncoder struct{}

func (emptyEncoder) MIMEType() string { return "image/jpeg" }
func (emptyEncoder) Encode(context.Context, image.Image, float64) ([]byte, error) {
	return nil, nil
}

// fakeOCR returns a fixed string
type fakeOCR struct {
	text string
}

func (f fakeOCR) ReadText(context.Context, image.Image) (string, error) { return f.text, nil }
func (f fakeOCR) Close() error                                          { return nil }

type eventLog struct {
	mu     sync.Mutex
	events []observer.EventType
}

func (l *eventLog) OnEvent(_ context.Context, e observer.ComplianceEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e.EventType)
}

func (l *eventLog) GetObserverName() string { return "event_log" }

func (l *eventLog) has(t observer.EventType) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e == t {
			return true
		}
	}
	return false
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// stripedSheet draws 200x40 bars of 2px ink columns on white paper at the given rows
func stripedSheet(rows ...int) *image.RGBA {
	img := solid(400, 500, color.RGBA{255, 255, 255, 255})
	for _, top := range rows {
		for y := top; y < top+40; y++ {
			for x := 100; x < 300; x++ {
				if (x-100)%4 < 2 {
					img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
				}
			}
		}
	}
	return img
}

func centredFace() face.Detector {
	return face.Static{Result: models.FaceDetectionResult{
		Available: true,
		Detected:  true,
		Box:       &models.Rect{X: 30, Y: 40, Width: 540, Height: 720},
		LeftEye:   &models.Point{X: 200, Y: 300},
		RightEye:  &models.Point{X: 400, Y: 310},
	}}
}

func newDeps(sources memorySources, enc *paddedJPEGEncoder) (Dependencies, *eventLog) {
	log := &eventLog{}
	events := observer.NewEventPublisher()
	events.Subscribe(log)
	return Dependencies{
		Sources:  sources,
		Encoder:  enc,
		Events:   events,
		Detector: centredFace(),
	}, log
}
