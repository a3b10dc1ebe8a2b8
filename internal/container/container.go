package container

import (
	"errors"
	"fmt"

	"github.com/anime-shed/photo-compliance-go/internal/compress"
	"github.com/anime-shed/photo-compliance-go/internal/config"
	"github.com/anime-shed/photo-compliance-go/internal/face"
	"github.com/anime-shed/photo-compliance-go/internal/logger"
	"github.com/anime-shed/photo-compliance-go/internal/observer"
	"github.com/anime-shed/photo-compliance-go/internal/ocr"
	"github.com/anime-shed/photo-compliance-go/internal/render"
	"github.com/anime-shed/photo-compliance-go/internal/repository"
	"github.com/anime-shed/photo-compliance-go/internal/service"
	"github.com/anime-shed/photo-compliance-go/internal/storage"
	"github.com/anime-shed/photo-compliance-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config            *config.Config
	sourceRepository  repository.SourceRepository
	events            observer.Subject
	metrics           *observer.MetricsObserver
	ocrReader         ocr.Reader
	inspectionService service.InspectionService
}

// NewContainer creates a new dependency injection container.
// Optional capabilities (face cascades, OCR) degrade to absent instead of failing.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Build dependency graph
	sourceRepository := repository.NewSourceRepository(
		validation.NewSourceValidator(),
		storage.NewFileLoader(cfg.MaxInputBytes),
		storage.NewHTTPFetcher(cfg.FetchTimeout, cfg.MaxInputBytes),
		cfg.MaxInputBytes,
	)

	detector, err := face.LoadPigoDetector(cfg.FaceCascadePath, cfg.PupilCascadePath, face.DefaultPigoOptions())
	if err != nil {
		logger.WithError(err).Warn("Face detection unavailable")
		detector = face.Unavailable{}
	}

	reader, err := ocr.NewReader(ocr.Options{Language: cfg.OCRLanguage, TessdataPrefix: cfg.TessdataPrefix})
	if err != nil {
		if !errors.Is(err, ocr.ErrUnavailable) {
			logger.WithError(err).Warn("OCR unavailable")
		}
		reader = nil
	}

	events := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	deps := service.Dependencies{
		Sources:  sourceRepository,
		Renderer: render.NewRenderer(),
		Encoder:  compress.NewJPEGEncoder(),
		Events:   events,
		Detector: detector,
		OCR:      reader,
	}

	return &Container{
		config:            cfg,
		sourceRepository:  sourceRepository,
		events:            events,
		metrics:           metrics,
		ocrReader:         reader,
		inspectionService: service.NewInspectionService(deps, cfg.ExportTimeout),
	}, nil
}

// InspectionService returns the end-to-end inspection service
func (c *Container) InspectionService() service.InspectionService {
	return c.inspectionService
}

// Metrics returns the counters collected over this process
func (c *Container) Metrics() map[string]interface{} {
	return c.metrics.GetMetrics()
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the OCR engine, if any
func (c *Container) Close() error {
	if c.ocrReader != nil {
		return c.ocrReader.Close()
	}
	return nil
}
