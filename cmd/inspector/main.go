package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/photo-compliance-go/internal/config"
	"github.com/anime-shed/photo-compliance-go/internal/container"
	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/evaluator"
	"github.com/anime-shed/photo-compliance-go/internal/logger"
	"github.com/anime-shed/photo-compliance-go/internal/service"
	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// inspector -mode photo -source portrait.jpg -name "Asha Rao" -photo-date 2024-03-01 \
//   -app-start 2024-03-05 -frontal -eyes-open -ears-visible -natural -hair-clear -confirm -export
// inspector -mode signature -source https://example.com/sheet.png -rotate 1 -export -out sig.jpg

func main() {
	os.Exit(run())
}

func run() int {
	mode := flag.String("mode", string(models.ModePhoto), "Compliance mode: photo or signature")
	source := flag.String("source", "", "Image file path or http(s) URL (jpg/png/gif/webp/bmp/tiff)")
	configPath := flag.String("config", "", "Optional YAML file overlaying environment settings")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error")

	zoom := flag.Float64("zoom", 100, "Zoom in percent on top of the cover scale")
	offsetX := flag.Float64("offset-x", 0, "Horizontal offset of the source in output pixels")
	offsetY := flag.Float64("offset-y", 0, "Vertical offset of the source in output pixels")
	rotate := flag.Int("rotate", 0, "Quarter turns clockwise (signature only)")

	name := flag.String("name", "", "Candidate name printed on the photo")
	photoDate := flag.String("photo-date", "", "Date printed on the photo (YYYY-MM-DD)")
	captureDate := flag.String("capture-date", "", "Capture date (YYYY-MM-DD), defaults to the photo date")
	appStart := flag.String("app-start", "", "Application start date (YYYY-MM-DD)")

	var manual evaluator.ManualChecks
	flag.BoolVar(&manual.Frontal, "frontal", false, "Confirm the face is frontal")
	flag.BoolVar(&manual.EyesOpen, "eyes-open", false, "Confirm the eyes are open")
	flag.BoolVar(&manual.EarsVisible, "ears-visible", false, "Confirm both ears are visible")
	flag.BoolVar(&manual.NaturalExpression, "natural", false, "Confirm a natural expression")
	flag.BoolVar(&manual.HairClear, "hair-clear", false, "Confirm hair does not cover the face")
	flag.BoolVar(&manual.GlassesNoGlare, "no-glare", false, "Confirm glasses, if any, show no glare")
	flag.BoolVar(&manual.FlagUniformHeadwear, "uniform-headwear", false, "Flag uniform or headwear")
	flag.BoolVar(&manual.FlagSignedPhoto, "signed-photo", false, "Flag a signature on the photo")

	confirm := flag.Bool("confirm", false, "Confirm compliance mode before a photo export")
	quality := flag.Int("quality", -1, "Preferred JPEG quality in percent (defaults to DEFAULT_QUALITY)")
	export := flag.Bool("export", false, "Compress the framed image into the size window")
	out := flag.String("out", "", "Write the exported JPEG here (defaults to photo.jpg / signature.jpg)")
	flag.Parse()

	if *source == "" {
		flag.Usage()
		return apperrors.ExitValidation
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fail(apperrors.NewValidationError("Invalid configuration", err))
	}
	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logger.SetLevel(level)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fail(apperrors.NewInternalError("Failed to initialize container", err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.WithError(err).Warn("Failed to release OCR engine")
		}
	}()

	q := cfg.DefaultQuality
	if *quality >= 0 {
		q = *quality
	}

	req := service.InspectRequest{
		Mode:         models.Mode(*mode),
		Source:       *source,
		ZoomPercent:  *zoom,
		OffsetX:      *offsetX,
		OffsetY:      *offsetY,
		QuarterTurns: *rotate,
		Photo: service.PhotoDetails{
			Manual:        manual,
			CandidateName: *name,
			Dates: evaluator.RecencyInput{
				ApplicationStartDate: *appStart,
				CaptureDate:          *captureDate,
				PhotoDate:            *photoDate,
			},
		},
		Confirmed:  *confirm,
		Quality:    float64(q),
		Export:     *export,
		OutputPath: outputPath(models.Mode(*mode), *out, *export),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := c.InspectionService().Inspect(ctx, req)
	if report != nil {
		printJSON(report)
	}
	logger.WithFields(logrus.Fields{"metrics": c.Metrics()}).Debug("Session metrics")

	switch {
	case err != nil && report == nil:
		return fail(err)
	case err != nil:
		return apperrors.GetExitCode(err)
	case report.Blocked:
		return apperrors.ExitBlocked
	}
	return apperrors.ExitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadFromEnv()
}

// outputPath picks the profile's default filename when exporting without -out
func outputPath(mode models.Mode, out string, export bool) string {
	if out != "" || !export {
		return out
	}
	if mode == models.ModeSignature {
		return profile.Signature().Output.Filename
	}
	return profile.Photo().Output.Filename
}

func fail(err error) int {
	resp := models.ErrorResponse{Error: err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Error = string(appErr.Type)
		resp.Message = appErr.Message
		if appErr.Details != "" {
			resp.Message += " (" + appErr.Details + ")"
		}
	}
	printJSON(resp)
	return apperrors.GetExitCode(err)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
	}
}
