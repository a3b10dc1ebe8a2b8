package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

func loadBold() (*opentype.Font, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = opentype.Parse(gobold.TTF)
	})
	return boldFont, boldErr
}

// Annotation describes the printed name/date bar
type Annotation struct {
	Text     string          `json:"text"`
	FontSize float64         `json:"font_size"`
	Width    int             `json:"width"`
	Bar      image.Rectangle `json:"-"`
}

// AnnotationText joins the candidate name and date as printed on the photo
func AnnotationText(name, date string) string {
	return fmt.Sprintf("%s | %s", name, date)
}

// Annotate returns a copy of surface with a translucent bar at the bottom and
// text centred in it. The font shrinks one pixel at a time until the text fits
// within the side padding or the minimum size is reached.
func Annotate(surface *image.RGBA, text string, cfg profile.Text) (*image.RGBA, Annotation, error) {
	f, err := loadBold()
	if err != nil {
		return nil, Annotation{}, fmt.Errorf("load annotation font: %w", err)
	}

	b := surface.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, surface, b.Min, draw.Src)

	bar := image.Rect(b.Min.X, b.Max.Y-cfg.BarHeightPx, b.Max.X, b.Max.Y)
	alpha := uint8(math.Round(cfg.BarAlpha * 255))
	barColor := color.NRGBA{R: cfg.BarColor[0], G: cfg.BarColor[1], B: cfg.BarColor[2], A: alpha}
	draw.Draw(out, bar, image.NewUniform(barColor), image.Point{}, draw.Over)

	maxWidth := b.Dx() - cfg.SidePadding
	var face font.Face
	size := cfg.FontSizePx
	for {
		face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, Annotation{}, fmt.Errorf("create annotation face: %w", err)
		}
		if font.MeasureString(face, text).Ceil() <= maxWidth || size-1 < cfg.MinFontPx {
			break
		}
		face.Close()
		size--
	}
	defer face.Close()

	width := font.MeasureString(face, text)
	metrics := face.Metrics()
	midY := bar.Min.Y + cfg.BarHeightPx/2
	baseline := fixed.I(midY) + (metrics.Ascent-metrics.Descent)/2

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.RGBA{R: cfg.Color[0], G: cfg.Color[1], B: cfg.Color[2], A: 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(b.Min.X+b.Dx()/2) - width/2, Y: baseline},
	}
	d.DrawString(text)

	return out, Annotation{Text: text, FontSize: size, Width: width.Ceil(), Bar: bar}, nil
}
