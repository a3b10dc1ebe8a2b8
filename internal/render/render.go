// Package render draws a source bitmap onto the fixed-size output surface.
package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Frame is the fixed output size of a mode
type Frame struct {
	Width  int
	Height int
}

// Renderer scales sources onto a white surface
type Renderer struct {
	interp draw.Interpolator
}

// NewRenderer creates a renderer using Catmull-Rom resampling
func NewRenderer() *Renderer {
	return &Renderer{interp: draw.CatmullRom}
}

// RenderPhoto draws src at baseScale*zoom, centred and shifted by the offsets. Rotation is ignored.
func (r *Renderer) RenderPhoto(src image.Image, frame Frame, baseScale float64, t Transform) *image.RGBA {
	t.Rotation = 0
	return r.render(src, frame, baseScale, t)
}

// RenderSignature draws src like RenderPhoto after turning it clockwise by t.Rotation about its centre
func (r *Renderer) RenderSignature(src image.Image, frame Frame, baseScale float64, t Transform) *image.RGBA {
	return r.render(src, frame, baseScale, t)
}

func (r *Renderer) render(src image.Image, frame Frame, baseScale float64, t Transform) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if src == nil || t.Zoom <= 0 || baseScale <= 0 {
		return dst
	}

	// turning the source first equals turning the drawn image about its centre
	scale := baseScale * t.Zoom
	rotated := rotateClockwise(src, normalizeRotation(t.Rotation))
	b := rotated.Bounds()
	drawW := float64(b.Dx()) * scale
	drawH := float64(b.Dy()) * scale
	x := (float64(frame.Width)-drawW)/2 + t.OffsetX
	y := (float64(frame.Height)-drawH)/2 + t.OffsetY

	s2d := f64.Aff3{
		scale, 0, x - scale*float64(b.Min.X),
		0, scale, y - scale*float64(b.Min.Y),
	}
	r.interp.Transform(dst, s2d, rotated, b, draw.Over, nil)
	return dst
}

// rotateClockwise turns src by a multiple of 90 degrees
func rotateClockwise(src image.Image, deg int) image.Image {
	switch deg {
	case 90:
		return imaging.Rotate270(src)
	case 180:
		return imaging.Rotate180(src)
	case 270:
		return imaging.Rotate90(src)
	default:
		return src
	}
}
