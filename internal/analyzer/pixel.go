package analyzer

import (
	"image"
	"image/draw"
)

// PixelBuffer is a read-only RGBA view of the rendered surface.
// Samples are row-major from the top-left corner, four bytes per pixel.
type PixelBuffer struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int
}

// NewPixelBuffer wraps img without copying when it is already an *image.RGBA
// anchored at the origin, and converts it otherwise.
func NewPixelBuffer(img image.Image) *PixelBuffer {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return &PixelBuffer{
			Pix:    rgba.Pix,
			Stride: rgba.Stride,
			Width:  rgba.Rect.Dx(),
			Height: rgba.Rect.Dy(),
		}
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	return &PixelBuffer{
		Pix:    rgba.Pix,
		Stride: rgba.Stride,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
}

// RGB returns the colour channels at (x, y) as floats in [0,255]
func (p *PixelBuffer) RGB(x, y int) (r, g, b float64) {
	i := y*p.Stride + x*4
	return float64(p.Pix[i]), float64(p.Pix[i+1]), float64(p.Pix[i+2])
}

// Luminance returns the BT.709 luminance at (x, y)
func (p *PixelBuffer) Luminance(x, y int) float64 {
	return Luminance(p.RGB(x, y))
}

// Empty reports whether the buffer has no samples
func (p *PixelBuffer) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0
}

// Luminance uses ITU-R BT.709 coefficients
func Luminance(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Saturation returns (max-min)/max, or 0 for black
func Saturation(r, g, b float64) float64 {
	hi := max(r, g, b)
	lo := min(r, g, b)
	if hi == 0 {
		return 0
	}
	return (hi - lo) / hi
}

// Smooth applies a symmetric moving average of the given radius.
// Windows at the edges average only the in-range neighbours.
func Smooth(values []float64, radius int) []float64 {
	radius = max(radius, 0)
	out := make([]float64, len(values))
	for i := range values {
		lo := max(0, i-radius)
		hi := min(len(values)-1, i+radius)
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
