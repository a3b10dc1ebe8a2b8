package render

import "math"

// Transform is the user framing applied on top of the cover scale
type Transform struct {
	Zoom     float64 `json:"zoom"`
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`
	Rotation int     `json:"rotation"`
}

// IdentityTransform draws the source centred at cover scale
func IdentityTransform() Transform {
	return Transform{Zoom: 1}
}

// Rotate advances the rotation by a quarter turn
func (t Transform) Rotate() Transform {
	t.Rotation = normalizeRotation(t.Rotation + 90)
	return t
}

// WithZoomPercent sets zoom from a percentage such as 100 or 135
func (t Transform) WithZoomPercent(percent float64) Transform {
	t.Zoom = percent / 100
	return t
}

// WithOffset sets the pixel offset of the drawn source from the frame centre
func (t Transform) WithOffset(x, y float64) Transform {
	t.OffsetX, t.OffsetY = x, y
	return t
}

// BaseScale is the smallest scale at which the source covers the whole frame
func BaseScale(srcW, srcH, outW, outH int) float64 {
	if srcW <= 0 || srcH <= 0 {
		return 1
	}
	return math.Max(float64(outW)/float64(srcW), float64(outH)/float64(srcH))
}

// normalizeRotation snaps degrees to 0, 90, 180 or 270
func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return (deg / 90) * 90
}
