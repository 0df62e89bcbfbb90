package density

import (
	"github.com/aclements/go-moremath/scale"
)

// WidthScale maps a density value to a half-width in pixels, so that the peak
// of a curve spans half of the violin band.
type WidthScale struct {
	lin  scale.Linear
	half float64
}

// NewWidthScale maps [0, max y of pts] onto [0, halfWidth].
func NewWidthScale(pts []Point, halfWidth float64) WidthScale {
	return WidthScale{
		lin:  scale.Linear{Min: 0, Max: MaxY(pts), Clamp: true},
		half: max(0, halfWidth),
	}
}

// Map returns the half-width for density y.
func (w WidthScale) Map(y float64) float64 {
	if w.lin.Max <= 0 {
		return 0
	}
	return w.lin.Map(y) * w.half
}

// Outline returns the half-widths of pts in order.
func (w WidthScale) Outline(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = w.Map(p.Y)
	}
	return out
}
