package textmeasure

const (
	charWidthRatio  = 0.55
	lineHeightRatio = 1.2
	// DefaultSize is used when a Font has no size.
	DefaultSize = 12.0
)

// Heuristic estimates text extents from average character proportions.
type Heuristic struct{}

var _ Measurer = Heuristic{}

func (Heuristic) Measure(text string, f Font) Size {
	size := fontSize(f)
	if text == "" {
		return Size{}
	}
	return Size{
		Width:  float64(runeCount(text)) * size * charWidthRatio,
		Height: size * lineHeightRatio,
	}
}

func (h Heuristic) Tailor(text string, f Font, maxWidth float64) string {
	return tailor(func(s string) float64 { return h.Measure(s, f).Width }, text, maxWidth)
}

func fontSize(f Font) float64 {
	if f.Size > 0 {
		return f.Size
	}
	return DefaultSize
}
