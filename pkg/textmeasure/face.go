package textmeasure

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/violin/pkg/fonts"
)

// dpi makes one point equal one pixel.
const dpi = 72

// Face measures text with glyph advances from the embedded fonts. Families
// that cannot be loaded are measured with Heuristic.
//
// The zero value is ready to use.
type Face struct {
	mu    sync.Mutex
	faces map[Font]font.Face
}

var _ Measurer = (*Face)(nil)

// NewFace returns an empty Face measurer.
func NewFace() *Face { return &Face{} }

func (m *Face) Measure(text string, f Font) Size {
	if text == "" {
		return Size{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	face := m.face(f)
	if face == nil {
		return Heuristic{}.Measure(text, f)
	}
	return Size{
		Width:  fixedToFloat(font.MeasureString(face, text)),
		Height: fixedToFloat(face.Metrics().Height),
	}
}

func (m *Face) Tailor(text string, f Font, maxWidth float64) string {
	return tailor(func(s string) float64 { return m.Measure(s, f).Width }, text, maxWidth)
}

// face returns the cached face for f. m.mu must be held.
func (m *Face) face(f Font) font.Face {
	f.Size = fontSize(f)
	if face, ok := m.faces[f]; ok {
		return face
	}
	if m.faces == nil {
		m.faces = make(map[Font]font.Face)
	}

	var face font.Face
	if parsed, err := fonts.Parse(f.Family); err == nil {
		face, err = opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    f.Size,
			DPI:     dpi,
			Hinting: font.HintingNone,
		})
		if err != nil {
			face = nil
		}
	}
	// Failures are cached as nil so the heuristic path is taken directly.
	m.faces[f] = face
	return face
}

func fixedToFloat[T ~int32](v T) float64 { return float64(v) / 64 }
