// Package palette assigns colours to categories.
package palette

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default is the colour cycle used when no palette is configured.
var Default = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// strokeDarken is the fraction of lightness removed for the stroke shade.
const strokeDarken = 0.25

// Swatch is the resolved colouring of one category.
type Swatch struct {
	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`
}

// Assigner maps category names to colours. Categories without an override
// take the next palette colour in display order.
type Assigner struct {
	palette   []colorful.Color
	overrides map[string]colorful.Color
}

// New validates palette and overrides and returns an Assigner. An empty
// palette selects Default. Colours are hex strings such as "#1f77b4" or "#abc".
func New(palette []string, overrides map[string]string) (*Assigner, error) {
	if len(palette) == 0 {
		palette = Default
	}
	a := &Assigner{overrides: make(map[string]colorful.Color, len(overrides))}
	for _, p := range palette {
		c, err := Parse(p)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		a.palette = append(a.palette, c)
	}
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		c, err := Parse(overrides[name])
		if err != nil {
			return nil, fmt.Errorf("colour override for %q: %w", name, err)
		}
		a.overrides[name] = c
	}
	return a, nil
}

// Assign returns one swatch per name, in order.
func (a *Assigner) Assign(names []string) []Swatch {
	out := make([]Swatch, len(names))
	next := 0
	for i, name := range names {
		c, ok := a.overrides[name]
		if !ok {
			c = a.palette[next%len(a.palette)]
			next++
		}
		out[i] = swatch(c)
	}
	return out
}

// Parse reads a hex colour, with or without the leading '#'.
func Parse(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// Stroke returns a darker shade of c in Lab space.
func Stroke(c colorful.Color) colorful.Color {
	l, aa, b := c.Lab()
	return colorful.Lab(l*(1-strokeDarken), aa, b).Clamped()
}

func swatch(c colorful.Color) Swatch {
	return Swatch{Fill: c.Hex(), Stroke: Stroke(c).Hex()}
}
