// Package textmeasure measures and tailors axis text for the layout resolver.
//
// Two measurers are provided. [Heuristic] estimates widths from fixed
// character ratios and needs no font data. [Face] uses real glyph advances
// from the embedded Go fonts. Both are safe for concurrent use.
package textmeasure

import (
	"unicode/utf8"
)

// Ellipsis is appended to tailored text.
const Ellipsis = "…"

// Font selects a family and a size in pixels.
type Font struct {
	Family string  `json:"family" toml:"family"`
	Size   float64 `json:"size" toml:"size"`
}

// Size is a measured text extent in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measurer measures text and shortens it to fit a width.
type Measurer interface {
	Measure(text string, f Font) Size
	// Tailor returns text unchanged if it fits maxWidth, otherwise the longest
	// prefix that fits with Ellipsis appended, or "" when nothing fits.
	Tailor(text string, f Font, maxWidth float64) string
}

// tailor implements Measurer.Tailor on top of a width function.
func tailor(width func(string) float64, text string, maxWidth float64) string {
	if text == "" || !(maxWidth > 0) {
		return ""
	}
	if width(text) <= maxWidth {
		return text
	}
	if width(Ellipsis) > maxWidth {
		return ""
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if width(string(runes[:mid])+Ellipsis) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + Ellipsis
}

func runeCount(s string) int { return utf8.RuneCountInString(s) }
