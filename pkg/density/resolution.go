package density

import (
	"fmt"
	"strings"
)

// Resolution selects how many grid intervals the value domain is split into.
type Resolution int

const (
	Low Resolution = iota
	Medium
	High
	VeryHigh
)

// DefaultResolution is used when none is configured.
const DefaultResolution = High

var resolutions = [...]struct {
	name  string
	ticks int
}{
	Low:      {"low", 25},
	Medium:   {"medium", 50},
	High:     {"high", 100},
	VeryHigh: {"very-high", 200},
}

// Ticks returns the number of grid intervals for r.
func (r Resolution) Ticks() int {
	if r < 0 || int(r) >= len(resolutions) {
		return resolutions[DefaultResolution].ticks
	}
	return resolutions[r].ticks
}

func (r Resolution) String() string {
	if r < 0 || int(r) >= len(resolutions) {
		return resolutions[DefaultResolution].name
	}
	return resolutions[r].name
}

// ParseResolution resolves a resolution name. Empty yields DefaultResolution.
func ParseResolution(s string) (Resolution, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultResolution, nil
	}
	s = strings.ReplaceAll(s, "_", "-")
	for i, r := range resolutions {
		if r.name == s {
			return Resolution(i), nil
		}
	}
	return DefaultResolution, fmt.Errorf("unknown resolution %q (must be one of: low, medium, high, very-high)", s)
}

// MarshalText encodes the resolution by name.
func (r Resolution) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText decodes a resolution name.
func (r *Resolution) UnmarshalText(b []byte) error {
	v, err := ParseResolution(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
