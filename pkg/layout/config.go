package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/violin/pkg/fonts"
	"github.com/matzehuels/violin/pkg/textmeasure"
)

// AutoPrecision lets the tick spacing pick the number of decimals.
const AutoPrecision = -1

// Default sizes in pixels.
const (
	DefaultWidth         = 400.0
	DefaultHeight        = 300.0
	DefaultAxisPadding   = 4.0
	DefaultMinSize       = 80.0
	DefaultTickCount     = 6
	DefaultMaxMeanRadius = 4.0
	DefaultLabelSize     = 11.0
	DefaultTitleSize     = 12.0
)

// Default inner-padding percentages.
const (
	DefaultViolinPadding  = 10.0
	DefaultBoxPadding     = 85.0
	DefaultBarcodePadding = 40.0
)

// AxisConfig configures one axis.
type AxisConfig struct {
	Visible      bool             `json:"visible"`
	TitleVisible bool             `json:"title_visible"`
	Title        string           `json:"title"`
	TitleFont    textmeasure.Font `json:"title_font"`
	LabelFont    textmeasure.Font `json:"label_font"`
	// MinSize is the smallest usable plot extent along the axis: the plot
	// height for the value axis, the plot width for the category axis.
	MinSize float64 `json:"min_size"`
}

// ValueAxisConfig adds tick options to AxisConfig.
type ValueAxisConfig struct {
	AxisConfig
	// TickCount is the maximum number of major ticks.
	TickCount int   `json:"tick_count"`
	Units     Units `json:"units"`
	// Precision is the number of decimals in tick labels, or AutoPrecision.
	Precision int `json:"precision"`
}

// Margins surround the whole chart.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Config holds everything about the layout that does not depend on the data.
type Config struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margins Margins `json:"margins"`
	// AxisPadding separates an axis line from its labels.
	AxisPadding float64 `json:"axis_padding"`

	ValueAxis    ValueAxisConfig `json:"value_axis"`
	CategoryAxis AxisConfig      `json:"category_axis"`

	// Inner paddings are percentages: the violin is inset from its band, box
	// and barcode from the violin.
	ViolinPadding  float64 `json:"violin_padding"`
	BoxPadding     float64 `json:"box_padding"`
	BarcodePadding float64 `json:"barcode_padding"`
	MaxMeanRadius  float64 `json:"max_mean_radius"`
}

// DefaultConfig returns a Config with both axes shown.
func DefaultConfig() Config {
	axis := AxisConfig{
		Visible:      true,
		TitleVisible: true,
		TitleFont:    textmeasure.Font{Family: fonts.Default, Size: DefaultTitleSize},
		LabelFont:    textmeasure.Font{Family: fonts.Default, Size: DefaultLabelSize},
		MinSize:      DefaultMinSize,
	}
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		AxisPadding: DefaultAxisPadding,
		ValueAxis: ValueAxisConfig{
			AxisConfig: axis,
			TickCount:  DefaultTickCount,
			Precision:  AutoPrecision,
		},
		CategoryAxis:   axis,
		ViolinPadding:  DefaultViolinPadding,
		BoxPadding:     DefaultBoxPadding,
		BarcodePadding: DefaultBarcodePadding,
		MaxMeanRadius:  DefaultMaxMeanRadius,
	}
}

// Validate reports configuration values no layout can honour. Every length
// must be finite and non-negative.
func (c Config) Validate() error {
	lengths := []struct {
		name string
		v    float64
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"top margin", c.Margins.Top},
		{"right margin", c.Margins.Right},
		{"bottom margin", c.Margins.Bottom},
		{"left margin", c.Margins.Left},
		{"axis padding", c.AxisPadding},
		{"max mean radius", c.MaxMeanRadius},
		{"value axis min size", c.ValueAxis.MinSize},
		{"value axis title size", c.ValueAxis.TitleFont.Size},
		{"value axis label size", c.ValueAxis.LabelFont.Size},
		{"category axis min size", c.CategoryAxis.MinSize},
		{"category axis title size", c.CategoryAxis.TitleFont.Size},
		{"category axis label size", c.CategoryAxis.LabelFont.Size},
	}
	for _, l := range lengths {
		if !(l.v >= 0) || math.IsInf(l.v, 1) {
			return fmt.Errorf("%s must be a finite, non-negative number, got %v", l.name, l.v)
		}
	}
	if c.ValueAxis.TickCount < 0 {
		return fmt.Errorf("tick count must not be negative, got %d", c.ValueAxis.TickCount)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"violin", c.ViolinPadding}, {"box", c.BoxPadding}, {"barcode", c.BarcodePadding}} {
		if !(p.v >= 0 && p.v <= 100) {
			return fmt.Errorf("%s padding must be a percentage in [0, 100], got %v", p.name, p.v)
		}
	}
	return nil
}

// Units selects how value-axis tick labels are scaled.
type Units int

const (
	UnitsNone Units = iota
	UnitsAuto
	UnitsThousands
	UnitsMillions
	UnitsBillions
)

var unitNames = [...]string{
	UnitsNone:      "none",
	UnitsAuto:      "auto",
	UnitsThousands: "thousands",
	UnitsMillions:  "millions",
	UnitsBillions:  "billions",
}

func (u Units) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return unitNames[UnitsNone]
	}
	return unitNames[u]
}

// ParseUnits resolves a display-unit name. Empty yields UnitsNone.
func ParseUnits(s string) (Units, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnitsNone, nil
	}
	for i, name := range unitNames {
		if name == s {
			return Units(i), nil
		}
	}
	return UnitsNone, fmt.Errorf("unknown display units %q (must be one of: %s)", s, strings.Join(unitNames[:], ", "))
}

func (u Units) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *Units) UnmarshalText(b []byte) error {
	v, err := ParseUnits(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
