package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/violin/pkg/bandwidth"
	"github.com/matzehuels/violin/pkg/category"
	"github.com/matzehuels/violin/pkg/density"
	"github.com/matzehuels/violin/pkg/kernel"
	"github.com/matzehuels/violin/pkg/layout"
	"github.com/matzehuels/violin/pkg/palette"
	"github.com/matzehuels/violin/pkg/textmeasure"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultCategoryLimit bounds the number of categories processed per run.
const DefaultCategoryLimit = 100

// WhiskerMode selects the extent of the box whiskers.
type WhiskerMode int

const (
	// WhiskersMinMax draws whiskers at the sample extent.
	WhiskersMinMax WhiskerMode = iota
	// WhiskersPercentile draws whiskers at the 5th and 95th percentiles.
	WhiskersPercentile
)

var whiskerNames = [...]string{
	WhiskersMinMax:     "minmax",
	WhiskersPercentile: "percentile",
}

func (w WhiskerMode) String() string {
	if w < 0 || int(w) >= len(whiskerNames) {
		return whiskerNames[WhiskersMinMax]
	}
	return whiskerNames[w]
}

// ParseWhiskerMode resolves a whisker mode name. Empty yields
// WhiskersMinMax.
func ParseWhiskerMode(s string) (WhiskerMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "minmax", "min-max":
		return WhiskersMinMax, nil
	case "percentile", "5-95":
		return WhiskersPercentile, nil
	}
	return WhiskersMinMax, fmt.Errorf("unknown whisker mode %q (must be one of: percentile, minmax)", s)
}

func (w WhiskerMode) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *WhiskerMode) UnmarshalText(b []byte) error {
	parsed, err := ParseWhiskerMode(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests; decode into
// [DefaultOptions] so omitted fields keep their defaults.
type Options struct {
	// Estimation options
	Kernel     kernel.Kind        `json:"kernel"`
	Resolution density.Resolution `json:"resolution"`
	Clamp      bool               `json:"clamp"`
	Bandwidth  bandwidth.Override `json:"bandwidth"`
	// BandwidthByCategory estimates one bandwidth per category instead of a
	// single global one.
	BandwidthByCategory bool `json:"bandwidth_by_category,omitempty"`

	// Category options
	Sort  category.SortKey `json:"sort"`
	Order category.Order   `json:"order"`
	Limit int              `json:"limit"`

	// Layout options
	Layout      layout.Config `json:"layout"`
	DomainStart *float64      `json:"domain_start,omitempty"`
	DomainEnd   *float64      `json:"domain_end,omitempty"`
	Whiskers    WhiskerMode   `json:"whiskers"`

	// Colour options
	Palette []string          `json:"palette,omitempty"`
	Colors  map[string]string `json:"colors,omitempty"`

	// Runtime options (not serialized)
	Refresh  bool                 `json:"-"`
	Measurer textmeasure.Measurer `json:"-"`
	Logger   *log.Logger          `json:"-"`
	// RunID names the run in the profile and hooks; empty generates one.
	RunID string `json:"-"`
}

// sharedFace is reused across runs so parsed font faces stay cached.
var sharedFace = textmeasure.NewFace()

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Kernel:     kernel.Default,
		Resolution: density.DefaultResolution,
		Limit:      DefaultCategoryLimit,
		Layout:     layout.DefaultConfig(),
	}
}

// SetDefaults fills runtime fields and zero viewport sizes. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Layout.Width == 0 {
		o.Layout.Width = layout.DefaultWidth
	}
	if o.Layout.Height == 0 {
		o.Layout.Height = layout.DefaultHeight
	}
	if o.Measurer == nil {
		o.Measurer = sharedFace
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate reports options no run can honour.
func (o Options) Validate() error {
	if int(o.Kernel) < 0 || int(o.Kernel) >= len(kernel.All()) {
		return fmt.Errorf("invalid kernel: %d", o.Kernel)
	}
	if o.Limit < 0 {
		return fmt.Errorf("category limit must not be negative, got %d", o.Limit)
	}
	if bw := o.Bandwidth.Value; math.IsNaN(bw) || math.IsInf(bw, 0) || (o.Bandwidth.Enabled && bw <= 0) {
		return fmt.Errorf("bandwidth override must be a positive number, got %v", bw)
	}
	for _, b := range []*float64{o.DomainStart, o.DomainEnd} {
		if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
			return fmt.Errorf("domain bounds must be finite, got %v", *b)
		}
	}
	if err := o.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if _, err := palette.New(o.Palette, o.Colors); err != nil {
		return err
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// KeyOpts returns the part of o that determines the built model, for cache
// keys.
func (o Options) KeyOpts() any {
	return struct {
		Options
		Measurer string `json:"measurer"`
	}{o, fmt.Sprintf("%T", o.Measurer)}
}
