// Package viewmodel defines the immutable output of the violin pipeline: the
// categories with their statistics and density curves, the resolved axis
// geometry, and the plot-band sizes a renderer needs to draw violin, box and
// barcode marks.
//
// A ViewModel with Render false is the "do not render" signal for unusable
// input. A ViewModel whose axes are flagged BelowMinimum has no plot bands and
// should be drawn as a placeholder.
package viewmodel

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/violin/pkg/density"
	"github.com/matzehuels/violin/pkg/palette"
	"github.com/matzehuels/violin/pkg/stats"
)

// DensityPoint is one sampled point of a category's curve.
type DensityPoint = density.Point

// ViewModel is the assembled output of one pipeline run.
type ViewModel struct {
	Render       bool             `json:"render"`
	Categories   []Category       `json:"categories"`
	Global       stats.Statistics `json:"global"`
	ValueAxis    AxisGeometry     `json:"value_axis"`
	CategoryAxis AxisGeometry     `json:"category_axis"`
	Plot         Rect             `json:"plot"`
	// Bands is nil when either axis is below its minimum usable dimension.
	Bands    *PlotBands `json:"bands,omitempty"`
	Settings Settings   `json:"settings"`

	// Reduced reports that the category limit truncated the dataset; Dropped
	// is the number of categories left out.
	Reduced bool `json:"categories_reduced"`
	Dropped int  `json:"categories_dropped,omitempty"`

	Profile *Profile `json:"profile,omitempty"`
}

// Placeholder reports whether the plot area is too small to draw and a
// placeholder should be shown instead.
func (vm ViewModel) Placeholder() bool {
	return vm.Render && vm.Bands == nil
}

// Category is one violin.
type Category struct {
	Name string `json:"name"`
	// Label is Name tailored to the band width; empty when labels are hidden.
	Label   string           `json:"label"`
	Stats   stats.Statistics `json:"stats"`
	Density []DensityPoint   `json:"density"`
	// Outline holds the half-width in pixels of each Density point. It is
	// empty when no plot bands were computed.
	Outline []float64 `json:"outline,omitempty"`
	// Barcode lists the distinct sample values with their multiplicity.
	Barcode  []BarcodeTick `json:"barcode"`
	Whiskers Whiskers      `json:"whiskers"`
	Color    palette.Swatch `json:"color"`
	// Center is the x pixel of the band centre; zero without plot bands.
	Center float64 `json:"center"`
	// Converged reports that the density tails reached zero on their own;
	// false when a tail search fell back to the sample extent or in clamp
	// mode.
	Converged bool `json:"converged"`
}

// BarcodeTick is a distinct sample value.
type BarcodeTick struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Whiskers are the box whisker extents.
type Whiskers struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// AxisGeometry is the resolved layout of one axis. Sizes are in pixels.
//
// For the value axis the allocated dimension (Size, TitleSize, LabelSize) is
// horizontal; for the category axis it is vertical.
type AxisGeometry struct {
	Visible bool       `json:"visible"`
	Domain  [2]float64 `json:"domain"`
	// Range is the pixel position of Domain[0] and Domain[1] (value axis) or
	// of the first and last band edge (category axis).
	Range [2]float64 `json:"range"`

	Title       string  `json:"title"`
	TitleShown  bool    `json:"title_shown"`
	LabelsShown bool    `json:"labels_shown"`
	TitleSize   float64 `json:"title_size"`
	LabelSize   float64 `json:"label_size"`
	Size        float64 `json:"size"`

	Collapsed    bool `json:"collapsed"`
	BelowMinimum bool `json:"below_minimum"`
	Extended     bool `json:"extended,omitempty"`

	Ticks      []float64 `json:"ticks,omitempty"`
	TickLabels []string  `json:"tick_labels,omitempty"`
}

// PlotBands are the per-category band widths.
type PlotBands struct {
	Band       float64   `json:"band"`
	Violin     float64   `json:"violin"`
	Box        float64   `json:"box"`
	Barcode    float64   `json:"barcode"`
	MeanRadius float64   `json:"mean_radius"`
	Centers    []float64 `json:"centers"`
}

// Rect is the plot area in pixels, origin top-left.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Settings echo the estimation options the model was built with.
type Settings struct {
	Kernel     string  `json:"kernel"`
	Resolution string  `json:"resolution"`
	Clamp      bool    `json:"clamp"`
	Bandwidth  float64 `json:"bandwidth"`
	Whiskers   string  `json:"whiskers"`
}

// Profile records the timing of each pipeline stage of one run.
type Profile struct {
	RunID  string  `json:"run_id"`
	Stages []Stage `json:"stages"`
}

// Stage is one timed pipeline stage.
type Stage struct {
	Name     string        `json:"name"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration_ns"`
}

// Total returns the summed duration of all stages.
func (p *Profile) Total() time.Duration {
	if p == nil {
		return 0
	}
	var d time.Duration
	for _, s := range p.Stages {
		d += s.Duration
	}
	return d
}

// Empty returns the "do not render" model.
func Empty() ViewModel {
	return ViewModel{Categories: []Category{}}
}

// Marshal encodes vm as indented JSON.
func Marshal(vm ViewModel) ([]byte, error) {
	return json.MarshalIndent(vm, "", "  ")
}

// Unmarshal decodes a model produced by Marshal.
func Unmarshal(data []byte) (ViewModel, error) {
	var vm ViewModel
	err := json.Unmarshal(data, &vm)
	return vm, err
}
