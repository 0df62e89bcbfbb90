package layout

import (
	"github.com/matzehuels/violin/pkg/textmeasure"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

// Input is one layout request.
type Input struct {
	Config
	// Categories are the display names in plot order.
	Categories []string
	Domain     [2]float64
	// Extended marks a domain that was widened for a density curve.
	Extended bool
}

// Plan is a resolved layout.
type Plan struct {
	Value    viewmodel.AxisGeometry
	Category viewmodel.AxisGeometry
	// Labels holds one tailored label per category; entries are empty when
	// category labels are hidden.
	Labels []string
	Plot   viewmodel.Rect
	// Bands is nil when an axis is below its minimum or there are no
	// categories.
	Bands *viewmodel.PlotBands
}

// BelowMinimum reports whether either axis could not reach its minimum.
func (p Plan) BelowMinimum() bool {
	return p.Value.BelowMinimum || p.Category.BelowMinimum
}

// stage is how far an axis has been reduced by the cascade.
type stage int

const (
	full stage = iota
	noTitle
	noLabels
	collapsed
)

// parts are the allocated sizes of one axis, measured across the axis.
type parts struct {
	pad, labels, title float64
	stage              stage
}

func newParts(cfg AxisConfig, pad, labels, title float64) parts {
	p := parts{pad: pad, labels: labels, title: title}
	switch {
	case !cfg.Visible:
		p.stage = collapsed
	case !cfg.TitleVisible || title == 0:
		p.stage = noTitle
	}
	return p
}

func (p parts) size() float64 {
	switch p.stage {
	case full:
		return p.pad + p.labels + p.title
	case noTitle:
		return p.pad + p.labels
	case noLabels:
		return p.pad
	}
	return 0
}

// cascade drops title, labels and finally the whole axis until fits holds.
func (p *parts) cascade(fits func(size float64) bool) {
	for p.stage < collapsed && !fits(p.size()) {
		p.stage++
	}
}

func (p parts) titleShown() bool  { return p.stage == full }
func (p parts) labelsShown() bool { return p.stage <= noTitle }

// Resolve allocates space for in. It is pure: the same input and measurer
// always yield the same plan, and no size in the plan is negative.
func Resolve(in Input, m textmeasure.Measurer) Plan {
	cfg := in.Config
	va, ca := cfg.ValueAxis, cfg.CategoryAxis
	pad := max(0, cfg.AxisPadding)
	availW := max(0, cfg.Width-cfg.Margins.Left-cfg.Margins.Right)
	availH := max(0, cfg.Height-cfg.Margins.Top-cfg.Margins.Bottom)

	// Vertical: the category axis sits below the plot, half a tick label
	// of headroom above it.
	valueLabelH := m.Measure("0", va.LabelFont).Height
	var headroom float64
	if va.Visible {
		headroom = valueLabelH / 2
	}
	var catLabelH float64
	for _, name := range in.Categories {
		catLabelH = max(catLabelH, m.Measure(name, ca.LabelFont).Height)
	}
	cat := newParts(ca, pad, catLabelH, m.Measure(ca.Title, ca.TitleFont).Height)
	plotH := func() float64 { return max(0, availH-headroom-cat.size()) }
	cat.cascade(func(size float64) bool { return availH-headroom-size >= va.MinSize })

	var valueTitle string
	if va.Visible && va.TitleVisible {
		valueTitle = m.Tailor(va.Title, va.TitleFont, plotH())
	}

	// Horizontal: the value axis sits left of the plot, its title rotated.
	ticks := Ticks(in.Domain, tickBudget(va, plotH(), valueLabelH))
	tickLabels := NewTickFormat(ticks, va.Units, va.Precision).FormatAll(ticks)
	var labelW float64
	for _, l := range tickLabels {
		labelW = max(labelW, m.Measure(l, va.LabelFont).Width)
	}
	val := newParts(va.AxisConfig, pad, labelW, m.Measure(valueTitle, va.TitleFont).Height)
	val.cascade(func(size float64) bool { return availW-size >= ca.MinSize })
	if !val.labelsShown() {
		headroom = 0
	}

	valueBelow := plotH() < va.MinSize
	if valueBelow {
		val.stage = collapsed
	}
	catW := max(0, availW-val.size())
	catBelow := catW < ca.MinSize
	if catBelow {
		cat.stage = collapsed
	}

	plot := viewmodel.Rect{
		X:      cfg.Margins.Left + val.size(),
		Y:      cfg.Margins.Top + headroom,
		Width:  catW,
		Height: plotH(),
	}

	n := len(in.Categories)
	plan := Plan{
		Plot:   plot,
		Labels: make([]string, n),
		Value: viewmodel.AxisGeometry{
			Visible:      va.Visible,
			Domain:       in.Domain,
			Range:        [2]float64{plot.Y + plot.Height, plot.Y},
			TitleShown:   val.titleShown(),
			LabelsShown:  val.labelsShown(),
			Size:         val.size(),
			Collapsed:    val.stage == collapsed && (va.Visible || valueBelow),
			BelowMinimum: valueBelow,
			Extended:     in.Extended,
		},
		Category: viewmodel.AxisGeometry{
			Visible:      ca.Visible,
			Domain:       [2]float64{0, float64(n)},
			Range:        [2]float64{plot.X, plot.X + plot.Width},
			TitleShown:   cat.titleShown(),
			LabelsShown:  cat.labelsShown(),
			Size:         cat.size(),
			Collapsed:    cat.stage == collapsed && (ca.Visible || catBelow),
			BelowMinimum: catBelow,
		},
	}

	if val.stage < collapsed {
		plan.Value.Ticks = ticks
	}
	if val.titleShown() {
		plan.Value.Title = valueTitle
		plan.Value.TitleSize = val.title
	}
	if val.labelsShown() {
		plan.Value.TickLabels = tickLabels
		plan.Value.LabelSize = val.labels
	}

	var band float64
	if n > 0 {
		band = catW / float64(n)
	}
	if cat.titleShown() {
		plan.Category.Title = m.Tailor(ca.Title, ca.TitleFont, catW)
		plan.Category.TitleSize = cat.title
	}
	if cat.labelsShown() {
		for i, name := range in.Categories {
			plan.Labels[i] = m.Tailor(name, ca.LabelFont, band)
		}
		plan.Category.TickLabels = plan.Labels
		plan.Category.LabelSize = cat.labels
	}

	if !valueBelow && !catBelow && n > 0 {
		plan.Bands = bands(cfg, plot, band, n)
	}
	return plan
}

// tickBudget caps the configured tick count so labels keep at least one
// label height of space between them.
func tickBudget(va ValueAxisConfig, height, labelH float64) int {
	n := va.TickCount
	if n == 0 {
		n = DefaultTickCount
	}
	if labelH > 0 {
		n = min(n, int(height/(2*labelH)))
	}
	return max(2, n)
}

func bands(cfg Config, plot viewmodel.Rect, band float64, n int) *viewmodel.PlotBands {
	violin := band * (1 - percent(cfg.ViolinPadding))
	box := violin * (1 - percent(cfg.BoxPadding))
	b := &viewmodel.PlotBands{
		Band:       band,
		Violin:     violin,
		Box:        box,
		Barcode:    violin * (1 - percent(cfg.BarcodePadding)),
		MeanRadius: max(0, min(cfg.MaxMeanRadius, box/2)),
		Centers:    make([]float64, n),
	}
	for i := range b.Centers {
		b.Centers[i] = plot.X + band*(float64(i)+0.5)
	}
	return b
}

func percent(p float64) float64 { return max(0, min(100, p)) / 100 }
