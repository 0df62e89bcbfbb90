package pipeline

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/violin/pkg/bandwidth"
	"github.com/matzehuels/violin/pkg/category"
	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/density"
	"github.com/matzehuels/violin/pkg/kernel"
	"github.com/matzehuels/violin/pkg/layout"
	"github.com/matzehuels/violin/pkg/palette"
	"github.com/matzehuels/violin/pkg/stats"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

// Stage names recorded in the run profile, in execution order.
const (
	StageAggregate     = "aggregate"
	StageBandwidth     = "bandwidth"
	StageLayoutInitial = "layout-initial"
	StageDensity       = "density"
	StageLayoutFinal   = "layout-final"
	StageGeometry      = "geometry"
)

// builder carries the state of one Build call.
type builder struct {
	opts    Options
	log     *log.Logger
	profile *viewmodel.Profile
}

// stage runs fn and records its timing.
func (b *builder) stage(name string, fn func(l *log.Logger)) {
	start := time.Now()
	fn(b.log.With("stage", name))
	end := time.Now()
	b.profile.Stages = append(b.profile.Stages, viewmodel.Stage{
		Name:     name,
		Start:    start,
		End:      end,
		Duration: end.Sub(start),
	})
}

// Build runs the pipeline over ds and assembles the view model. It never
// fails: a dataset without a single valid value yields [viewmodel.Empty],
// and options are expected to have passed [Options.Validate].
func Build(ds dataset.Dataset, opts Options) viewmodel.ViewModel {
	opts.SetDefaults()
	b := &builder{
		opts:    opts,
		log:     opts.Logger,
		profile: &viewmodel.Profile{RunID: opts.RunID},
	}
	if b.profile.RunID == "" {
		b.profile.RunID = uuid.NewString()
	}

	if !ds.Usable() {
		b.log.Debug("dataset has no valid values", "samples", len(ds.Samples))
		vm := viewmodel.Empty()
		vm.Profile = b.profile
		return vm
	}

	var agg category.Result
	b.stage(StageAggregate, func(l *log.Logger) {
		agg = category.Aggregate(ds, category.Options{Sort: opts.Sort, Order: opts.Order, Limit: opts.Limit})
		if agg.Reduced {
			l.Warn("category limit reached", "limit", opts.Limit, "dropped", agg.Dropped)
		}
		l.Debug("aggregated", "categories", len(agg.Categories), "values", agg.Global.Count)
	})

	kern := kernel.Lookup(opts.Kernel)
	var global bandwidth.Result
	b.stage(StageBandwidth, func(l *log.Logger) {
		global = bandwidth.Estimate(agg.Global, kern.Silverman, agg.Global.Count, opts.Bandwidth)
		agg.Global = bandwidth.Apply(agg.Global, global)
		for i, c := range agg.Categories {
			if !c.Stats.Defined() {
				continue
			}
			r := global
			if opts.BandwidthByCategory {
				r = bandwidth.Estimate(c.Stats, kern.Silverman, c.Stats.Count, opts.Bandwidth)
			}
			if r.Degenerate {
				l.Debug("no spread, using epsilon", "category", c.Name, "bandwidth", r.Actual)
			}
			agg.Categories[i].Stats = bandwidth.Apply(c.Stats, r)
		}
	})

	names := category.Names(agg.Categories)
	in := layout.Input{
		Config:     opts.Layout,
		Categories: names,
		Domain:     layout.Domain(agg.Global.Min, agg.Global.Max, opts.DomainStart, opts.DomainEnd),
	}
	if in.ValueAxis.Title == "" {
		in.ValueAxis.Title = ds.ValueLabel()
	}
	if in.CategoryAxis.Title == "" {
		in.CategoryAxis.Title = ds.CategoryName
	}

	var plan layout.Plan
	b.stage(StageLayoutInitial, func(l *log.Logger) {
		plan = layout.Resolve(in, opts.Measurer)
	})

	curves := make([]density.Result, len(agg.Categories))
	b.stage(StageDensity, func(l *log.Logger) {
		domain := plan.Value.Domain
		extended := domain
		for i, c := range agg.Categories {
			curves[i] = density.Estimate(c.Samples, density.Options{
				Kernel:     kern,
				Bandwidth:  c.Stats.BandwidthActual,
				Clamp:      opts.Clamp,
				Resolution: opts.Resolution,
				Domain:     domain,
				Logger:     l.With("category", c.Name),
			})
			if req := curves[i].Request; req != nil {
				extended[0] = min(extended[0], req.Min)
				extended[1] = max(extended[1], req.Max)
			}
		}
		if extended != domain {
			l.Debug("extending value domain", "from", domain, "to", extended)
			in.Domain = extended
			in.Extended = true
		}
	})

	b.stage(StageLayoutFinal, func(l *log.Logger) {
		plan = layout.Resolve(in, opts.Measurer)
		if plan.BelowMinimum() {
			l.Info("plot area below minimum size", "width", opts.Layout.Width, "height", opts.Layout.Height)
		}
	})

	vm := viewmodel.ViewModel{
		Render:       true,
		Global:       agg.Global,
		ValueAxis:    plan.Value,
		CategoryAxis: plan.Category,
		Plot:         plan.Plot,
		Bands:        plan.Bands,
		Settings: viewmodel.Settings{
			Kernel:     kern.Name,
			Resolution: opts.Resolution.String(),
			Clamp:      opts.Clamp,
			Bandwidth:  global.Actual,
			Whiskers:   opts.Whiskers.String(),
		},
		Reduced: agg.Reduced,
		Dropped: agg.Dropped,
		Profile: b.profile,
	}

	b.stage(StageGeometry, func(l *log.Logger) {
		swatches := b.swatches(names, l)
		vm.Categories = make([]viewmodel.Category, len(agg.Categories))
		for i, c := range agg.Categories {
			vc := viewmodel.Category{
				Name:      c.Name,
				Label:     plan.Labels[i],
				Stats:     c.Stats,
				Density:   curves[i].Points,
				Barcode:   Barcode(c.Samples),
				Whiskers:  whiskers(c.Stats, opts.Whiskers),
				Color:     swatches[i],
				Converged: !opts.Clamp && !curves[i].Fallback && len(curves[i].Points) > 0,
			}
			if vc.Density == nil {
				vc.Density = []viewmodel.DensityPoint{}
			}
			if plan.Bands != nil {
				vc.Center = plan.Bands.Centers[i]
				vc.Outline = density.NewWidthScale(vc.Density, plan.Bands.Violin/2).Outline(vc.Density)
			}
			vm.Categories[i] = vc
		}
	})

	b.log.Debug("built view model",
		"run_id", b.profile.RunID,
		"categories", len(vm.Categories),
		"duration", b.profile.Total())
	return vm
}

func (b *builder) swatches(names []string, l *log.Logger) []palette.Swatch {
	a, err := palette.New(b.opts.Palette, b.opts.Colors)
	if err != nil {
		l.Warn("invalid colours, using default palette", "err", err)
		a, _ = palette.New(nil, nil)
	}
	return a.Assign(names)
}

// Barcode lists the distinct values of sorted with their multiplicity.
func Barcode(sorted []float64) []viewmodel.BarcodeTick {
	out := []viewmodel.BarcodeTick{}
	for _, v := range sorted {
		if n := len(out); n > 0 && out[n-1].Value == v {
			out[n-1].Count++
			continue
		}
		out = append(out, viewmodel.BarcodeTick{Value: v, Count: 1})
	}
	return out
}

func whiskers(s stats.Statistics, mode WhiskerMode) viewmodel.Whiskers {
	if !s.Defined() {
		return viewmodel.Whiskers{}
	}
	if mode == WhiskersPercentile {
		return viewmodel.Whiskers{Low: s.ConfidenceLower, High: s.ConfidenceUpper}
	}
	return viewmodel.Whiskers{Low: s.Min, High: s.Max}
}
