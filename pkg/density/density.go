package density

import (
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/violin/pkg/bandwidth"
	"github.com/matzehuels/violin/pkg/kernel"
)

const (
	// MaxSearchIterations caps the outward expansion plus bisection steps of
	// the tail search.
	MaxSearchIterations = 64

	// NegligibleFraction is the fraction of the peak density below which a
	// tail counts as converged during the search.
	NegligibleFraction = 1e-4

	// searchTolerance is the bisection stopping width relative to the
	// bandwidth.
	searchTolerance = 1e-3
)

// Point is one sampled point of a density curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options configure one estimation.
type Options struct {
	Kernel     kernel.Kernel
	Bandwidth  float64
	Clamp      bool
	Resolution Resolution
	// Domain is the current value-axis domain [min, max]. The grid spans it.
	Domain [2]float64
	Logger *log.Logger
}

// DomainRequest asks for the value-axis domain to be widened to [Min, Max].
type DomainRequest struct {
	Min float64
	Max float64
}

// Result is an estimated curve.
type Result struct {
	Points []Point
	// Lower and Upper are the x extents of the curve: the convergence points
	// in converge mode, the sample extent in clamp mode.
	Lower, Upper float64
	// Request is non-nil when the curve extends beyond Options.Domain.
	Request *DomainRequest
	// Fallback is set when a tail search was exhausted and the sample extent
	// was used as its convergence point.
	Fallback bool
}

// Estimate computes the density curve of sorted samples. It returns an empty
// Result when samples is empty.
func Estimate(samples []float64, opts Options) Result {
	if len(samples) == 0 {
		return Result{}
	}
	if opts.Kernel.Window == nil {
		opts.Kernel = kernel.Lookup(kernel.Default)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	h := opts.Bandwidth
	if !(h > 0) || math.IsInf(h, 0) {
		h = bandwidth.Epsilon(samples[len(samples)/2])
		opts.Logger.Warn("invalid bandwidth, using epsilon", "bandwidth", opts.Bandwidth, "epsilon", h)
	}

	lo, hi := samples[0], samples[len(samples)-1]
	xs := Grid(opts.Domain, opts.Resolution.Ticks())
	xs = append(xs, lo, hi)
	slices.Sort(xs)
	xs = slices.Compact(xs)

	est := estimator{samples: samples, window: opts.Kernel.Window, h: h}
	pts := make([]Point, len(xs))
	for i, x := range xs {
		pts[i] = Point{X: x, Y: est.at(x)}
	}

	if opts.Clamp {
		return Result{
			Points: slices.DeleteFunc(pts, func(p Point) bool {
				return p.X < lo || p.X > hi || p.Y == 0
			}),
			Lower: lo,
			Upper: hi,
		}
	}
	return converge(pts, est, lo, hi, opts)
}

// Grid returns ticks+1 evenly spaced points across domain. A degenerate
// domain yields its single value.
func Grid(domain [2]float64, ticks int) []float64 {
	lo, hi := domain[0], domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi || ticks < 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, ticks+1), lo, hi)
}

// Evaluate returns the density of sorted samples at x.
func Evaluate(samples []float64, k kernel.Kernel, h, x float64) float64 {
	return estimator{samples: samples, window: k.Window, h: h}.at(x)
}

type estimator struct {
	samples []float64
	window  kernel.Func
	h       float64
}

func (e estimator) at(x float64) float64 {
	var sum float64
	for _, v := range e.samples {
		sum += e.window((x - v) / e.h)
	}
	return sum / (float64(len(e.samples)) * e.h)
}

func converge(pts []Point, est estimator, lo, hi float64, opts Options) Result {
	var peak float64
	for _, p := range pts {
		peak = math.Max(peak, p.Y)
	}
	threshold := NegligibleFraction * peak

	lower, lowerOK := math.Inf(-1), false
	upper, upperOK := math.Inf(1), false
	for _, p := range pts {
		if p.Y != 0 {
			continue
		}
		if p.X < lo {
			lower, lowerOK = p.X, true
		}
		if p.X > hi && !upperOK {
			upper, upperOK = p.X, true
		}
	}

	res := Result{}
	if !lowerOK {
		var found bool
		lower, found = est.search(lo, -1, threshold)
		if !found {
			res.Fallback = true
			opts.Logger.Warn("density tail did not converge, using sample extent", "tail", "lower", "x", lo)
		}
	}
	if !upperOK {
		var found bool
		upper, found = est.search(hi, 1, threshold)
		if !found {
			res.Fallback = true
			opts.Logger.Warn("density tail did not converge, using sample extent", "tail", "upper", "x", hi)
		}
	}

	pts = insertZero(pts, lower)
	pts = insertZero(pts, upper)

	// Keep the first point reaching each extreme, pinned to zero; everything
	// beyond it is discarded.
	out := pts[:0]
	for _, p := range pts {
		if p.X < lower || p.X > upper {
			continue
		}
		if p.X == lower || p.X == upper {
			p.Y = 0
		}
		out = append(out, p)
	}

	res.Points = out
	res.Lower, res.Upper = lower, upper
	if d := opts.Domain; lower < math.Min(d[0], d[1]) || upper > math.Max(d[0], d[1]) {
		res.Request = &DomainRequest{
			Min: math.Min(lower, math.Min(d[0], d[1])),
			Max: math.Max(upper, math.Max(d[0], d[1])),
		}
	}
	return res
}

// search looks for the point nearest to extent, in direction dir, where the
// density drops to threshold or below. It returns extent and false when the
// iteration budget runs out first.
func (e estimator) search(extent, dir, threshold float64) (float64, bool) {
	inside, outside := extent, 0.0
	step := e.h
	found := false

	iter := 0
	for ; iter < MaxSearchIterations; iter++ {
		x := extent + dir*step
		if e.at(x) <= threshold {
			outside, found = x, true
			break
		}
		inside = x
		step *= 2
	}
	if !found {
		return extent, false
	}

	tol := searchTolerance * e.h
	for ; iter < MaxSearchIterations && math.Abs(outside-inside) > tol; iter++ {
		mid := inside + (outside-inside)/2
		if e.at(mid) <= threshold {
			outside = mid
		} else {
			inside = mid
		}
	}
	return outside, true
}

// insertZero adds a zero-valued point at x unless pts already has one there.
// pts must be sorted by X.
func insertZero(pts []Point, x float64) []Point {
	i, found := slices.BinarySearchFunc(pts, x, func(p Point, x float64) int {
		switch {
		case p.X < x:
			return -1
		case p.X > x:
			return 1
		}
		return 0
	})
	if found {
		return pts
	}
	return slices.Insert(pts, i, Point{X: x})
}

// MaxY returns the largest density of pts.
func MaxY(pts []Point) float64 {
	var m float64
	for _, p := range pts {
		m = math.Max(m, p.Y)
	}
	return m
}
