// Package bandwidth chooses the smoothing bandwidth for kernel density
// estimation using Silverman's rule of thumb, with an optional manual
// override.
package bandwidth

import (
	"math"

	"github.com/matzehuels/violin/pkg/stats"
)

// iqrNormal converts an interquartile range to a normal-equivalent standard
// deviation.
const iqrNormal = 1.349

// epsilonScale sizes the spread used for constant data relative to the
// magnitude of the values.
const epsilonScale = 1e-3

// Override is a user-supplied bandwidth. It is ignored unless Enabled and
// Value is positive.
type Override struct {
	Enabled bool    `json:"enabled" toml:"enabled"`
	Value   float64 `json:"value" toml:"value"`
}

// Result holds the rule-of-thumb bandwidth and the one actually used.
type Result struct {
	Silverman float64
	Actual    float64
	// Degenerate reports that the data had no spread and sigma was clamped.
	Degenerate bool
}

// Estimate derives a bandwidth from s for a kernel with the given Silverman
// factor. n is the number of samples the estimate applies to; values below 1
// are treated as 1.
func Estimate(s stats.Statistics, factor float64, n int, override Override) Result {
	sigma, degenerate := Sigma(s)
	silverman := factor * sigma * math.Pow(float64(max(n, 1)), -0.2)

	r := Result{Silverman: silverman, Actual: silverman, Degenerate: degenerate}
	if override.Enabled && override.Value > 0 {
		r.Actual = override.Value
	}
	return r
}

// Sigma returns min(deviation, iqr/1.349). When one spread measure is zero the
// other is used; when both are zero a small epsilon proportional to the mean
// is returned and degenerate is true.
func Sigma(s stats.Statistics) (sigma float64, degenerate bool) {
	dev := s.Deviation
	iqr := s.IQR / iqrNormal

	switch {
	case dev > 0 && iqr > 0:
		sigma = math.Min(dev, iqr)
	case dev > 0:
		sigma = dev
	case iqr > 0:
		sigma = iqr
	}
	if sigma > 0 && !math.IsNaN(sigma) {
		return sigma, false
	}
	return Epsilon(s.Mean), true
}

// Epsilon is the spread assumed for constant data centred on mean.
func Epsilon(mean float64) float64 {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return epsilonScale
	}
	return epsilonScale * math.Max(1, math.Abs(mean))
}

// Apply returns a copy of s with both bandwidth fields filled from r.
func Apply(s stats.Statistics, r Result) stats.Statistics {
	s.BandwidthSilverman = r.Silverman
	s.BandwidthActual = r.Actual
	return s
}
