// Package stats computes the robust summary statistics drawn by a violin
// plot: extent, centre, quartiles, 5th/95th percentile whisker bounds and
// spread.
//
// All functions expect their input sorted ascending and free of NaN and
// infinite values; [Clean] produces such a slice from raw values.
package stats

import (
	"math"
	"slices"

	mstats "github.com/montanaflynn/stats"
)

// Percentiles used for the quartiles and confidence bounds.
const (
	P05 = 0.05
	P25 = 0.25
	P50 = 0.50
	P75 = 0.75
	P95 = 0.95
)

// Statistics summarises one sorted sample set. A zero Count means the set was
// empty and every other field is undefined.
type Statistics struct {
	Count           int     `json:"count"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Mean            float64 `json:"mean"`
	Median          float64 `json:"median"`
	Quartile1       float64 `json:"quartile1"`
	Quartile3       float64 `json:"quartile3"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
	Deviation       float64 `json:"deviation"`
	IQR             float64 `json:"iqr"`
	Span            float64 `json:"span"`

	BandwidthSilverman float64 `json:"bandwidth_silverman"`
	BandwidthActual    float64 `json:"bandwidth_actual"`
}

// Defined reports whether s was computed from at least one value.
func (s Statistics) Defined() bool { return s.Count > 0 }

// Compute summarises sorted. It returns the zero Statistics for an empty
// slice.
func Compute(sorted []float64) Statistics {
	n := len(sorted)
	if n == 0 {
		return Statistics{}
	}

	mean, _ := mstats.Mean(sorted)
	var dev float64
	if n > 1 {
		dev, _ = mstats.StandardDeviationSample(sorted)
	}

	s := Statistics{
		Count:           n,
		Min:             sorted[0],
		Max:             sorted[n-1],
		Mean:            mean,
		Median:          Quantile(sorted, P50),
		Quartile1:       Quantile(sorted, P25),
		Quartile3:       Quantile(sorted, P75),
		ConfidenceLower: Quantile(sorted, P05),
		ConfidenceUpper: Quantile(sorted, P95),
		Deviation:       dev,
	}
	s.IQR = s.Quartile3 - s.Quartile1
	s.Span = s.Max - s.Min
	return s
}

// Quantile returns the p-quantile of sorted by linear interpolation between
// the closest ranks (h = (n-1)p). p is clamped to [0, 1]; an empty slice
// yields NaN.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	p = max(0, min(1, p))

	idx := p * float64(n-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= n {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// Clean returns the finite values of raw sorted ascending. raw is not
// modified.
func Clean(raw []float64) []float64 {
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if IsFinite(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
