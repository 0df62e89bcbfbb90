package layout

import (
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/violin/pkg/stats"
)

const maxDecimals = 10

// Ticks returns at most n nice tick values inside domain.
func Ticks(domain [2]float64, n int) []float64 {
	if n < 1 || !stats.IsFinite(domain[0]) || !stats.IsFinite(domain[1]) {
		return nil
	}
	major, _ := scale.Linear{Min: domain[0], Max: domain[1]}.Ticks(scale.TickOptions{Max: n})
	return major
}

// Domain returns the value-axis domain for data spanning [lo, hi]. start and
// end, when non-nil, replace the data bounds. A degenerate domain is padded
// by 10% of its magnitude, or by 1 around zero.
func Domain(lo, hi float64, start, end *float64) [2]float64 {
	if start != nil && stats.IsFinite(*start) {
		lo = *start
	}
	if end != nil && stats.IsFinite(*end) {
		hi = *end
	}
	if !stats.IsFinite(lo) || !stats.IsFinite(hi) {
		return [2]float64{0, 1}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		pad := math.Abs(lo) * 0.1
		if pad == 0 {
			pad = 1
		}
		lo, hi = lo-pad, hi+pad
	}
	return [2]float64{lo, hi}
}

// TickFormat formats tick values for display in the given units. The same
// scale and number of decimals is used for every tick so labels line up.
type TickFormat struct {
	divisor  float64
	suffix   string
	decimals int
}

var fixedUnits = map[Units]struct {
	divisor float64
	suffix  string
}{
	UnitsNone:      {1, ""},
	UnitsThousands: {1e3, "K"},
	UnitsMillions:  {1e6, "M"},
	UnitsBillions:  {1e9, "B"},
}

// NewTickFormat derives a format for ticks. With UnitsAuto the SI prefix of
// the largest magnitude is used. With AutoPrecision the decimals follow the
// tick spacing.
func NewTickFormat(ticks []float64, units Units, precision int) TickFormat {
	f := TickFormat{divisor: 1}
	if u, ok := fixedUnits[units]; ok {
		f.divisor, f.suffix = u.divisor, u.suffix
	} else if units == UnitsAuto {
		var peak float64
		for _, t := range ticks {
			peak = math.Max(peak, math.Abs(t))
		}
		if v, prefix := humanize.ComputeSI(peak); v != 0 {
			f.divisor = math.Pow(10, math.Round(math.Log10(peak/math.Abs(v))))
			f.suffix = prefix
		}
	}

	switch {
	case precision >= 0:
		f.decimals = min(precision, maxDecimals)
	case len(ticks) > 1:
		step := math.Abs(ticks[1]-ticks[0]) / f.divisor
		if step > 0 {
			f.decimals = max(0, min(maxDecimals, int(math.Ceil(-math.Log10(step)-1e-9))))
		}
	}
	return f
}

// Format renders v.
func (f TickFormat) Format(v float64) string {
	p := math.Pow(10, float64(f.decimals))
	v = math.Round(v/f.divisor*p) / p
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return humanize.CommafWithDigits(v, f.decimals) + f.suffix
}

// FormatAll renders every tick.
func (f TickFormat) FormatAll(ticks []float64) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = f.Format(t)
	}
	return out
}

// Decimals reports the number of decimals in use.
func (f TickFormat) Decimals() int { return f.decimals }
