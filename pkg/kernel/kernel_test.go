package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

func TestKernelSymmetry(t *testing.T) {
	for _, k := range All() {
		t.Run(k.Name, func(t *testing.T) {
			for _, u := range []float64{0, 0.1, 0.25, 0.5, 0.9, 1, 1.5, 3} {
				assert.InDelta(t, k.Window(u), k.Window(-u), 1e-15, "u=%v", u)
			}
		})
	}
}

func TestKernelIntegratesToOne(t *testing.T) {
	for _, k := range All() {
		t.Run(k.Name, func(t *testing.T) {
			lo, hi := -1.0, 1.0
			if !k.Bounded {
				lo, hi = -8, 8
			}
			xs := floats.Span(make([]float64, 4001), lo, hi)
			ys := make([]float64, len(xs))
			for i, x := range xs {
				ys[i] = k.Window(x)
			}
			assert.InDelta(t, 1.0, integrate.Trapezoidal(xs, ys), 1e-4)
		})
	}
}

func TestKernelNonNegative(t *testing.T) {
	for _, k := range All() {
		for _, u := range floats.Span(make([]float64, 101), -3, 3) {
			assert.GreaterOrEqual(t, k.Window(u), 0.0, "%s(%v)", k.Name, u)
		}
	}
}

func TestBoundedSupport(t *testing.T) {
	assert.Zero(t, Lookup(Epanechnikov).Window(1.0001))
	assert.Zero(t, Lookup(Quartic).Window(-1.5))
	assert.Positive(t, Lookup(Gaussian).Window(5))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", Epanechnikov, false},
		{"epanechnikov", Epanechnikov, false},
		{"Gaussian", Gaussian, false},
		{" quartic ", Quartic, false},
		{"triangular", Epanechnikov, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupUnknownFallsBack(t *testing.T) {
	assert.Equal(t, Default, Lookup(Kind(42)).Kind)
}

func TestKindTextRoundTrip(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("quartic")))
	b, err := k.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "quartic", string(b))
}
