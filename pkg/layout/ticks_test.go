package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 50, 100}, Ticks([2]float64{0, 100}, 6))
	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, Ticks([2]float64{0, 100}, 11))
	assert.Nil(t, Ticks([2]float64{0, 100}, 0))
	assert.Nil(t, Ticks([2]float64{math.NaN(), 1}, 5))

	for _, tick := range Ticks([2]float64{-2.03, 103.03}, 8) {
		assert.GreaterOrEqual(t, tick, -2.03)
		assert.LessOrEqual(t, tick, 103.03)
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name       string
		lo, hi     float64
		start, end *float64
		want       [2]float64
	}{
		{"data bounds", 1, 5, nil, nil, [2]float64{1, 5}},
		{"start override", 1, 5, ptr(0), nil, [2]float64{0, 5}},
		{"both overrides", 1, 5, ptr(-10), ptr(10), [2]float64{-10, 10}},
		{"reversed overrides", 1, 5, ptr(10), ptr(-10), [2]float64{-10, 10}},
		{"constant", 10, 10, nil, nil, [2]float64{9, 11}},
		{"constant zero", 0, 0, nil, nil, [2]float64{-1, 1}},
		{"undefined", math.NaN(), math.NaN(), nil, nil, [2]float64{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Domain(tt.lo, tt.hi, tt.start, tt.end))
		})
	}
}

func TestTickFormat(t *testing.T) {
	tests := []struct {
		name      string
		ticks     []float64
		units     Units
		precision int
		want      []string
	}{
		{"integers", []float64{0, 50, 100}, UnitsNone, AutoPrecision, []string{"0", "50", "100"}},
		{"halves", []float64{0, 0.5, 1}, UnitsNone, AutoPrecision, []string{"0", "0.5", "1"}},
		{"thousands separator", []float64{0, 5000, 10000}, UnitsNone, AutoPrecision, []string{"0", "5,000", "10,000"}},
		{"fixed thousands", []float64{0, 5000, 10000}, UnitsThousands, AutoPrecision, []string{"0K", "5K", "10K"}},
		{"millions with precision", []float64{1.24e6}, UnitsMillions, 1, []string{"1.2M"}},
		{"auto SI", []float64{0, 500000, 1000000}, UnitsAuto, AutoPrecision, []string{"0M", "0.5M", "1M"}},
		{"billions", []float64{2e9}, UnitsBillions, 0, []string{"2B"}},
		{"negative zero", []float64{-0.0001, 1}, UnitsNone, 0, []string{"0", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTickFormat(tt.ticks, tt.units, tt.precision).FormatAll(tt.ticks)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnits(t *testing.T) {
	u, err := ParseUnits("Millions")
	require.NoError(t, err)
	assert.Equal(t, UnitsMillions, u)

	u, err = ParseUnits("")
	require.NoError(t, err)
	assert.Equal(t, UnitsNone, u)

	_, err = ParseUnits("dozens")
	assert.Error(t, err)

	var back Units
	require.NoError(t, back.UnmarshalText([]byte("auto")))
	assert.Equal(t, UnitsAuto, back)
}
