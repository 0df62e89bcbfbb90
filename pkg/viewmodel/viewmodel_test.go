package viewmodel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyMarshal(t *testing.T) {
	data, err := Marshal(Empty())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, false, raw["render"])
	assert.Equal(t, []any{}, raw["categories"])
	assert.NotContains(t, raw, "bands")
	assert.False(t, Empty().Placeholder())
}

func TestPlaceholder(t *testing.T) {
	vm := ViewModel{Render: true}
	assert.True(t, vm.Placeholder())
	vm.Bands = &PlotBands{Band: 10}
	assert.False(t, vm.Placeholder())
}

func TestUnmarshalKeepsGeometry(t *testing.T) {
	vm := ViewModel{
		Render: true,
		Categories: []Category{{
			Name:    "A",
			Density: []DensityPoint{{X: 0, Y: 0}, {X: 1, Y: 0.5}, {X: 2, Y: 0}},
			Barcode: []BarcodeTick{{Value: 1, Count: 2}},
		}},
		ValueAxis: AxisGeometry{Visible: true, Domain: [2]float64{0, 2}, Ticks: []float64{0, 1, 2}, TickLabels: []string{"0", "1", "2"}},
		Bands:     &PlotBands{Band: 100, Violin: 90, Box: 13.5, Barcode: 54, MeanRadius: 4, Centers: []float64{50}},
	}
	data, err := Marshal(vm)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, vm.Categories[0].Density, got.Categories[0].Density)
	assert.Equal(t, vm.ValueAxis, got.ValueAxis)
	assert.Equal(t, vm.Bands, got.Bands)
}

func TestProfileTotal(t *testing.T) {
	var p *Profile
	assert.Zero(t, p.Total())

	p = &Profile{Stages: []Stage{{Duration: time.Millisecond}, {Duration: 2 * time.Millisecond}}}
	assert.Equal(t, 3*time.Millisecond, p.Total())
}
