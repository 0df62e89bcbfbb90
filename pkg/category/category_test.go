package category

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/violin/pkg/dataset"
)

func mixed() dataset.Dataset {
	return dataset.New("score", "group",
		[]string{"b", "a", "b", "c", "a", "b", "c"},
		[]float64{5, 1, 3, 10, 2, 4, 20},
	)
}

func TestAggregatePreservesFirstSeenOrderForStableKeys(t *testing.T) {
	// All categories have the same count: ties fall back to the name.
	ds := dataset.New("v", "k", []string{"z", "y", "x"}, []float64{1, 2, 3})
	res := Aggregate(ds, Options{Sort: ByCount})
	assert.Equal(t, []string{"x", "y", "z"}, Names(res.Categories))
}

func TestAggregateGroupsAndSorts(t *testing.T) {
	res := Aggregate(mixed(), Options{Sort: ByName})

	require.Len(t, res.Categories, 3)
	assert.Equal(t, []string{"a", "b", "c"}, Names(res.Categories))
	assert.Equal(t, []float64{1, 2}, res.Categories[0].Samples)
	assert.Equal(t, []float64{3, 4, 5}, res.Categories[1].Samples)
	assert.Equal(t, []float64{10, 20}, res.Categories[2].Samples)
	assert.False(t, res.Reduced)
}

func TestAggregateSortTable(t *testing.T) {
	tests := []struct {
		key   SortKey
		order Order
		want  []string
	}{
		{ByName, Descending, []string{"c", "b", "a"}},
		{ByCount, Descending, []string{"b", "a", "c"}},
		{ByMedian, Ascending, []string{"a", "b", "c"}},
		{ByMean, Descending, []string{"c", "b", "a"}},
		{ByMin, Ascending, []string{"a", "b", "c"}},
		{ByMax, Descending, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s-%s", tt.key, tt.order), func(t *testing.T) {
			res := Aggregate(mixed(), Options{Sort: tt.key, Order: tt.order})
			assert.Equal(t, tt.want, Names(res.Categories))
		})
	}
}

func TestAggregateCountsSumToTotal(t *testing.T) {
	ds := mixed()
	ds.Samples = append(ds.Samples,
		dataset.Sample{Category: "a", Value: nil},
		dataset.Sample{Category: "c", Value: dataset.Float(math.NaN())},
	)
	res := Aggregate(ds, Options{})

	var sum int
	for _, c := range res.Categories {
		sum += c.Stats.Count
		assert.Len(t, c.Samples, c.Stats.Count)
	}
	assert.Equal(t, ds.ValidCount(), sum)
	assert.Equal(t, sum, res.Global.Count)
	assert.Len(t, res.Values, sum)
}

func TestAggregateUngrouped(t *testing.T) {
	res := Aggregate(dataset.FromValues("latency", 3, 1, 2), Options{})
	require.Len(t, res.Categories, 1)
	assert.Equal(t, "latency", res.Categories[0].Name)
	assert.Equal(t, []float64{1, 2, 3}, res.Categories[0].Samples)
}

func TestAggregateBlankAndEmptyCategories(t *testing.T) {
	ds := dataset.Dataset{
		ValueName:    "v",
		CategoryName: "k",
		Samples: []dataset.Sample{
			{Category: "", Value: dataset.Float(1)},
			{Category: "nulls", Value: nil},
		},
	}
	res := Aggregate(ds, Options{})
	require.Len(t, res.Categories, 2)
	assert.Equal(t, BlankName, res.Categories[0].Name)
	assert.False(t, res.Categories[1].Stats.Defined())
}

func TestAggregateLimit(t *testing.T) {
	ds := dataset.New("v", "k",
		[]string{"a", "b", "c", "d", "e", "a"},
		[]float64{1, 2, 3, 4, 5, 6},
	)
	res := Aggregate(ds, Options{Limit: 2})

	assert.Len(t, res.Categories, 2)
	assert.True(t, res.Reduced)
	assert.Equal(t, 3, res.Dropped)
	assert.Equal(t, 3, res.Global.Count)
	assert.Equal(t, []float64{1, 6}, res.Categories[0].Samples)
}

func TestParseSortKeyAndOrder(t *testing.T) {
	k, err := ParseSortKey("Median")
	require.NoError(t, err)
	assert.Equal(t, ByMedian, k)

	_, err = ParseSortKey("variance")
	assert.Error(t, err)

	o, err := ParseOrder("descending")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}
