// Package category groups raw samples by category key and summarises each
// group.
//
// Grouping preserves the order in which keys are first seen; the final order
// is then decided by a comparator resolved once from a [SortKey] and [Order].
// A dataset without a category role yields a single synthetic category named
// after its value field.
package category

import (
	"slices"

	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/stats"
)

// BlankName labels samples whose category key is empty in a grouped dataset.
const BlankName = "(Blank)"

// Category is one group of samples.
type Category struct {
	Name string
	// Samples holds the finite values of the group sorted ascending.
	Samples []float64
	Stats   stats.Statistics
}

// Options control grouping and ordering.
type Options struct {
	Sort  SortKey
	Order Order
	// Limit caps the number of categories processed. Zero means no limit.
	Limit int
}

// Result is the output of [Aggregate].
type Result struct {
	Categories []Category
	// Global summarises every valid value of the retained categories.
	Global stats.Statistics
	// Values holds those values sorted ascending.
	Values []float64
	// Reduced is set when categories beyond Options.Limit were dropped.
	Reduced bool
	// Dropped counts the distinct categories that were dropped.
	Dropped int
}

// Aggregate groups ds, computes statistics per category and globally, and
// orders the categories.
func Aggregate(ds dataset.Dataset, opts Options) Result {
	type group struct {
		name string
		raw  []float64
	}

	var (
		groups  []*group
		index   = make(map[string]int)
		dropped = make(map[string]struct{})
	)

	for _, s := range ds.Samples {
		key := keyFor(ds, s)
		i, ok := index[key]
		if !ok {
			if opts.Limit > 0 && len(groups) >= opts.Limit {
				dropped[key] = struct{}{}
				continue
			}
			i = len(groups)
			index[key] = i
			groups = append(groups, &group{name: key})
		}
		if s.Valid() {
			groups[i].raw = append(groups[i].raw, *s.Value)
		}
	}

	res := Result{
		Categories: make([]Category, len(groups)),
		Reduced:    len(dropped) > 0,
		Dropped:    len(dropped),
	}

	var total int
	for i, g := range groups {
		samples := stats.Clean(g.raw)
		res.Categories[i] = Category{
			Name:    g.name,
			Samples: samples,
			Stats:   stats.Compute(samples),
		}
		total += len(samples)
	}

	res.Values = make([]float64, 0, total)
	for _, c := range res.Categories {
		res.Values = append(res.Values, c.Samples...)
	}
	slices.Sort(res.Values)
	res.Global = stats.Compute(res.Values)

	slices.SortStableFunc(res.Categories, ComparatorFor(opts.Sort, opts.Order))
	return res
}

func keyFor(ds dataset.Dataset, s dataset.Sample) string {
	if !ds.Grouped() {
		return ds.ValueLabel()
	}
	if s.Category == "" {
		return BlankName
	}
	return s.Category
}

// Names returns the category names in order.
func Names(cats []Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}
