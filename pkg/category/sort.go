package category

import (
	"cmp"
	"fmt"
	"strings"
)

// SortKey selects the category attribute used for ordering.
type SortKey int

const (
	ByName SortKey = iota
	ByCount
	ByMedian
	ByMean
	ByMin
	ByMax
)

// Order is the sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// Comparator orders two categories.
type Comparator func(a, b Category) int

var sortKeyNames = [...]string{
	ByName:   "name",
	ByCount:  "count",
	ByMedian: "median",
	ByMean:   "mean",
	ByMin:    "min",
	ByMax:    "max",
}

// ascending holds the base comparator for each key. Descending order negates
// it; ties always fall back to the category name so results are stable.
var ascending = [...]Comparator{
	ByName:   func(a, b Category) int { return cmp.Compare(a.Name, b.Name) },
	ByCount:  func(a, b Category) int { return cmp.Compare(a.Stats.Count, b.Stats.Count) },
	ByMedian: func(a, b Category) int { return cmp.Compare(a.Stats.Median, b.Stats.Median) },
	ByMean:   func(a, b Category) int { return cmp.Compare(a.Stats.Mean, b.Stats.Mean) },
	ByMin:    func(a, b Category) int { return cmp.Compare(a.Stats.Min, b.Stats.Min) },
	ByMax:    func(a, b Category) int { return cmp.Compare(a.Stats.Max, b.Stats.Max) },
}

// ComparatorFor resolves the comparator for key and order. Unknown keys sort by
// name.
func ComparatorFor(key SortKey, order Order) Comparator {
	base := ascending[ByName]
	if key >= 0 && int(key) < len(ascending) {
		base = ascending[key]
	}
	byName := ascending[ByName]
	if order == Descending {
		return func(a, b Category) int {
			if c := base(b, a); c != 0 {
				return c
			}
			return byName(a, b)
		}
	}
	return func(a, b Category) int {
		if c := base(a, b); c != 0 {
			return c
		}
		return byName(a, b)
	}
}

func (k SortKey) String() string {
	if k >= 0 && int(k) < len(sortKeyNames) {
		return sortKeyNames[k]
	}
	return sortKeyNames[ByName]
}

// ParseSortKey resolves a sort key name. Empty yields ByName.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ByName, nil
	}
	for i, name := range sortKeyNames {
		if name == s {
			return SortKey(i), nil
		}
	}
	return ByName, fmt.Errorf("unknown sort key %q (must be one of: %s)", s, strings.Join(sortKeyNames[:], ", "))
}

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder resolves "asc"/"ascending" or "desc"/"descending". Empty yields
// Ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q (must be asc or desc)", s)
}

// MarshalText encodes the key by name.
func (k SortKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a key name.
func (k *SortKey) UnmarshalText(b []byte) error {
	v, err := ParseSortKey(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalText encodes the order.
func (o Order) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText decodes an order.
func (o *Order) UnmarshalText(b []byte) error {
	v, err := ParseOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
