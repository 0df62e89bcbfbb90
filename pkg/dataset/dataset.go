// Package dataset defines the raw input of the violin pipeline: a flat list of
// numeric samples, each optionally tagged with a category key.
package dataset

import (
	"math"
)

// Sample is one raw observation. A nil Value marks a null or unparsable entry.
type Sample struct {
	Category string   `json:"category,omitempty"`
	Value    *float64 `json:"value"`
}

// Dataset is the bound data for one pipeline run.
type Dataset struct {
	// ValueName is the display name of the value field. It names the value
	// axis and the synthetic category of an ungrouped dataset.
	ValueName string `json:"value_name,omitempty"`

	// CategoryName is the display name of the category field. Empty means no
	// category role is bound and every sample belongs to one group.
	CategoryName string `json:"category_name,omitempty"`

	Samples []Sample `json:"samples"`
}

// DefaultValueName labels the value field when the source does not name it.
const DefaultValueName = "Value"

// Grouped reports whether a category role is bound.
func (d Dataset) Grouped() bool { return d.CategoryName != "" }

// ValueLabel returns ValueName or [DefaultValueName].
func (d Dataset) ValueLabel() string {
	if d.ValueName == "" {
		return DefaultValueName
	}
	return d.ValueName
}

// ValidCount returns the number of samples with a finite value.
func (d Dataset) ValidCount() int {
	n := 0
	for _, s := range d.Samples {
		if s.Valid() {
			n++
		}
	}
	return n
}

// Usable reports whether the dataset has at least one valid value.
func (d Dataset) Usable() bool {
	for _, s := range d.Samples {
		if s.Valid() {
			return true
		}
	}
	return false
}

// Valid reports whether s carries a finite value.
func (s Sample) Valid() bool {
	return s.Value != nil && !math.IsNaN(*s.Value) && !math.IsInf(*s.Value, 0)
}

// Float returns a pointer to v, for building samples inline.
func Float(v float64) *float64 { return &v }

// New builds a grouped dataset from parallel category/value slices.
func New(valueName, categoryName string, categories []string, values []float64) Dataset {
	d := Dataset{ValueName: valueName, CategoryName: categoryName}
	d.Samples = make([]Sample, len(values))
	for i, v := range values {
		d.Samples[i].Value = Float(v)
		if i < len(categories) {
			d.Samples[i].Category = categories[i]
		}
	}
	return d
}

// FromValues builds an ungrouped dataset.
func FromValues(valueName string, values ...float64) Dataset {
	return New(valueName, "", nil, values)
}

// Canonical returns a copy of d in which every invalid value is nil, so the
// dataset always encodes to JSON and equal data hashes equally.
func (d Dataset) Canonical() Dataset {
	out := d
	out.Samples = make([]Sample, len(d.Samples))
	for i, s := range d.Samples {
		out.Samples[i].Category = s.Category
		if s.Valid() {
			out.Samples[i].Value = Float(*s.Value)
		}
	}
	return out
}
