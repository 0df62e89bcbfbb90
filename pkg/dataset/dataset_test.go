package dataset

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValidity(t *testing.T) {
	d := Dataset{Samples: []Sample{
		{Value: Float(1)},
		{Value: nil},
		{Value: Float(math.NaN())},
		{Value: Float(math.Inf(-1))},
		{Value: Float(-3)},
	}}
	if got := d.ValidCount(); got != 2 {
		t.Errorf("ValidCount() = %d, want 2", got)
	}
	if !d.Usable() {
		t.Error("dataset with valid values should be usable")
	}
	if (Dataset{Samples: []Sample{{}}}).Usable() {
		t.Error("dataset of nulls should not be usable")
	}
}

func TestValueLabel(t *testing.T) {
	if got := (Dataset{}).ValueLabel(); got != DefaultValueName {
		t.Errorf("ValueLabel() = %q, want %q", got, DefaultValueName)
	}
	if got := (Dataset{ValueName: "Weight"}).ValueLabel(); got != "Weight" {
		t.Errorf("ValueLabel() = %q, want Weight", got)
	}
}

func TestNew(t *testing.T) {
	d := New("v", "g", []string{"a"}, []float64{1, 2})
	if !d.Grouped() {
		t.Fatal("dataset with category name should be grouped")
	}
	if len(d.Samples) != 2 {
		t.Fatalf("len(Samples) = %d, want 2", len(d.Samples))
	}
	if d.Samples[0].Category != "a" || d.Samples[1].Category != "" {
		t.Errorf("categories = %q, %q", d.Samples[0].Category, d.Samples[1].Category)
	}
	if FromValues("v", 1).Grouped() {
		t.Error("FromValues should not be grouped")
	}
}

func TestCanonicalEncodes(t *testing.T) {
	d := New("v", "g", []string{"a", "b"}, []float64{math.NaN(), 2})
	if _, err := json.Marshal(d); err == nil {
		t.Fatal("expected NaN to fail JSON encoding")
	}

	c := d.Canonical()
	if _, err := json.Marshal(c); err != nil {
		t.Fatalf("Canonical() should encode: %v", err)
	}
	if c.Samples[0].Value != nil {
		t.Error("invalid value should become nil")
	}
	if *c.Samples[1].Value != 2 {
		t.Errorf("valid value = %v, want 2", *c.Samples[1].Value)
	}
	*c.Samples[1].Value = 5
	if *d.Samples[1].Value != 2 {
		t.Error("Canonical must not share value pointers")
	}
}
