package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/violin/pkg/category"
	"github.com/matzehuels/violin/pkg/density"
	"github.com/matzehuels/violin/pkg/errors"
	"github.com/matzehuels/violin/pkg/fonts"
	"github.com/matzehuels/violin/pkg/kernel"
	"github.com/matzehuels/violin/pkg/layout"
	"github.com/matzehuels/violin/pkg/pipeline"
)

const full = `
[density]
kernel = "gaussian"
resolution = "very-high"
clamp = true
bandwidth = 0.5
bandwidth_by_category = true
whiskers = "percentile"

[sort]
by = "median"
order = "desc"

[layout]
width = 640
height = 480
violin_padding = 20
domain_start = 0.0

[layout.margins]
top = 8
left = 12

[value_axis]
title = "Weight (kg)"
units = "thousands"
tick_count = 4
precision = 1

[value_axis.label_font]
family = "Go Mono"

[category_axis]
title_visible = false
min_size = 120

[colors]
palette = ["#1b9e77", "#d95f02"]

[colors.categories]
control = "#999999"

[limits]
categories = 25

[source]
value_column = "weight"
category_column = "species"

[cache]
redis_addr = "localhost:6379"
prefix = "staging:"

[server]
addr = ":9000"
`

func TestDecodeAndApply(t *testing.T) {
	f, err := Decode(strings.NewReader(full))
	require.NoError(t, err)

	opts := pipeline.DefaultOptions()
	require.NoError(t, f.Apply(&opts))

	assert.Equal(t, kernel.Gaussian, opts.Kernel)
	assert.Equal(t, density.VeryHigh, opts.Resolution)
	assert.True(t, opts.Clamp)
	assert.True(t, opts.Bandwidth.Enabled)
	assert.Equal(t, 0.5, opts.Bandwidth.Value)
	assert.True(t, opts.BandwidthByCategory)
	assert.Equal(t, pipeline.WhiskersPercentile, opts.Whiskers)

	assert.Equal(t, category.ByMedian, opts.Sort)
	assert.Equal(t, category.Descending, opts.Order)
	assert.Equal(t, 25, opts.Limit)

	assert.Equal(t, 640.0, opts.Layout.Width)
	assert.Equal(t, 480.0, opts.Layout.Height)
	assert.Equal(t, 20.0, opts.Layout.ViolinPadding)
	assert.Equal(t, layout.DefaultBoxPadding, opts.Layout.BoxPadding)
	assert.Equal(t, layout.Margins{Top: 8, Left: 12}, opts.Layout.Margins)
	require.NotNil(t, opts.DomainStart)
	assert.Equal(t, 0.0, *opts.DomainStart)
	assert.Nil(t, opts.DomainEnd)

	va := opts.Layout.ValueAxis
	assert.Equal(t, "Weight (kg)", va.Title)
	assert.Equal(t, layout.UnitsThousands, va.Units)
	assert.Equal(t, 4, va.TickCount)
	assert.Equal(t, 1, va.Precision)
	assert.Equal(t, fonts.Mono, va.LabelFont.Family)
	assert.Equal(t, layout.DefaultLabelSize, va.LabelFont.Size)
	assert.True(t, va.Visible)

	ca := opts.Layout.CategoryAxis
	assert.False(t, ca.TitleVisible)
	assert.True(t, ca.Visible)
	assert.Equal(t, 120.0, ca.MinSize)

	assert.Equal(t, []string{"#1b9e77", "#d95f02"}, opts.Palette)
	assert.Equal(t, map[string]string{"control": "#999999"}, opts.Colors)

	assert.Equal(t, "weight", f.Source.ValueColumn)
	assert.Equal(t, "species", f.Source.CategoryColumn)
	assert.Equal(t, "localhost:6379", f.Cache.RedisAddr)
	assert.Equal(t, "staging:", f.Cache.Prefix)
	assert.Equal(t, ":9000", f.Server.Addr)

	require.NoError(t, opts.ValidateAndSetDefaults())
}

func TestApplyEmptyKeepsDefaults(t *testing.T) {
	f, err := Decode(strings.NewReader(""))
	require.NoError(t, err)

	opts := pipeline.DefaultOptions()
	require.NoError(t, f.Apply(&opts))
	assert.Equal(t, pipeline.DefaultOptions(), opts)
}

func TestZeroBandwidthDisablesOverride(t *testing.T) {
	f, err := Decode(strings.NewReader("[density]\nbandwidth = 0.0\n"))
	require.NoError(t, err)

	opts := pipeline.DefaultOptions()
	require.NoError(t, f.Apply(&opts))
	assert.False(t, opts.Bandwidth.Enabled)
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":          "[density\n",
		"unknown key":     "[density]\nkernal = \"gaussian\"\n",
		"unknown kernel":  "[density]\nkernel = \"triangle\"\n",
		"unknown sort":    "[sort]\nby = \"colour\"\n",
		"unknown units":   "[value_axis]\nunits = \"furlongs\"\n",
		"wrong type":      "[layout]\nwidth = \"wide\"\n",
		"unknown section": "[plot]\nwidth = 3\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), err.Error())
		})
	}
}

func TestApplyUnknownFont(t *testing.T) {
	f, err := Decode(strings.NewReader("[category_axis.title_font]\nfamily = \"Comic Sans\"\n"))
	require.NoError(t, err)

	opts := pipeline.DefaultOptions()
	err = f.Apply(&opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "category_axis")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[limits]\ncategories = 3\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Limits.Categories)
	assert.Equal(t, 3, *f.Limits.Categories)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("nope = 1\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "bad.toml")
}

func TestLoadDefaultMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	f, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, f.Density.Kernel)
}
