// Package config loads the violin TOML configuration file and applies it to
// pipeline options.
//
// Every setting is optional. Unset keys keep the value already present in the
// options, so the usual order is: start from [pipeline.DefaultOptions], apply
// the file, then apply command-line flags.
//
//	[density]
//	kernel = "gaussian"
//	resolution = "very-high"
//	clamp = false
//	bandwidth = 0.5
//
//	[sort]
//	by = "median"
//	order = "desc"
//
//	[layout]
//	width = 640
//	height = 480
//
//	[value_axis]
//	title = "Weight (kg)"
//	units = "thousands"
//
//	[colors]
//	palette = ["#1b9e77", "#d95f02"]
//	[colors.categories]
//	control = "#999999"
//
//	[limits]
//	categories = 25
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/violin/pkg/bandwidth"
	"github.com/matzehuels/violin/pkg/category"
	"github.com/matzehuels/violin/pkg/density"
	"github.com/matzehuels/violin/pkg/errors"
	"github.com/matzehuels/violin/pkg/fonts"
	"github.com/matzehuels/violin/pkg/kernel"
	"github.com/matzehuels/violin/pkg/layout"
	"github.com/matzehuels/violin/pkg/pipeline"
	"github.com/matzehuels/violin/pkg/source"
	"github.com/matzehuels/violin/pkg/textmeasure"
)

// FileName is the name of the configuration file in the user config
// directory.
const FileName = "config.toml"

// File is the decoded configuration file.
type File struct {
	Density      Density        `toml:"density"`
	Sort         Sort           `toml:"sort"`
	Layout       Layout         `toml:"layout"`
	ValueAxis    ValueAxis      `toml:"value_axis"`
	CategoryAxis Axis           `toml:"category_axis"`
	Colors       Colors         `toml:"colors"`
	Limits       Limits         `toml:"limits"`
	Source       source.Options `toml:"source"`
	Cache        Cache          `toml:"cache"`
	Server       Server         `toml:"server"`
}

// Density configures estimation.
type Density struct {
	Kernel     *kernel.Kind        `toml:"kernel"`
	Resolution *density.Resolution `toml:"resolution"`
	Clamp      *bool               `toml:"clamp"`
	// Bandwidth is a manual override; zero or unset keeps the rule of thumb.
	Bandwidth           *float64              `toml:"bandwidth"`
	BandwidthByCategory *bool                 `toml:"bandwidth_by_category"`
	Whiskers            *pipeline.WhiskerMode `toml:"whiskers"`
}

// Sort configures category order.
type Sort struct {
	By    *category.SortKey `toml:"by"`
	Order *category.Order   `toml:"order"`
}

// Layout configures the viewport and plot bands.
type Layout struct {
	Width          *float64        `toml:"width"`
	Height         *float64        `toml:"height"`
	Margins        *layout.Margins `toml:"margins"`
	AxisPadding    *float64        `toml:"axis_padding"`
	ViolinPadding  *float64        `toml:"violin_padding"`
	BoxPadding     *float64        `toml:"box_padding"`
	BarcodePadding *float64        `toml:"barcode_padding"`
	MaxMeanRadius  *float64        `toml:"max_mean_radius"`
	DomainStart    *float64        `toml:"domain_start"`
	DomainEnd      *float64        `toml:"domain_end"`
}

// Axis configures one axis.
type Axis struct {
	Visible      *bool             `toml:"visible"`
	TitleVisible *bool             `toml:"title_visible"`
	Title        *string           `toml:"title"`
	TitleFont    *textmeasure.Font `toml:"title_font"`
	LabelFont    *textmeasure.Font `toml:"label_font"`
	MinSize      *float64          `toml:"min_size"`
}

// ValueAxis adds tick settings to Axis.
type ValueAxis struct {
	Axis
	TickCount *int          `toml:"tick_count"`
	Units     *layout.Units `toml:"units"`
	Precision *int          `toml:"precision"`
}

// Colors configures the palette and per-category overrides.
type Colors struct {
	Palette    []string          `toml:"palette"`
	Categories map[string]string `toml:"categories"`
}

// Limits bounds the work done per run.
type Limits struct {
	Categories *int `toml:"categories"`
}

// Cache selects the cache backend. The server prefers Redis over Mongo over
// the file cache.
type Cache struct {
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	// Prefix scopes every key so deployments can share one backend.
	Prefix string `toml:"prefix"`
}

// Server configures `violin serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// DefaultPath returns the configuration file path in the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "violin", FileName), nil
}

// Load reads the file at path. An empty path loads the default file if it
// exists and returns an empty File otherwise.
func Load(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &File{}, nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return &File{}, nil
			}
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open config %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Decode parses a configuration from r. Unknown keys are an error so typos
// do not go unnoticed.
func Decode(r io.Reader) (*File, error) {
	var cfg File
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Apply copies every set value onto opts.
func (f *File) Apply(opts *pipeline.Options) error {
	d := f.Density
	set(&opts.Kernel, d.Kernel)
	set(&opts.Resolution, d.Resolution)
	set(&opts.Clamp, d.Clamp)
	set(&opts.BandwidthByCategory, d.BandwidthByCategory)
	set(&opts.Whiskers, d.Whiskers)
	if d.Bandwidth != nil {
		opts.Bandwidth = bandwidth.Override{Enabled: *d.Bandwidth > 0, Value: *d.Bandwidth}
	}

	set(&opts.Sort, f.Sort.By)
	set(&opts.Order, f.Sort.Order)
	set(&opts.Limit, f.Limits.Categories)

	l, cfg := f.Layout, &opts.Layout
	set(&cfg.Width, l.Width)
	set(&cfg.Height, l.Height)
	set(&cfg.Margins, l.Margins)
	set(&cfg.AxisPadding, l.AxisPadding)
	set(&cfg.ViolinPadding, l.ViolinPadding)
	set(&cfg.BoxPadding, l.BoxPadding)
	set(&cfg.BarcodePadding, l.BarcodePadding)
	set(&cfg.MaxMeanRadius, l.MaxMeanRadius)
	if l.DomainStart != nil {
		opts.DomainStart = l.DomainStart
	}
	if l.DomainEnd != nil {
		opts.DomainEnd = l.DomainEnd
	}

	if err := f.ValueAxis.Axis.apply(&cfg.ValueAxis.AxisConfig); err != nil {
		return fmt.Errorf("value_axis: %w", err)
	}
	set(&cfg.ValueAxis.TickCount, f.ValueAxis.TickCount)
	set(&cfg.ValueAxis.Units, f.ValueAxis.Units)
	set(&cfg.ValueAxis.Precision, f.ValueAxis.Precision)
	if err := f.CategoryAxis.apply(&cfg.CategoryAxis); err != nil {
		return fmt.Errorf("category_axis: %w", err)
	}

	if len(f.Colors.Palette) > 0 {
		opts.Palette = slices.Clone(f.Colors.Palette)
	}
	if len(f.Colors.Categories) > 0 {
		if opts.Colors == nil {
			opts.Colors = make(map[string]string, len(f.Colors.Categories))
		}
		for name, c := range f.Colors.Categories {
			opts.Colors[name] = c
		}
	}
	return nil
}

func (a Axis) apply(cfg *layout.AxisConfig) error {
	set(&cfg.Visible, a.Visible)
	set(&cfg.TitleVisible, a.TitleVisible)
	set(&cfg.Title, a.Title)
	set(&cfg.MinSize, a.MinSize)
	if err := applyFont(&cfg.TitleFont, a.TitleFont); err != nil {
		return err
	}
	return applyFont(&cfg.LabelFont, a.LabelFont)
}

// applyFont replaces the set fields of dst. The family must be one of the
// bundled fonts.
func applyFont(dst *textmeasure.Font, src *textmeasure.Font) error {
	if src == nil {
		return nil
	}
	if src.Family != "" {
		if !fonts.Known(src.Family) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown font family %q (available: %s)",
				src.Family, strings.Join(fonts.Families(), ", "))
		}
		dst.Family = src.Family
	}
	if src.Size > 0 {
		dst.Size = src.Size
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
