package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/violin/pkg/bandwidth"
	"github.com/matzehuels/violin/pkg/category"
	"github.com/matzehuels/violin/pkg/config"
	"github.com/matzehuels/violin/pkg/density"
	"github.com/matzehuels/violin/pkg/kernel"
	"github.com/matzehuels/violin/pkg/pipeline"
	"github.com/matzehuels/violin/pkg/source"
)

// runFlags holds the flags shared by every command that builds a view model.
// Flags only override the config file when they are set explicitly.
type runFlags struct {
	configPath string
	noCache    bool
	refresh    bool

	kernel      string
	resolution  string
	clamp       bool
	bandwidth   float64
	perCategory bool
	whiskers    string

	sort  string
	order string
	limit int

	width       float64
	height      float64
	domainStart float64
	domainEnd   float64

	valueColumn    string
	categoryColumn string
	sheet          string
	format         string
}

// register adds the option flags to cmd.
func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "config file (default: user config dir/violin/config.toml)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the view model cache")
	fs.BoolVar(&f.refresh, "refresh", false, "rebuild even if a cached view model exists")

	fs.StringVar(&f.kernel, "kernel", "", "density kernel: epanechnikov (default), gaussian, quartic")
	fs.StringVar(&f.resolution, "resolution", "", "density resolution: low, medium, high (default), very-high")
	fs.BoolVar(&f.clamp, "clamp", false, "clamp density curves to the sample extent")
	fs.Float64Var(&f.bandwidth, "bandwidth", 0, "manual bandwidth (0 uses Silverman's rule of thumb)")
	fs.BoolVar(&f.perCategory, "bandwidth-by-category", false, "estimate one bandwidth per category")
	fs.StringVar(&f.whiskers, "whiskers", "", "box whiskers: minmax (default), percentile")

	fs.StringVar(&f.sort, "sort", "", "sort categories by: name (default), count, median, mean, min, max")
	fs.StringVar(&f.order, "order", "", "sort order: asc (default), desc")
	fs.IntVar(&f.limit, "limit", pipeline.DefaultCategoryLimit, "maximum number of categories (0 for no limit)")

	fs.Float64Var(&f.width, "width", 0, "viewport width in pixels")
	fs.Float64Var(&f.height, "height", 0, "viewport height in pixels")
	fs.Float64Var(&f.domainStart, "domain-start", 0, "value axis start")
	fs.Float64Var(&f.domainEnd, "domain-end", 0, "value axis end")

	fs.StringVar(&f.valueColumn, "value-column", "", "column holding the values (default: first numeric column)")
	fs.StringVar(&f.categoryColumn, "category-column", "", "column holding the category of each value")
	fs.StringVar(&f.sheet, "sheet", "", "XLSX worksheet (default: first sheet)")
	fs.StringVar(&f.format, "format", "", "input format: csv, tsv, json, xlsx (default: from extension)")

	kernels := make([]string, 0, 3)
	for _, k := range kernel.All() {
		kernels = append(kernels, k.Name)
	}
	for flag, values := range map[string][]string{
		"kernel":     kernels,
		"resolution": {"low", "medium", "high", "very-high"},
		"whiskers":   {"minmax", "percentile"},
		"sort":       {"name", "count", "median", "mean", "min", "max"},
		"order":      {"asc", "desc"},
		"format":     {"csv", "tsv", "json", "xlsx"},
	} {
		_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
}

// resolved is the outcome of merging defaults, the config file and flags.
type resolved struct {
	Options pipeline.Options
	Source  source.Options
	Config  *config.File
}

// resolve loads the config file and applies the flags set on cmd.
func (f *runFlags) resolve(cmd *cobra.Command) (*resolved, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	opts := pipeline.DefaultOptions()
	if err := cfg.Apply(&opts); err != nil {
		return nil, err
	}
	if err := f.applyOptions(cmd, &opts); err != nil {
		return nil, err
	}

	src := cfg.Source
	changed := cmd.Flags().Changed
	if changed("value-column") {
		src.ValueColumn = f.valueColumn
	}
	if changed("category-column") {
		src.CategoryColumn = f.categoryColumn
	}
	if changed("sheet") {
		src.Sheet = f.sheet
	}
	if changed("format") {
		src.Format = source.Format(f.format)
	}

	return &resolved{Options: opts, Source: src, Config: cfg}, nil
}

func (f *runFlags) applyOptions(cmd *cobra.Command, opts *pipeline.Options) error {
	changed := cmd.Flags().Changed
	var err error

	if changed("kernel") {
		if opts.Kernel, err = kernel.ParseKind(f.kernel); err != nil {
			return fmt.Errorf("--kernel: %w", err)
		}
	}
	if changed("resolution") {
		if opts.Resolution, err = density.ParseResolution(f.resolution); err != nil {
			return fmt.Errorf("--resolution: %w", err)
		}
	}
	if changed("whiskers") {
		if opts.Whiskers, err = pipeline.ParseWhiskerMode(f.whiskers); err != nil {
			return fmt.Errorf("--whiskers: %w", err)
		}
	}
	if changed("sort") {
		if opts.Sort, err = category.ParseSortKey(f.sort); err != nil {
			return fmt.Errorf("--sort: %w", err)
		}
	}
	if changed("order") {
		if opts.Order, err = category.ParseOrder(f.order); err != nil {
			return fmt.Errorf("--order: %w", err)
		}
	}
	if changed("clamp") {
		opts.Clamp = f.clamp
	}
	if changed("bandwidth") {
		opts.Bandwidth = bandwidth.Override{Enabled: f.bandwidth > 0, Value: f.bandwidth}
	}
	if changed("bandwidth-by-category") {
		opts.BandwidthByCategory = f.perCategory
	}
	if changed("limit") {
		opts.Limit = f.limit
	}
	if changed("width") {
		opts.Layout.Width = f.width
	}
	if changed("height") {
		opts.Layout.Height = f.height
	}
	if changed("domain-start") {
		v := f.domainStart
		opts.DomainStart = &v
	}
	if changed("domain-end") {
		v := f.domainEnd
		opts.DomainEnd = &v
	}
	opts.Refresh = f.refresh
	return opts.Validate()
}
