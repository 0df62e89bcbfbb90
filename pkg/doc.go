// Package pkg provides the core libraries for violin plot view models.
//
// # Overview
//
// Violin turns a column of numbers, optionally grouped by a category column,
// into a JSON view model that a renderer can draw as a violin, box or barcode
// plot without doing any statistics of its own. The pkg directory is
// organized into four main areas:
//
//  1. Statistics: [stats], [bandwidth], [kernel], [density], [category]
//  2. Layout: [layout], [textmeasure], [fonts], [palette]
//  3. Orchestration: [pipeline], [viewmodel], [config]
//  4. Infrastructure: [source], [cache], [observability], [errors]
//
// # Architecture
//
// The data flow through a single run:
//
//	CSV / TSV / JSON / XLSX / SQL rows
//	         ↓
//	    [source] package (dataset.Dataset)
//	         ↓
//	    [category] package (group, sort, limit, per-category statistics)
//	         ↓
//	    [bandwidth] + [density] packages (kernel density per category)
//	         ↓
//	    [layout] package (axis collapse cascade, plot bands)
//	         ↓
//	    [viewmodel] package (JSON output)
//
// [pipeline.Build] runs the stages in order; [pipeline.Runner] adds the
// cache lookup and observability hooks used by the CLI and the HTTP server.
//
// # Quick Start
//
//	ds, err := source.Load(ctx, "weights.csv", source.Options{CategoryColumn: "species"})
//	if err != nil {
//	    return err
//	}
//	opts := pipeline.DefaultOptions()
//	opts.Kernel = kernel.Gaussian
//	vm := pipeline.Build(ds, opts)
//	data, err := viewmodel.Marshal(vm)
//
// # Caching
//
// [cache] stores view models keyed by a hash of the canonical dataset and the
// options that affect the output. Backends: FileCache for the CLI, Redis and
// MongoDB for the server, NullCache to disable caching.
//
// [stats]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/stats
// [bandwidth]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/bandwidth
// [kernel]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/kernel
// [density]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/density
// [category]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/category
// [layout]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/layout
// [textmeasure]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/textmeasure
// [fonts]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/fonts
// [palette]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/palette
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/pipeline
// [viewmodel]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/viewmodel
// [config]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/config
// [source]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/violin/pkg/errors
package pkg
