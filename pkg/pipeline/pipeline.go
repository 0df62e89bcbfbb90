// Package pipeline turns a dataset into a violin plot view model.
//
// This package implements the complete pipeline that both the CLI and the
// HTTP server run. By centralizing it here, every entry point builds the same
// model from the same data and options.
//
// # Architecture
//
// [Build] runs six stages and records their timing in the model's profile:
//
//  1. Aggregate: group samples by category, compute statistics, sort and cap
//  2. Bandwidth: choose the global or per-category smoothing bandwidth
//  3. Layout (initial): resolve axes and plot area over the data domain
//  4. Density: estimate each category's curve, collecting domain requests
//  5. Layout (final): resolve again over the widened domain
//  6. Geometry: assign colours, barcodes, whiskers and violin outlines
//
// [Build] is pure and never fails; [Runner] wraps it with option validation,
// caching and observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Kernel = kernel.Gaussian
//	result, err := runner.Execute(ctx, ds, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := viewmodel.Marshal(result.ViewModel)
package pipeline
