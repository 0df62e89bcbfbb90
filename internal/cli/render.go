package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/pipeline"
	"github.com/matzehuels/violin/pkg/source"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

// viewModelExt is appended to the input base name to name output files.
const viewModelExt = ".viewmodel.json"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	runFlags
	output string // output file, or directory for several inputs; "-" for stdout
	jobs   int    // inputs processed concurrently
}

// renderCommand creates the render command. Each input file becomes
// <name>.viewmodel.json next to it unless --output says otherwise.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Build view models for one or more datasets",
		Long: `Build a violin plot view model for each input file.

Inputs may be CSV, TSV, JSON or XLSX; "-" reads CSV from standard input.
Several inputs are processed in parallel (see --jobs).`,
		Example: `  violin render weights.csv --category-column species
  violin render a.csv b.xlsx -o out/ --kernel gaussian --jobs 4
  cat data.csv | violin render - -o -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateInputs(args, opts.output); err != nil {
				return err
			}
			res, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			runner := c.newRunner(res.Config.Cache, opts.noCache)
			defer runner.Close()
			return c.runRender(cmd.Context(), runner, args, res, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, or directory for several inputs ("-" for stdout)`)
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of inputs processed in parallel")

	return cmd
}

// validateInputs rejects argument combinations that would write several
// view models to one destination.
func validateInputs(inputs []string, output string) error {
	if len(inputs) < 2 {
		return nil
	}
	if output == source.Stdin {
		return fmt.Errorf("cannot write %d view models to stdout", len(inputs))
	}
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		key := in
		if in != source.Stdin {
			key = filepath.Clean(in)
		}
		if seen[key] {
			return fmt.Errorf("input %q given more than once", in)
		}
		seen[key] = true
	}

	writers := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := outputPath(output, in, true)
		if out != source.Stdin {
			out = filepath.Clean(out)
		}
		if prev, ok := writers[out]; ok {
			return fmt.Errorf("inputs %q and %q would both write %s", prev, in, out)
		}
		writers[out] = in
	}
	return nil
}

// renderResult is the outcome for one input.
type renderResult struct {
	input  string
	output string
	result *pipeline.Result
}

// runRender builds a view model per input, bounded by opts.jobs concurrent
// runs. The first failure cancels the remaining inputs.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, inputs []string, res *resolved, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	multi := len(inputs) > 1

	if multi && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	results := make([]renderResult, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			out := outputPath(opts.output, input, multi)
			r, err := c.renderOne(ctx, runner, input, out, res)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = renderResult{input: input, output: out, result: r}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(results) == 1 && results[0].output == source.Stdin {
		return nil
	}
	prog.done(fmt.Sprintf("Built %d view model(s)", len(results)))
	for _, r := range results {
		vm := r.result.ViewModel
		printSuccess("%s", r.input)
		printFile(r.output)
		printRunStats(len(vm.Categories), vm.Global.Count, r.result.CacheHit, vm.Profile.Total())
	}
	if len(results) == 1 && results[0].input != source.Stdin {
		printNextStep("Browse it", "violin inspect "+results[0].input)
	}
	return nil
}

// renderOne loads input, runs the pipeline and writes the view model to out.
func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, input, out string, res *resolved) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)

	ds, err := source.Load(ctx, input, res.Source)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded dataset", "input", input, "samples", len(ds.Samples), "valid", ds.ValidCount())

	r, err := runner.Execute(ctx, ds, res.Options)
	if err != nil {
		return nil, err
	}
	warnViewModel(ctx, input, ds, r.ViewModel)

	data, err := viewmodel.Marshal(r.ViewModel)
	if err != nil {
		return nil, fmt.Errorf("encode view model: %w", err)
	}
	if err := c.writeOutput(out, data); err != nil {
		return nil, err
	}
	return r, nil
}

// warnViewModel logs the conditions a user should know about.
func warnViewModel(ctx context.Context, input string, ds dataset.Dataset, vm viewmodel.ViewModel) {
	logger := loggerFromContext(ctx)
	switch {
	case !vm.Render:
		logger.Warn("no valid values; the view model is empty", "input", input, "samples", len(ds.Samples))
	case vm.Placeholder():
		logger.Warn("viewport too small; the view model is a placeholder", "input", input)
	}
	if vm.Reduced {
		logger.Warn("category limit reached", "input", input, "shown", len(vm.Categories), "dropped", vm.Dropped)
	}
}

// outputPath derives where the view model of input is written.
func outputPath(output, input string, multi bool) string {
	name := viewModelName(input)
	switch {
	case output == "" && input == source.Stdin:
		return source.Stdin
	case output == "":
		return filepath.Join(filepath.Dir(input), name)
	case multi, strings.HasSuffix(output, string(filepath.Separator)), isDir(output):
		return filepath.Join(output, name)
	default:
		return output
	}
}

// viewModelName strips the extension from the base name of input and adds
// viewModelExt.
func viewModelName(input string) string {
	if input == source.Stdin {
		return "stdin" + viewModelExt
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + viewModelExt
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// writeOutput writes data to path, or to the CLI output for "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == source.Stdin {
		return writeAll(c.Out, data)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeAll(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := w.Write([]byte{'\n'})
		return err
	}
	return nil
}
