package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	verrors "github.com/matzehuels/violin/pkg/errors"
	"github.com/matzehuels/violin/pkg/pipeline"
	"github.com/matzehuels/violin/pkg/source"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

// envDSN supplies --dsn so credentials stay out of shell history.
const envDSN = "VIOLIN_DSN"

type sqlOpts struct {
	runFlags
	driver string
	dsn    string
	query  string
	output string
}

// sqlCommand creates the sql command, which builds a view model from the rows
// of a query.
func (c *CLI) sqlCommand() *cobra.Command {
	opts := sqlOpts{driver: source.DriverPostgres, output: source.Stdin}

	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Build a view model from a SQL query",
		Long: `Build a view model from the rows of a read-only SQL query.

The value column defaults to the first numeric column of the result; name
the category column with --category-column. Query results are cached for an
hour unless --no-cache or --refresh is given.`,
		Example: `  VIOLIN_DSN=postgres://localhost/db?sslmode=disable \
    violin sql --query "SELECT species, weight FROM penguins" --category-column species`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dsn == "" {
				opts.dsn = os.Getenv(envDSN)
			}
			res, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runSQL(cmd.Context(), &opts, res)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.driver, "driver", opts.driver, "database driver: postgres, mysql")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "data source name (default: $"+envDSN+")")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "SELECT statement to run")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, `output file ("-" for stdout)`)
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func (c *CLI) runSQL(ctx context.Context, opts *sqlOpts, res *resolved) (err error) {
	logger := loggerFromContext(ctx)
	toStdout := opts.output == source.Stdin

	var spin *Spinner
	if !toStdout {
		spin = newSpinner(ctx, "Connecting to "+opts.driver)
		spin.Start()
		defer func() {
			if err != nil && !spin.Cancelled() {
				spin.StopWithError("No view model built")
			}
			spin.Stop()
		}()
	}

	db, err := source.OpenSQL(ctx, opts.driver, opts.dsn)
	if err != nil {
		return err
	}
	store := c.fileCache(res.Config.Cache, opts.noCache)
	reader := source.NewSQL(db, opts.dsn, store, nil, logger)
	reader.Refresh = opts.refresh
	defer reader.Close()

	if spin != nil {
		spin.SetMessage("Running query")
	}
	ds, err := reader.Query(ctx, opts.query, res.Source)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, nil, logger)
	defer runner.Close()
	r, err := runner.Execute(ctx, ds, res.Options)
	if err != nil {
		return err
	}
	warnViewModel(ctx, "query", ds, r.ViewModel)

	data, err := viewmodel.Marshal(r.ViewModel)
	if err != nil {
		return verrors.Wrap(verrors.ErrCodeInternal, err, "encode view model")
	}
	if err := c.writeOutput(opts.output, data); err != nil {
		return err
	}

	if spin != nil {
		spin.StopWithSuccess(fmt.Sprintf("Built view model from %d rows", len(ds.Samples)))
		printFile(opts.output)
		vm := r.ViewModel
		printRunStats(len(vm.Categories), vm.Global.Count, r.CacheHit, vm.Profile.Total())
	}
	return nil
}
