package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/violin/pkg/cache"
	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/errors"
	"github.com/matzehuels/violin/pkg/observability"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	ViewModel viewmodel.ViewModel
	// DatasetHash is the content hash of the canonical dataset.
	DatasetHash string
	// Key is the cache key the model is stored under.
	Key string
	// CacheHit reports that the model was read from the cache.
	CacheHit bool
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute builds the view model for ds, reading and filling the cache.
func (r *Runner) Execute(ctx context.Context, ds dataset.Dataset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := cache.HashJSON(ds.Canonical())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}
	key, err := r.Keyer.ViewModelKey(hash, opts.KeyOpts())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "cache key")
	}
	result := &Result{DatasetHash: hash, Key: key}

	hooks := observability.Cache()
	if !opts.Refresh {
		start := time.Now()
		data, hit, err := r.Cache.Get(ctx, result.Key)
		switch {
		case err != nil:
			hooks.OnCacheError(ctx, result.Key, err)
			r.Logger.Warn("cache read failed", "key", result.Key, "err", err)
		case hit:
			vm, err := viewmodel.Unmarshal(data)
			if err == nil {
				hooks.OnCacheHit(ctx, result.Key)
				vm.Profile = cachedProfile(start)
				result.ViewModel = vm
				result.CacheHit = true
				r.Logger.Debug("view model from cache", "key", result.Key)
				return result, nil
			}
			r.Logger.Warn("discarding corrupt cache entry", "key", result.Key, "err", err)
		default:
			hooks.OnCacheMiss(ctx, result.Key)
		}
	}

	result.ViewModel = r.build(ctx, ds, opts)

	if data, err := viewmodel.Marshal(result.ViewModel); err == nil {
		if err := r.Cache.Set(ctx, result.Key, data, cache.TTLViewModel); err != nil {
			hooks.OnCacheError(ctx, result.Key, err)
			r.Logger.Warn("cache write failed", "key", result.Key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, result.Key, len(data))
		}
	}
	return result, nil
}

// build runs Build under a fresh run ID and reports it to the pipeline hooks.
func (r *Runner) build(ctx context.Context, ds dataset.Dataset, opts Options) viewmodel.ViewModel {
	hooks := observability.Pipeline()
	runID := uuid.NewString()
	opts.RunID = runID
	hooks.OnRunStart(ctx, runID, len(ds.Samples))
	start := time.Now()

	vm := Build(ds, opts)
	for _, s := range vm.Profile.Stages {
		hooks.OnStage(ctx, runID, s.Name, s.Duration)
	}
	elapsed := time.Since(start)
	hooks.OnRunComplete(ctx, runID, len(vm.Categories), elapsed, nil)

	r.Logger.Info("built view model",
		"categories", len(vm.Categories),
		"render", vm.Render,
		"duration", elapsed)
	return vm
}

// cachedProfile describes a run served from the cache.
func cachedProfile(start time.Time) *viewmodel.Profile {
	end := time.Now()
	return &viewmodel.Profile{
		RunID: uuid.NewString(),
		Stages: []viewmodel.Stage{{
			Name:     "cache",
			Start:    start,
			End:      end,
			Duration: end.Sub(start),
		}},
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
