package cli

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/violin/internal/server"
	"github.com/matzehuels/violin/pkg/cache"
	"github.com/matzehuels/violin/pkg/config"
	"github.com/matzehuels/violin/pkg/pipeline"
)

// Environment variables read by `violin serve`. A .env file in the working
// directory (or --env-file) is loaded first; variables already set win.
const (
	envAddr          = "VIOLIN_ADDR"
	envRedisAddr     = "VIOLIN_REDIS_ADDR"
	envRedisPassword = "VIOLIN_REDIS_PASSWORD"
	envRedisDB       = "VIOLIN_REDIS_DB"
	envMongoURI      = "VIOLIN_MONGO_URI"
	envCacheDir      = "VIOLIN_CACHE_DIR"
	envCachePrefix   = "VIOLIN_CACHE_PREFIX"
)

type serveOpts struct {
	configPath string
	envFile    string
	addr       string
	redisAddr  string
	mongoURI   string
	prefix     string
	noCache    bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the view model HTTP API",
		Long: `Serve the view model HTTP API.

The view model cache is Redis when an address is configured, then MongoDB,
then the local file cache. Settings come from the config file, then the
environment (VIOLIN_ADDR, VIOLIN_REDIS_ADDR, VIOLIN_REDIS_PASSWORD,
VIOLIN_REDIS_DB, VIOLIN_MONGO_URI, VIOLIN_CACHE_DIR, VIOLIN_CACHE_PREFIX,
optionally from a .env file), then flags.

A cache prefix scopes every cache key, so staging and production can share
one Redis or MongoDB without reading each other's entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(opts.envFile); err != nil {
				return err
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := applyServeEnv(cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = opts.addr
			}
			if cmd.Flags().Changed("redis") {
				cfg.Cache.RedisAddr = opts.redisAddr
			}
			if cmd.Flags().Changed("mongo") {
				cfg.Cache.MongoURI = opts.mongoURI
			}
			if cmd.Flags().Changed("cache-prefix") {
				cfg.Cache.Prefix = opts.prefix
			}
			return c.runServe(cmd, cfg, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: user config dir/violin/config.toml)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "environment file to load (default: .env if present)")
	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for the view model cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "mongodb URI for the view model cache")
	cmd.Flags().StringVar(&opts.prefix, "cache-prefix", "", "prefix for every cache key")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the view model cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, cfg *config.File, noCache bool) error {
	ctx := cmd.Context()
	store, err := c.serverCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, serverKeyer(cfg.Cache), c.Logger)
	defer runner.Close()

	addr := cfg.Server.Addr
	if addr == "" {
		addr = server.DefaultAddr
	}
	printInfo("Serving the violin API")
	printKeyValue("address", addr)
	printKeyValue("cache", cacheKind(cfg.Cache, noCache))
	if cfg.Cache.Prefix != "" && !noCache {
		printKeyValue("prefix", cfg.Cache.Prefix)
	}
	printNewline()

	return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
}

// cacheKind names the backend serverCache selects.
func cacheKind(cfg config.Cache, noCache bool) string {
	switch {
	case noCache:
		return "disabled"
	case cfg.RedisAddr != "":
		return "redis"
	case cfg.MongoURI != "":
		return "mongo"
	default:
		return "file"
	}
}

// serverKeyer scopes cache keys by the configured prefix. Nil selects the
// default keyer.
func serverKeyer(cfg config.Cache) cache.Keyer {
	if cfg.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, cfg.Prefix)
}

// loadEnv loads path, or .env when path is empty. A missing default file is
// not an error.
func loadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return godotenv.Load(path)
}

// applyServeEnv overrides cfg with the serve environment variables that are
// set.
func applyServeEnv(cfg *config.File) error {
	if v, ok := os.LookupEnv(envAddr); ok {
		cfg.Server.Addr = v
	}
	if v, ok := os.LookupEnv(envRedisAddr); ok {
		cfg.Cache.RedisAddr = v
	}
	if v, ok := os.LookupEnv(envRedisPassword); ok {
		cfg.Cache.RedisPassword = v
	}
	if v, ok := os.LookupEnv(envRedisDB); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(envRedisDB + " must be an integer")
		}
		cfg.Cache.RedisDB = db
	}
	if v, ok := os.LookupEnv(envMongoURI); ok {
		cfg.Cache.MongoURI = v
	}
	if v, ok := os.LookupEnv(envCacheDir); ok {
		cfg.Cache.Dir = v
	}
	if v, ok := os.LookupEnv(envCachePrefix); ok {
		cfg.Cache.Prefix = v
	}
	return nil
}
