package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubbleset/internal/server"
	"github.com/matzehuels/bubbleset/pkg/buildinfo"
	"github.com/matzehuels/bubbleset/pkg/cache"
	"github.com/matzehuels/bubbleset/pkg/observability"
	"github.com/matzehuels/bubbleset/pkg/pipeline"
	"github.com/matzehuels/bubbleset/pkg/store"
)

// Backend names accepted by the serve command.
const (
	backendMemory = "memory"
	backendFile   = "file"
	backendMongo  = "mongo"
	backendNone   = "none"
	backendRedis  = "redis"
)

type serveOpts struct {
	addr      string
	storeKind string
	storeDir  string
	mongo     store.MongoConfig
	cacheKind string
	redis     cache.RedisConfig
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		so serveOpts
		lf layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

POST records to /layouts to compute and store a layout, then fetch it from
/layouts/{id} as JSON or /layouts/{id}/svg as an image. Layout flags and the
config file set the defaults that requests can override.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), lf.merge(cmd, base), so)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&so.addr, "addr", ":8080", "listen address")
	fs.StringVar(&so.storeKind, "store", backendMemory, "layout store: memory, file, mongo")
	fs.StringVar(&so.storeDir, "store-dir", "", "directory of the file store (default: ~/.local/share/bubbleset/layouts)")
	fs.StringVar(&so.mongo.URI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection string")
	fs.StringVar(&so.mongo.Database, "mongo-db", "bubbleset", "MongoDB database")
	fs.StringVar(&so.mongo.Collection, "mongo-collection", "layouts", "MongoDB collection")
	fs.StringVar(&so.cacheKind, "cache", backendFile, "cache: none, file, redis")
	fs.StringVar(&so.redis.Addr, "redis-addr", "localhost:6379", "redis address")
	fs.StringVar(&so.redis.Password, "redis-password", "", "redis password")
	fs.IntVar(&so.redis.DB, "redis-db", 0, "redis database")
	fs.StringVar(&so.redis.Prefix, "redis-prefix", appName+":", "redis key prefix")
	lf.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, defaults pipeline.Options, so serveOpts) error {
	defaults.Logger = c.Logger
	if err := defaults.Validate(); err != nil {
		return err
	}

	st, err := openStore(ctx, so)
	if err != nil {
		return err
	}
	defer st.Close()

	cc, err := openCache(ctx, so)
	if err != nil {
		return err
	}

	observability.SetPipelineHooks(logHooks{c.Logger})
	observability.SetCacheHooks(logHooks{c.Logger})
	defer observability.Reset()

	// Shared caches outlive a single release, so keys carry the version.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	defer runner.Close()
	srv := server.New(runner, st, server.WithLogger(c.Logger), server.WithDefaults(defaults))

	printKeyValue("listen", so.addr)
	printKeyValue("store", so.storeKind)
	printKeyValue("cache", so.cacheKind)
	printKeyValue("strategy", defaults.Strategy)
	printNewline()

	return srv.ListenAndServe(ctx, so.addr)
}

func openStore(ctx context.Context, so serveOpts) (store.Store, error) {
	switch so.storeKind {
	case backendMemory:
		return store.NewMemoryStore(), nil
	case backendFile:
		return store.NewFileStore(so.storeDir)
	case backendMongo:
		return store.NewMongoStore(ctx, so.mongo)
	default:
		return nil, fmt.Errorf("unknown store %q (must be one of: memory, file, mongo)", so.storeKind)
	}
}

func openCache(ctx context.Context, so serveOpts) (cache.Cache, error) {
	switch so.cacheKind {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendFile:
		return newCache(false)
	case backendRedis:
		return cache.NewRedisCache(ctx, so.redis)
	default:
		return nil, fmt.Errorf("unknown cache %q (must be one of: none, file, redis)", so.cacheKind)
	}
}
