package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhertel/cardgrid/internal/server"
	"github.com/mhertel/cardgrid/pkg/cache"
	"github.com/mhertel/cardgrid/pkg/pipeline"
	"github.com/mhertel/cardgrid/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server computes grids from submitted decks and persists them for later
retrieval and re-rendering. Without --mongo-uri, grids are kept in memory and
lost on restart. Without --redis, pipeline results are cached in the local
file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Server.Addr, "listen address (default :8080)")
	cmd.Flags().StringVar(&redisAddr, "redis", c.Config.Server.RedisAddr, "Redis address for shared caching")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", c.Config.Server.MongoURI, "MongoDB connection string for persistence")

	return cmd
}

// runServe wires the cache, store, and runner, then serves until cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI string) error {
	if addr == "" {
		addr = ":8080"
	}

	backend, err := c.serverCache(ctx, redisAddr)
	if err != nil {
		return err
	}

	st, err := c.serverStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(backend, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:   addr,
		Runner: runner,
		Store:  st,
		Logger: c.Logger,
	})

	err = srv.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *CLI) serverCache(ctx context.Context, redisAddr string) (cache.Cache, error) {
	if redisAddr == "" {
		backend, err := newCache(false)
		if err != nil {
			return nil, fmt.Errorf("initialize cache: %w", err)
		}
		return backend, nil
	}
	backend, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Logger.Info("using redis cache", "addr", redisAddr)
	return backend, nil
}

func (c *CLI) serverStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		c.Logger.Warn("no --mongo-uri given, grids are kept in memory only")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.Logger.Info("using mongodb store")
	return st, nil
}
